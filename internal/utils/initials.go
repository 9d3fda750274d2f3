package utils

import (
	"fmt"
	"strings"
)

// NormalizeInitials ramène les initiales soumises à exactement 3
// caractères : lettres seules, majuscules, tronquées à 3 et complétées
// par des espaces ("a1!" => "A  "). Erreur s'il ne reste aucune lettre.
func NormalizeInitials(raw string) (string, error) {
	var letters strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if r >= 'A' && r <= 'Z' {
			letters.WriteRune(r)
			if letters.Len() == 3 {
				break
			}
		}
	}

	if letters.Len() == 0 {
		return "", fmt.Errorf("initials must contain at least one letter")
	}

	initials := letters.String()
	for len(initials) < 3 {
		initials += " "
	}
	return initials, nil
}
