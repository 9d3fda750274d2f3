// Package validator vérifie la forme et les bornes de l'état de jeu
// soumis par le client avant toute persistance.
package validator

import (
	"fmt"
	"math"
)

// Bornes des champs obligatoires de l'état de jeu.
const (
	MinDay = 1
	MaxDay = 100

	MinEmployment = 0.0
	MaxEmployment = 100.0

	MinInflation = -10.0
	MaxInflation = 100.0
)

// ValidateGameState vérifie que state contient les champs attendus dans
// leurs bornes. La première règle violée court-circuite avec un message
// précis ; nil signifie que l'état est valide.
func ValidateGameState(state map[string]interface{}) error {
	for _, field := range []string{"currentDay", "employment", "inflation"} {
		if _, ok := state[field]; !ok {
			return fmt.Errorf("game_state is missing required field %q", field)
		}
	}

	day, ok := asNumber(state["currentDay"])
	if !ok || day != math.Trunc(day) {
		return fmt.Errorf("currentDay must be an integer")
	}
	if day < MinDay || day > MaxDay {
		return fmt.Errorf("currentDay must be between %d and %d", MinDay, MaxDay)
	}

	employment, ok := asNumber(state["employment"])
	if !ok {
		return fmt.Errorf("employment must be a number")
	}
	if employment < MinEmployment || employment > MaxEmployment {
		return fmt.Errorf("employment must be between %g and %g", MinEmployment, MaxEmployment)
	}

	inflation, ok := asNumber(state["inflation"])
	if !ok {
		return fmt.Errorf("inflation must be a number")
	}
	if inflation < MinInflation || inflation > MaxInflation {
		return fmt.Errorf("inflation must be between %g and %g", MinInflation, MaxInflation)
	}

	return nil
}

// asNumber accepte les types numériques produits par encoding/json.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
