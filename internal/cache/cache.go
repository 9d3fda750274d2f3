// Package cache fournit un cache clé/valeur partagé avec expiration,
// utilisé par le rate limiter et le cache du leaderboard. Les valeurs
// sont des chaînes : les appelants sérialisent eux-mêmes (JSON).
//
// Le cache est "best effort" : une éviction avant le TTL est tolérée,
// les appelants doivent traiter un miss comme un chemin dégradé mais
// correct (refill du cache, reset d'une fenêtre de limite).
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get retourne la valeur et true si la clé existe et n'a pas expiré.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stocke la valeur, en remplaçant toute valeur précédente.
	// Après ttl, la clé se comporte comme absente.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
