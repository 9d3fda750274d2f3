// Package ratelimit implémente un compteur à fenêtre fixe par
// (action, identité), stocké dans le cache partagé. Le limiteur est
// consultatif : une course entre deux instances peut laisser passer
// une requête de trop, et une éviction du cache remet la fenêtre à
// zéro. Il protège contre l'abus, pas contre un attaquant déterminé.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/cache"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
)

// WindowState est l'état d'une fenêtre, tel que sérialisé dans le cache.
type WindowState struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
}

// Config définit la politique d'une action.
type Config struct {
	Max    int           // requêtes autorisées par fenêtre
	Window time.Duration // durée de la fenêtre
}

// Check applique l'algorithme de fenêtre fixe. Fonction pure : l'état
// mis à jour est retourné, l'appelant le persiste.
//
// found indique si un état existait dans le cache ; un état absent ou
// dont la fenêtre est écoulée démarre une fenêtre neuve (le TTL du
// cache aurait déjà dû expirer la clé, la re-vérification ici garantit
// que les deux mécanismes sont d'accord). Un refus ne modifie pas
// l'état : les requêtes refusées ne prolongent pas la fenêtre.
func Check(state WindowState, found bool, cfg Config, now time.Time) (allowed bool, newState WindowState) {
	if !found || now.Sub(state.WindowStart) > cfg.Window {
		return true, WindowState{Count: 1, WindowStart: now}
	}

	if state.Count >= cfg.Max {
		return false, state
	}

	state.Count++
	return true, state
}

// Limiter persiste les états de fenêtre dans le cache partagé.
type Limiter struct {
	cache cache.Cache
}

func NewLimiter(c cache.Cache) *Limiter {
	return &Limiter{cache: c}
}

// Allow détermine si l'identité peut encore appeler l'action dans la
// fenêtre courante, et incrémente le compteur le cas échéant.
//
// En cas d'erreur du cache, Allow laisse passer ("fail open") : une
// panne Redis ne doit pas bloquer le trafic légitime.
func (l *Limiter) Allow(ctx context.Context, action, identity string, max int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", action, identity)
	cfg := Config{Max: max, Window: window}
	now := time.Now()

	var state WindowState
	found := false

	raw, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		utils.LogError("ratelimit: cache get %s: %v (failing open)", key, err)
		return true, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &state); err == nil {
			found = true
		}
		// état illisible => traité comme absent, la fenêtre repart
	}

	allowed, newState := Check(state, found, cfg, now)
	if !allowed {
		return false, nil
	}

	// TTL restant de la fenêtre d'origine, pour que l'expiration du
	// cache coïncide avec la fin de fenêtre calculée par Check.
	ttl := window - now.Sub(newState.WindowStart)
	if ttl <= 0 {
		ttl = window
	}

	encoded, err := json.Marshal(newState)
	if err != nil {
		return true, err
	}
	if err := l.cache.Set(ctx, key, string(encoded), ttl); err != nil {
		utils.LogError("ratelimit: cache set %s: %v (failing open)", key, err)
		return true, err
	}

	return true, nil
}
