package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	model "github.com/ChrisB2025/Keystroke-Kingdom/internal/models"
	"github.com/google/uuid"
)

// Memory est une implémentation en mémoire de GameStore, utilisée par
// les tests. Les sémantiques (une sauvegarde par utilisateur, tri du
// classement, borne à 100) sont identiques à Postgres.
type Memory struct {
	mu       sync.Mutex
	saves    map[string]model.GameSave // par user ID
	scores   []model.HighScore
	users    map[string]model.UserProfile // par user ID
	emails   map[string]string            // email -> user ID
	hashes   map[string]string            // user ID -> password hash
	sessions map[string]session           // par token
}

type session struct {
	userID    string
	expiresAt time.Time
	active    bool
}

func NewMemory() *Memory {
	return &Memory{
		saves:    make(map[string]model.GameSave),
		users:    make(map[string]model.UserProfile),
		emails:   make(map[string]string),
		hashes:   make(map[string]string),
		sessions: make(map[string]session),
	}
}

func (s *Memory) UpsertSave(ctx context.Context, userID string, state json.RawMessage, day int, employment, inflation, services float64) (model.GameSave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	save, exists := s.saves[userID]
	if !exists {
		save = model.GameSave{
			ID:        uuid.NewString(),
			UserID:    userID,
			CreatedAt: now,
		}
	}

	save.GameState = append(json.RawMessage(nil), state...)
	save.Day = day
	save.Employment = employment
	save.Inflation = inflation
	save.ServicesScore = services
	save.UpdatedAt = now

	s.saves[userID] = save
	return save, nil
}

func (s *Memory) GetSave(ctx context.Context, userID string) (model.GameSave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	save, ok := s.saves[userID]
	if !ok {
		return model.GameSave{}, ErrNotFound
	}
	return save, nil
}

func (s *Memory) InsertScore(ctx context.Context, entry model.HighScore) (model.HighScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = uuid.NewString()
	if entry.AchievedAt.IsZero() {
		entry.AchievedAt = time.Now()
	}
	if entry.UserID != nil {
		if user, ok := s.users[*entry.UserID]; ok {
			entry.Username = user.Name
		}
	}

	s.scores = append(s.scores, entry)
	return entry, nil
}

func (s *Memory) TopScores(ctx context.Context, limit int) ([]model.HighScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit = ClampLimit(limit)

	sorted := make([]model.HighScore, len(s.scores))
	copy(sorted, s.scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].AchievedAt.After(sorted[j].AchievedAt)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (s *Memory) UserBestScore(ctx context.Context, userID string) (model.HighScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best model.HighScore
	found := false
	for _, entry := range s.scores {
		if entry.UserID == nil || *entry.UserID != userID {
			continue
		}
		if !found || entry.Score > best.Score ||
			(entry.Score == best.Score && entry.AchievedAt.After(best.AchievedAt)) {
			best = entry
			found = true
		}
	}

	if !found {
		return best, ErrNotFound
	}
	return best, nil
}

func (s *Memory) CountSaves(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.saves[userID]; ok {
		return 1, nil
	}
	return 0, nil
}

func (s *Memory) CountScores(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, entry := range s.scores {
		if entry.UserID != nil && *entry.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Memory) CreateUser(ctx context.Context, name, email, passwordHash string) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	user := model.UserProfile{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		JoinDate:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.users[user.ID] = user
	s.emails[email] = user.ID
	s.hashes[user.ID] = passwordHash
	return user, nil
}

func (s *Memory) GetUserByEmail(ctx context.Context, email string) (model.UserProfile, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.emails[email]
	if !ok {
		return model.UserProfile{}, "", ErrNotFound
	}
	return s.users[userID], s.hashes[userID], nil
}

func (s *Memory) GetUserByToken(ctx context.Context, token string) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || !sess.active || time.Now().After(sess.expiresAt) {
		return model.UserProfile{}, ErrNotFound
	}
	return s.users[sess.userID], nil
}

func (s *Memory) CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = session{userID: userID, expiresAt: expiresAt, active: true}
	return nil
}

func (s *Memory) DeactivateSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || !sess.active {
		return ErrNotFound
	}
	sess.active = false
	s.sessions[token] = sess
	return nil
}

var _ GameStore = (*Memory)(nil)
