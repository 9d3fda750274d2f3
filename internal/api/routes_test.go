package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/api"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/cache"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/handler"
	model "github.com/ChrisB2025/Keystroke-Kingdom/internal/models"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/ratelimit"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/services"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/store"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
	Message string            `json:"message"`
}

// stubClaude remplace le collaborateur IA dans les tests
type stubClaude struct {
	reply *services.ChatReply
	err   error
}

func (s *stubClaude) SendMessages(ctx context.Context, messages []services.ChatMessage) (*services.ChatReply, error) {
	return s.reply, s.err
}

// spyStore compte les requêtes leaderboard pour vérifier le cache
type spyStore struct {
	store.GameStore
	topScoresCalls atomic.Int64
}

func (s *spyStore) TopScores(ctx context.Context, limit int) ([]model.HighScore, error) {
	s.topScoresCalls.Add(1)
	return s.GameStore.TopScores(ctx, limit)
}

type testEnv struct {
	router http.Handler
	store  *store.Memory
	h      *handler.Handler
}

func newTestEnv(t *testing.T, claude handler.ClaudeClient) *testEnv {
	t.Helper()

	memStore := store.NewMemory()
	memCache := cache.NewMemory()
	h := handler.New(memStore, memCache, claude)
	limiter := ratelimit.NewLimiter(memCache)

	return &testEnv{
		router: api.SetupRouter(h, limiter),
		store:  memStore,
		h:      h,
	}
}

// createUser crée un utilisateur et une session, retourne (userID, token)
func (e *testEnv) createUser(t *testing.T, name, email string) (string, string) {
	t.Helper()

	user, err := e.store.CreateUser(context.Background(), name, email, "$2a$10$fakehash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	token := "token-" + user.ID
	if err := e.store.CreateSession(context.Background(), user.ID, token, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return user.ID, token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.9:51234"
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

const validSave = `{
	"game_state": {"currentDay": 42, "employment": 88.5, "inflation": -2, "gold": 1300},
	"day": 42,
	"employment": 88.5,
	"inflation": -2,
	"services_score": 71.25
}`

func TestSaveThenLoad_Roundtrip(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.createUser(t, "Chris", "chris@example.com")

	rec, resp := env.do(t, http.MethodPost, "/api/save", token, validSave)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("save success = false: %s", rec.Body.String())
	}

	rec, resp = env.do(t, http.MethodGet, "/api/load", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("load status = %d", rec.Code)
	}

	var save model.GameSave
	if err := json.Unmarshal(resp.Data, &save); err != nil {
		t.Fatalf("decode save: %v", err)
	}
	if save.Day != 42 || save.Employment != 88.5 || save.Inflation != -2 || save.ServicesScore != 71.25 {
		t.Errorf("loaded save differs from what was saved: %+v", save)
	}

	var state map[string]interface{}
	if err := json.Unmarshal(save.GameState, &state); err != nil {
		t.Fatalf("decode game_state: %v", err)
	}
	if state["gold"] != 1300.0 {
		t.Errorf("game_state.gold = %v, want 1300", state["gold"])
	}
}

func TestSaveGame_IdempotentOverwrite(t *testing.T) {
	env := newTestEnv(t, nil)
	userID, token := env.createUser(t, "Chris", "chris@example.com")

	for day := 1; day <= 5; day++ {
		body := fmt.Sprintf(`{"game_state": {"currentDay": %d, "employment": 50, "inflation": 1}, "day": %d}`, day, day)
		rec, _ := env.do(t, http.MethodPost, "/api/save", token, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("save %d status = %d", day, rec.Code)
		}
	}

	count, _ := env.store.CountSaves(context.Background(), userID)
	if count != 1 {
		t.Errorf("CountSaves = %d, want exactly 1 slot after repeated saves", count)
	}
}

func TestSaveGame_InvalidState(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.createUser(t, "Chris", "chris@example.com")

	tests := []struct {
		name string
		body string
	}{
		{"day zero", `{"game_state": {"currentDay": 0, "employment": 50, "inflation": 0}}`},
		{"day 101", `{"game_state": {"currentDay": 101, "employment": 50, "inflation": 0}}`},
		{"missing inflation", `{"game_state": {"currentDay": 5, "employment": 50}}`},
		{"state is a list", `{"game_state": [1, 2, 3]}`},
		{"state is a scalar", `{"game_state": 7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(t, http.MethodPost, "/api/save", token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if resp.Success {
				t.Error("success = true for invalid state")
			}
			if resp.Error == "" {
				t.Error("expected a specific error message")
			}
		})
	}
}

func TestLoadGame_NoSaveYet(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.createUser(t, "Chris", "chris@example.com")

	rec, resp := env.do(t, http.MethodGet, "/api/load", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp.Success {
		t.Error("success = true for missing save")
	}
	if resp.Message == "" {
		t.Error("expected a message for the expected-empty state")
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, &stubClaude{reply: &services.ChatReply{}})

	requests := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/save"},
		{http.MethodGet, "/api/load"},
		{http.MethodGet, "/api/stats"},
		{http.MethodPost, "/api/claude"},
	}

	for _, req := range requests {
		t.Run(req.path, func(t *testing.T) {
			// sans token
			rec, _ := env.do(t, req.method, req.path, "", `{}`)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("no token: status = %d, want 401", rec.Code)
			}

			// token invalide
			rec, _ = env.do(t, req.method, req.path, "bogus-token", `{}`)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("bad token: status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestSubmitScore_Anonymous(t *testing.T) {
	env := newTestEnv(t, nil)

	body := `{"initials": "a1!", "score": 1200, "final_day": 30, "employment": 90, "inflation": 2, "services": 80}`
	rec, resp := env.do(t, http.MethodPost, "/api/scores", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var entry model.HighScore
	if err := json.Unmarshal(resp.Data, &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.Initials != "A  " {
		t.Errorf("initials = %q, want %q", entry.Initials, "A  ")
	}
	if entry.Score != 1200 {
		t.Errorf("score = %d, want 1200", entry.Score)
	}
}

func TestSubmitScore_Authenticated(t *testing.T) {
	env := newTestEnv(t, nil)
	userID, token := env.createUser(t, "Chris", "chris@example.com")

	body := `{"initials": "cbk", "score": 900, "final_day": 12}`
	rec, _ := env.do(t, http.MethodPost, "/api/scores", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	best, err := env.store.UserBestScore(context.Background(), userID)
	if err != nil {
		t.Fatalf("UserBestScore failed: %v", err)
	}
	if best.Score != 900 || best.Initials != "CBK" {
		t.Errorf("best = %+v", best)
	}
}

func TestSubmitScore_RejectsEmptyInitials(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, initials := range []string{"", "123", "!?"} {
		body := fmt.Sprintf(`{"initials": %q, "score": 10}`, initials)
		rec, resp := env.do(t, http.MethodPost, "/api/scores", "", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("initials %q: status = %d, want 400", initials, rec.Code)
		}
		if resp.Errors["initials"] == "" {
			t.Errorf("initials %q: expected a field error", initials)
		}
	}
}

func TestSubmitScore_RateLimited(t *testing.T) {
	env := newTestEnv(t, nil)

	// 10 par minute pour score_submit, la 11ème est refusée
	for i := 1; i <= 10; i++ {
		rec, _ := env.do(t, http.MethodPost, "/api/scores", "", `{"initials": "abc", "score": 1}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("call %d: status = %d, want 201", i, rec.Code)
		}
	}

	rec, resp := env.do(t, http.MethodPost, "/api/scores", "", `{"initials": "abc", "score": 1}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("11th call: status = %d, want 429", rec.Code)
	}
	if resp.Success {
		t.Error("success = true for rate-limited request")
	}
}

func TestLeaderboard_OrderAndClamp(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 120; i++ {
		env.store.InsertScore(ctx, model.HighScore{
			Initials:   "AAA",
			Score:      i % 30,
			AchievedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	rec, resp := env.do(t, http.MethodGet, "/api/leaderboard?limit=1000", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var scores []model.HighScore
	if err := json.Unmarshal(resp.Data, &scores); err != nil {
		t.Fatalf("decode scores: %v", err)
	}
	if len(scores) != 100 {
		t.Fatalf("len = %d, want 100 even when limit=1000 is requested", len(scores))
	}
	for i := 1; i < len(scores); i++ {
		if scores[i].Score > scores[i-1].Score {
			t.Fatalf("not sorted by descending score at %d", i)
		}
	}
}

func TestLeaderboard_ServedFromCache(t *testing.T) {
	spy := &spyStore{GameStore: store.NewMemory()}
	memCache := cache.NewMemory()
	h := handler.New(spy, memCache, nil)
	h.LeaderboardTTL = 30 * time.Millisecond
	router := api.SetupRouter(h, ratelimit.NewLimiter(memCache))

	env := &testEnv{router: router, h: h}

	for i := 0; i < 3; i++ {
		rec, _ := env.do(t, http.MethodGet, "/api/leaderboard?limit=10", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d: status = %d", i, rec.Code)
		}
	}
	if calls := spy.topScoresCalls.Load(); calls != 1 {
		t.Fatalf("store queried %d times within the TTL, want 1", calls)
	}

	// après expiration du TTL : requête fraîche
	time.Sleep(50 * time.Millisecond)
	rec, _ := env.do(t, http.MethodGet, "/api/leaderboard?limit=10", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if calls := spy.topScoresCalls.Load(); calls != 2 {
		t.Fatalf("store queried %d times after TTL expiry, want 2", calls)
	}

	// une limite différente a sa propre entrée de cache
	env.do(t, http.MethodGet, "/api/leaderboard?limit=5", "", "")
	if calls := spy.topScoresCalls.Load(); calls != 3 {
		t.Fatalf("store queried %d times for a new limit, want 3", calls)
	}
}

func TestClaudeProxy(t *testing.T) {
	reply := &services.ChatReply{
		Message: "Bienvenue !",
		Model:   "claude-3-5-sonnet-20241022",
		Usage:   services.TokenUsage{InputTokens: 5, OutputTokens: 9},
	}
	env := newTestEnv(t, &stubClaude{reply: reply})
	_, token := env.createUser(t, "Chris", "chris@example.com")

	body := `{"messages": [{"role": "user", "content": "bonjour"}]}`
	rec, resp := env.do(t, http.MethodPost, "/api/claude", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var got services.ChatReply
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if got.Message != "Bienvenue !" || got.Usage.OutputTokens != 9 {
		t.Errorf("reply = %+v", got)
	}
}

func TestClaudeProxy_EmptyMessages(t *testing.T) {
	env := newTestEnv(t, &stubClaude{reply: &services.ChatReply{}})
	_, token := env.createUser(t, "Chris", "chris@example.com")

	rec, _ := env.do(t, http.MethodPost, "/api/claude", token, `{"messages": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestClaudeProxy_UpstreamDown(t *testing.T) {
	env := newTestEnv(t, &stubClaude{err: fmt.Errorf("upstream timeout")})
	_, token := env.createUser(t, "Chris", "chris@example.com")

	body := `{"messages": [{"role": "user", "content": "bonjour"}]}`
	rec, resp := env.do(t, http.MethodPost, "/api/claude", token, body)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if resp.Success {
		t.Error("success = true on upstream failure")
	}
}

func TestClaudeProxy_NotConfigured(t *testing.T) {
	env := newTestEnv(t, nil) // pas de clé d'API
	_, token := env.createUser(t, "Chris", "chris@example.com")

	body := `{"messages": [{"role": "user", "content": "bonjour"}]}`
	rec, _ := env.do(t, http.MethodPost, "/api/claude", token, body)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestUserStats(t *testing.T) {
	env := newTestEnv(t, nil)
	userID, token := env.createUser(t, "Chris", "chris@example.com")
	ctx := context.Background()

	// sans aucune donnée : best_score null
	rec, resp := env.do(t, http.MethodGet, "/api/stats", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats model.UserStats
	json.Unmarshal(resp.Data, &stats)
	if stats.Username != "Chris" || stats.BestScore != nil {
		t.Errorf("stats = %+v", stats)
	}

	env.store.UpsertSave(ctx, userID, json.RawMessage(`{"currentDay":3}`), 3, 50, 0, 10)
	for _, score := range []int{10, 77, 42} {
		env.store.InsertScore(ctx, model.HighScore{UserID: &userID, Initials: "CBK", Score: score})
	}

	rec, resp = env.do(t, http.MethodGet, "/api/stats", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	json.Unmarshal(resp.Data, &stats)
	if stats.TotalSaves != 1 || stats.TotalScores != 3 {
		t.Errorf("counts = %d saves / %d scores, want 1 / 3", stats.TotalSaves, stats.TotalScores)
	}
	if stats.BestScore == nil || stats.BestScore.Score != 77 {
		t.Errorf("best_score = %+v, want score 77", stats.BestScore)
	}
}

func TestSignupLoginLogout(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodPost, "/auth/signup", "", `{"name": "Chris", "email": "chris@example.com", "password": "secret123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d: %s", rec.Code, rec.Body.String())
	}
	var signup struct {
		Token string            `json:"token"`
		User  model.UserProfile `json:"user"`
	}
	if err := json.Unmarshal(resp.Data, &signup); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	if signup.Token == "" {
		t.Fatal("signup returned no token")
	}

	// le token du signup est immédiatement utilisable
	rec, _ = env.do(t, http.MethodGet, "/api/stats", signup.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats with signup token: status = %d", rec.Code)
	}

	rec, resp = env.do(t, http.MethodPost, "/auth/login", "", `{"email": "chris@example.com", "password": "secret123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	var login struct {
		Token string `json:"token"`
	}
	json.Unmarshal(resp.Data, &login)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}

	rec, _ = env.do(t, http.MethodPost, "/auth/login", "", `{"email": "chris@example.com", "password": "wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", rec.Code)
	}

	rec, _ = env.do(t, http.MethodPost, "/auth/logout", login.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	// la session désactivée ne passe plus
	rec, _ = env.do(t, http.MethodGet, "/api/stats", login.Token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("stats after logout: status = %d, want 401", rec.Code)
	}
}
