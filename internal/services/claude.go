package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/config"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	maxTokens        = 500
	requestTimeout   = 30 * time.Second
)

// ChatMessage est un message de conversation {role, content} tel que
// soumis par le client et transmis tel quel à l'API.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage est la consommation de tokens rapportée par l'API.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ChatReply est la réponse aplatie renvoyée au client du jeu.
type ChatReply struct {
	Message string     `json:"message"`
	Model   string     `json:"model"`
	Usage   TokenUsage `json:"usage"`
}

// ClaudeService proxyfie les conversations du jeu vers l'API Anthropic.
// La clé d'API reste côté serveur, le client du jeu ne la voit jamais.
type ClaudeService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewClaudeService crée le service ; erreur si la clé n'est pas configurée.
func NewClaudeService(cfg *config.Config) (*ClaudeService, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("claude configuration is missing")
	}

	return &ClaudeService{
		apiKey:  cfg.AnthropicAPIKey,
		model:   cfg.ClaudeModel,
		baseURL: anthropicBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}, nil
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []ChatMessage `json:"messages"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage TokenUsage `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// SendMessages transmet la conversation à l'API et retourne le texte
// généré avec la consommation de tokens. Toute défaillance amont
// (timeout, statut non-2xx, réponse illisible) remonte en erreur ; le
// handler la traduit en 503. Pas de retry à ce niveau.
func (s *ClaudeService) SendMessages(ctx context.Context, messages []ChatMessage) (*ChatReply, error) {
	payload, err := json.Marshal(messagesRequest{
		Model:     s.model,
		MaxTokens: maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return nil, fmt.Errorf("encode claude request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build claude request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("claude request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode claude response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil {
			return nil, fmt.Errorf("claude API error: %s", decoded.Error.Message)
		}
		return nil, fmt.Errorf("claude API returned status %d", resp.StatusCode)
	}

	reply := &ChatReply{
		Model: decoded.Model,
		Usage: decoded.Usage,
	}
	if len(decoded.Content) > 0 {
		reply.Message = decoded.Content[0].Text
	}

	return reply, nil
}
