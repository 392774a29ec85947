package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/shopsense-ai/shopsense/internal/config"
	"github.com/tidwall/gjson"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatServiceInterface interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// OllamaService talks to a local Ollama runtime for the plain-chat path.
// No tool use, no streaming: one request, one completion.
type OllamaService struct {
	BaseURL string
	Model   string
	client  *resty.Client
}

func NewOllamaService() *OllamaService {
	cfg := config.LoadOllamaConfig()
	return &OllamaService{
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		client:  resty.New(),
	}
}

func (s *OllamaService) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model":    s.Model,
			"messages": messages,
			"stream":   false,
		}).
		Post(s.BaseURL + "/api/chat")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode(), resp.String())
	}

	text := gjson.Get(resp.String(), "message.content").String()
	if text == "" {
		return "", fmt.Errorf("no response from model")
	}
	return text, nil
}
