// Package llmprovider клиент OpenAI-совместимого API chat completions.
package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/magabrotheeeer/persona-chat/internal/config"
)

// ErrNoChoices модель вернула ответ без вариантов.
var ErrNoChoices = errors.New("completion has no choices")

// Request параметры одного обращения к модели.
type Request struct {
	Model        string
	SystemPrompt string
	UserMessage  string
	Temperature  float32
	MaxTokens    int
}

// Client обращается к API языковых моделей.
type Client struct {
	api     *openai.Client
	timeout time.Duration
}

// New создаёт клиента по настройкам cfg.
func New(cfg config.LLM) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout}
	return &Client{
		api:     openai.NewClientWithConfig(oc),
		timeout: cfg.RequestTimeout,
	}
}

// Complete отправляет системный промпт и сообщение пользователя и возвращает текст первого варианта ответа.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	const op = "llmprovider.Complete"

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserMessage},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: model %s: %w", op, req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: model %s: %w", op, req.Model, ErrNoChoices)
	}
	return resp.Choices[0].Message.Content, nil
}
