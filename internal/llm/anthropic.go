package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/zenark/exambuddy/internal/model"
)

const anthropicMaxTokens = 1024

// Anthropic talks to the Anthropic Messages API.
type Anthropic struct {
	api   *anthropic.Client
	model string
}

// NewAnthropic creates an Anthropic client.
func NewAnthropic(apiKey, modelName string) *Anthropic {
	return &Anthropic{
		api:   anthropic.NewClient(apiKey),
		model: modelName,
	}
}

func (c *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	msgs := make([]anthropic.Message, 0, len(req.History)+1)
	for _, m := range req.History {
		role := anthropic.RoleUser
		if m.Role == model.RoleAssistant {
			role = anthropic.RoleAssistant
		}
		msgs = append(msgs, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
		})
	}
	msgs = append(msgs, anthropic.Message{
		Role:    anthropic.RoleUser,
		Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(req.User)},
	})

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicMaxTokens
	}
	temperature := req.Temperature

	areq := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
	if req.System != "" {
		areq.MultiSystem = []anthropic.MessageSystemPart{{Type: "text", Text: req.System}}
	}

	var resp anthropic.MessagesResponse
	err := defaultRetry.do(ctx, anthropicRetryable, func() error {
		var callErr error
		resp, callErr = c.api.CreateMessages(ctx, areq)
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			sb.WriteString(*block.Text)
		}
	}
	return sb.String(), nil
}

func anthropicRetryable(err error) bool {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == http.StatusTooManyRequests || reqErr.StatusCode >= 500
	}
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == "rate_limit_error" || apiErr.Type == "overloaded_error" || apiErr.Type == "api_error"
	}
	return false
}
