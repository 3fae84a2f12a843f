// Package aiclient implements the conversational AI backend over the
// OpenAI Responses API. Conversation state lives server-side: each
// conversation key maps to the last response ID, and follow-up turns
// chain onto it with previous_response_id.
package aiclient

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"github.com/rs/zerolog"
)

const (
	// systemInstructions is sent on the first turn of every session.
	systemInstructions = "回答は必ず500文字以内で行ってください。"
	// summarizePrompt asks the model to compress the session so far.
	summarizePrompt = "これまでの会話の内容を、重要なポイントを逃さず100文字程度で簡潔に要約してください。"

	// promptTokenWarnThreshold flags prompts whose estimated size points
	// at runaway history or summary growth.
	promptTokenWarnThreshold = 4096
)

// Client is a stateful Responses API client keyed by conversation.
type Client struct {
	api   openai.Client
	model string
	log   zerolog.Logger

	mu       sync.Mutex
	sessions map[string]string // conversation key → last response ID
}

// NewClient builds an AI client for the given model.
func NewClient(apiKey, model string, log zerolog.Logger) *Client {
	return &Client{
		api:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:    model,
		log:      log.With().Str("component", "aiclient").Logger(),
		sessions: make(map[string]string),
	}
}

// newResponseParams builds the request for one conversation turn. Web
// search is enabled on every turn so the model can answer questions
// that need live information. The first turn of a session carries the
// system instructions; later turns chain onto the previous response ID
// instead.
func (c *Client) newResponseParams(prompt, previousResponseID string) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
		Store: openai.Bool(true),
		Tools: []responses.ToolUnionParam{{
			OfWebSearch: &responses.WebSearchToolParam{
				Type: responses.WebSearchToolTypeWebSearch,
			},
		}},
	}
	if previousResponseID != "" {
		params.PreviousResponseID = openai.String(previousResponseID)
	} else {
		params.Instructions = openai.String(systemInstructions)
	}
	return params
}

// GetResponse generates the next turn for a conversation.
func (c *Client) GetResponse(ctx context.Context, conversationKey, prompt string) (string, error) {
	params := c.newResponseParams(prompt, c.lastResponseID(conversationKey))

	if tokens, err := estimateTokens(prompt, c.model); err == nil {
		c.log.WithLevel(promptLogLevel(tokens)).
			Int("prompt_tokens", tokens).
			Msg("Sending prompt")
	}

	resp, err := c.api.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai response: %w", err)
	}
	c.setLastResponseID(conversationKey, resp.ID)
	return extractOutputText(resp), nil
}

// Summarize asks the model to compress the conversation so far. It
// never fails past this boundary: without a session, or on any upstream
// error, it returns an empty string. The summary is not stored into the
// session history.
func (c *Client) Summarize(ctx context.Context, conversationKey string) string {
	prev := c.lastResponseID(conversationKey)
	if prev == "" {
		return ""
	}
	resp, err := c.api.Responses.New(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(summarizePrompt),
		},
		PreviousResponseID: openai.String(prev),
		Store:              openai.Bool(false),
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("Summarization failed")
		return ""
	}
	return extractOutputText(resp)
}

// ClearSession forgets the stored response ID for a conversation.
// Unknown keys are a no-op.
func (c *Client) ClearSession(conversationKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, conversationKey)
}

func (c *Client) lastResponseID(conversationKey string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[conversationKey]
}

// promptLogLevel picks the log level for the outbound prompt size.
func promptLogLevel(tokens int) zerolog.Level {
	if tokens > promptTokenWarnThreshold {
		return zerolog.WarnLevel
	}
	return zerolog.DebugLevel
}

func (c *Client) setLastResponseID(conversationKey, responseID string) {
	if responseID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[conversationKey] = responseID
}

// extractOutputText concatenates the text parts of a response's output
// message items.
func extractOutputText(resp *responses.Response) string {
	var content strings.Builder
	for _, item := range resp.Output {
		switch item := item.AsAny().(type) {
		case responses.ResponseOutputMessage:
			for _, part := range item.Content {
				if part.Text != "" {
					content.WriteString(part.Text)
				}
			}
		}
	}
	return strings.TrimSpace(content.String())
}
