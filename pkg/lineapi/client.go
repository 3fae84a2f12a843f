// Package lineapi implements the chat transport against the LINE
// Messaging API. Replies are split into display-friendly chunks, and
// failures on best-effort endpoints surface as plain errors for the
// caller to swallow.
package lineapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/rs/zerolog"
)

const (
	// defaultBotName is used when the bot profile cannot be fetched.
	defaultBotName = "with4gent"

	// replyChunkRunes is the per-message split size for long replies.
	replyChunkRunes = 160
	// maxReplyMessages is the platform limit on messages per reply.
	maxReplyMessages = 5

	markAsReadEndpoint = "https://api.line.me/v2/bot/message/markAsReadByToken"
)

// Client talks to the LINE Messaging API.
type Client struct {
	api   *messaging_api.MessagingApiAPI
	blob  *messaging_api.MessagingApiBlobAPI
	http  *http.Client
	token string
	log   zerolog.Logger
}

// NewClient builds a transport client from a channel access token.
func NewClient(channelToken string, log zerolog.Logger) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	blob, err := messaging_api.NewMessagingApiBlobAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging blob API client: %w", err)
	}
	return &Client{
		api:   api,
		blob:  blob,
		http:  &http.Client{Timeout: 10 * time.Second},
		token: channelToken,
		log:   log.With().Str("component", "lineapi").Logger(),
	}, nil
}

// ReplyMessage sends text in response to a reply token, splitting long
// replies into chunks up to the platform's per-reply message limit.
func (c *Client) ReplyMessage(replyToken, text string) error {
	chunks := SplitMessage(text)
	messages := make([]messaging_api.MessageInterface, 0, len(chunks))
	for _, chunk := range chunks {
		messages = append(messages, messaging_api.TextMessage{Text: chunk})
	}
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// SplitMessage cuts text into trimmed chunks of at most replyChunkRunes
// characters, capped at maxReplyMessages. Empty chunks are dropped; an
// empty input yields a single empty message.
func SplitMessage(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{""}
	}
	var chunks []string
	for i := 0; i < len(runes) && len(chunks) < maxReplyMessages; i += replyChunkRunes {
		end := i + replyChunkRunes
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	if len(chunks) == 0 {
		return []string{""}
	}
	return chunks
}

// MarkAsRead marks messages as read by webhook token. An empty token is
// a no-op: the platform only includes the token for some channel types.
// The endpoint is not covered by the SDK yet, so the call is raw HTTP.
func (c *Client) MarkAsRead(token string) error {
	if token == "" {
		return nil
	}
	body, err := json.Marshal(map[string]string{"markAsReadToken": token})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, markAsReadEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mark as read: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mark as read: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LeaveGroup makes the bot leave a group chat.
func (c *Client) LeaveGroup(groupID string) error {
	if _, err := c.api.LeaveGroup(groupID); err != nil {
		return fmt.Errorf("leave group: %w", err)
	}
	return nil
}

// LeaveRoom makes the bot leave a multi-person room.
func (c *Client) LeaveRoom(roomID string) error {
	if _, err := c.api.LeaveRoom(roomID); err != nil {
		return fmt.Errorf("leave room: %w", err)
	}
	return nil
}

// GetMessageContent fetches the raw content of a message by ID. Only
// text payloads are useful here; binary content decodes to garbage and
// the caller treats any error as "no content".
func (c *Client) GetMessageContent(messageID string) (string, error) {
	resp, err := c.blob.GetMessageContent(messageID)
	if err != nil {
		return "", fmt.Errorf("get message content: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read message content: %w", err)
	}
	return string(data), nil
}

// GetBotDisplayName returns the bot's profile display name, falling
// back to a fixed default when the profile fetch fails.
func (c *Client) GetBotDisplayName() string {
	info, err := c.api.GetBotInfo()
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to fetch bot info, using default name")
		return defaultBotName
	}
	if info.DisplayName == "" {
		return defaultBotName
	}
	return info.DisplayName
}
