// Package httpapi exposes the webhook and health endpoints. The
// webhook handler verifies the platform signature, narrows the raw
// callback events into chatbot events, and runs the dispatch pipeline.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/rs/zerolog"

	"github.com/d4mura/with4gent/pkg/chatbot"
)

// Server handles inbound HTTP traffic for the bot.
type Server struct {
	bot           *chatbot.Bot
	channelSecret string
	log           zerolog.Logger
}

// NewServer builds the HTTP surface around a bot.
func NewServer(bot *chatbot.Bot, channelSecret string, log zerolog.Logger) *Server {
	return &Server{
		bot:           bot,
		channelSecret: channelSecret,
		log:           log.With().Str("component", "httpapi").Logger(),
	}
}

// Handler returns the routed handler with request logging attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withRequestLog(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleWebhook parses one webhook delivery. Signature failures answer
// 400; a reply-send failure on any event answers 500 after the
// remaining events were still processed.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	cb, err := webhook.ParseRequest(s.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			log.Warn().Err(err).Msg("Webhook signature verification failed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Cannot parse webhook request")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	failed := false
	for _, event := range cb.Events {
		switch e := event.(type) {
		case webhook.MessageEvent:
			ev, ok := messageEventFromWebhook(e)
			if !ok {
				continue
			}
			if err := s.bot.ProcessEvent(r.Context(), ev); err != nil {
				log.Error().Err(err).Msg("Failed to process message event")
				failed = true
			}
		case webhook.JoinEvent:
			if err := s.bot.HandleJoin(r.Context(), joinEventFromWebhook(e)); err != nil {
				log.Error().Err(err).Msg("Failed to handle join event")
				failed = true
			}
		}
	}

	if failed {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte("OK"))
}

// messageEventFromWebhook narrows a raw message event to a chatbot
// event. Non-text message content is ignored.
func messageEventFromWebhook(e webhook.MessageEvent) (*chatbot.Event, bool) {
	msg, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		return nil, false
	}

	ev := &chatbot.Event{
		Source:          chatbot.SourceUser,
		MessageID:       msg.Id,
		Text:            msg.Text,
		QuotedMessageID: msg.QuotedMessageId,
		ReplyToken:      e.ReplyToken,
	}

	switch src := e.Source.(type) {
	case webhook.UserSource:
		ev.UserID = src.UserId
	case webhook.GroupSource:
		ev.Source = chatbot.SourceGroup
		ev.GroupID = src.GroupId
		ev.UserID = src.UserId
	case webhook.RoomSource:
		ev.Source = chatbot.SourceRoom
		ev.RoomID = src.RoomId
		ev.UserID = src.UserId
	}

	if msg.Mention != nil {
		for _, m := range msg.Mention.Mentionees {
			if um, ok := m.(webhook.UserMentionee); ok {
				ev.Mentions = append(ev.Mentions, chatbot.Mention{
					IsSelf: um.IsSelf,
					Index:  int(um.Index),
					Length: int(um.Length),
				})
			}
		}
	}
	return ev, true
}

func joinEventFromWebhook(e webhook.JoinEvent) *chatbot.JoinEvent {
	ev := &chatbot.JoinEvent{
		Source:     chatbot.SourceGroup,
		ReplyToken: e.ReplyToken,
	}
	switch src := e.Source.(type) {
	case webhook.GroupSource:
		ev.GroupID = src.GroupId
	case webhook.RoomSource:
		ev.Source = chatbot.SourceRoom
		ev.RoomID = src.RoomId
	}
	return ev
}
