package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/d4mura/with4gent/pkg/anonymize"
)

// ChatTransport is the messaging-platform side consumed by the bot.
// ReplyMessage failures are fatal and propagate to the caller; every
// other operation is best-effort from the bot's point of view.
type ChatTransport interface {
	ReplyMessage(replyToken, text string) error
	MarkAsRead(token string) error
	LeaveGroup(groupID string) error
	LeaveRoom(roomID string) error
	GetMessageContent(messageID string) (string, error)
	GetBotDisplayName() string
}

// AIClient is the conversational AI backend consumed by the bot.
// Summarize must never fail past its boundary: it returns an empty
// string when no summary is available. ClearSession is idempotent.
type AIClient interface {
	GetResponse(ctx context.Context, conversationKey, prompt string) (string, error)
	Summarize(ctx context.Context, conversationKey string) string
	ClearSession(conversationKey string)
}

const (
	resetMessage      = "会話セッションをリセットしました。"
	resetLeaveMessage = "了解。セッションを消去して退出します。"
	apologyMessage    = "申し訳ございません。エラーが発生しました。しばらくしてからもう一度お試しください。"
)

var exitCommands = []string{"/exit", "/bye"}

// Bot orchestrates one inbound event at a time: caching, gating,
// prompt assembly, the AI round trip, and session teardown.
type Bot struct {
	transport ChatTransport
	ai        AIClient
	log       zerolog.Logger

	cache *MessageCache
	store *ContextStore
}

// NewBot wires a bot against the given transport and AI backend.
func NewBot(transport ChatTransport, ai AIClient, log zerolog.Logger) *Bot {
	return &Bot{
		transport: transport,
		ai:        ai,
		log:       log.With().Str("component", "chatbot").Logger(),
		cache:     NewMessageCache(defaultMessageCacheSize),
		store:     NewContextStore(),
	}
}

// ProcessEvent runs the dispatch pipeline for one inbound text message.
// The returned error is a reply-send failure; everything recoverable is
// handled inside.
func (b *Bot) ProcessEvent(ctx context.Context, ev *Event) error {
	key := ev.ContextKey()
	log := b.log.With().Str("context_key", anonymize.Text(key)).Logger()

	b.cache.Put(ev.MessageID, ev.Text)
	count := b.store.Record(key, ev.participantID(), ev.Text)

	// Summarization runs before the mention gate so group chatter the
	// bot never answers still feeds the rolling summaries. The AI call
	// happens outside any store lock.
	if count%summarizeEvery == 0 {
		if summary := b.ai.Summarize(ctx, key); summary != "" {
			b.store.AppendSummary(key, summary)
		}
	}

	if err := b.transport.MarkAsRead(ev.MarkAsReadToken); err != nil {
		log.Warn().Err(err).Msg("Failed to mark message as read")
	}

	ranges := selfMentionRanges(ev.Mentions)
	if ev.isGroupLike() && len(ranges) == 0 {
		return nil
	}

	cleanText := stripMentions(ev.Text, ranges)
	if quote := b.resolveQuote(ev.QuotedMessageID, log); quote != "" {
		cleanText = "引用メッセージ: \"" + quote + "\"\n質問: " + cleanText
	}

	if isExitCommand(cleanText) {
		return b.handleExit(ev, key)
	}

	summaries, history := b.store.Snapshot(key)
	prompt := buildPrompt(summaries, history, cleanText, ev.Text)

	reply, err := b.ai.GetResponse(ctx, key, prompt)
	if err != nil {
		log.Error().Err(err).Msg("AI response failed, sending apology")
		return b.transport.ReplyMessage(ev.ReplyToken, apologyMessage)
	}
	return b.transport.ReplyMessage(ev.ReplyToken, anonymize.Text(reply))
}

// HandleJoin greets a group or room the bot was just invited into.
func (b *Bot) HandleJoin(ctx context.Context, ev *JoinEvent) error {
	botName := b.transport.GetBotDisplayName()
	help := fmt.Sprintf(
		"招待ありがとうございます！%sです。\n"+
			"私をメンションして話しかけてください。\n"+
			"「/exit」もしくは「/bye」でセッションをリセットして退出します。\n\n"+
			"よろしくお願いします！",
		botName,
	)
	return b.transport.ReplyMessage(ev.ReplyToken, help)
}

// resolveQuote resolves a quoted-message ID to its text, preferring the
// local cache and falling back to a transport fetch. Fetch failures are
// logged and treated as "no quote".
func (b *Bot) resolveQuote(quotedID string, log zerolog.Logger) string {
	if quotedID == "" {
		return ""
	}
	if text, ok := b.cache.Get(quotedID); ok {
		return text
	}
	text, err := b.transport.GetMessageContent(quotedID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch quoted message content")
		return ""
	}
	return text
}

// handleExit tears the session down: the AI session handle and the
// scope's counters and summaries are cleared, the history ring stays.
// Group and room scopes get a farewell reply and the bot leaves.
func (b *Bot) handleExit(ev *Event, key string) error {
	b.ai.ClearSession(key)
	b.store.Reset(key)

	if !ev.isGroupLike() {
		return b.transport.ReplyMessage(ev.ReplyToken, resetMessage)
	}
	if err := b.transport.ReplyMessage(ev.ReplyToken, resetLeaveMessage); err != nil {
		return err
	}
	switch ev.Source {
	case SourceGroup:
		return b.transport.LeaveGroup(ev.GroupID)
	case SourceRoom:
		return b.transport.LeaveRoom(ev.RoomID)
	}
	return nil
}

func isExitCommand(cleanText string) bool {
	for _, cmd := range exitCommands {
		if strings.EqualFold(cleanText, cmd) {
			return true
		}
	}
	return false
}
