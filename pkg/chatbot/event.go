// Package chatbot contains the conversation-context and prompt-assembly
// engine: context keys, mention gating and stripping, the bounded message
// cache and per-conversation history, quote resolution, prompt assembly,
// and the exit/reset session lifecycle. The chat platform and the AI
// backend are consumed through the ChatTransport and AIClient interfaces.
package chatbot

// SourceType identifies where an inbound event originated.
type SourceType string

const (
	SourceUser  SourceType = "user"
	SourceGroup SourceType = "group"
	SourceRoom  SourceType = "room"
)

// anonymousUser keys conversations whose source carries no user ID.
// The platform should always send one; this is the canonical fallback.
const anonymousUser = "anonymous"

// Mention is one mention target from the platform's mention metadata.
// Index and Length are in UTF-16 code units, as delivered by the platform.
type Mention struct {
	IsSelf bool
	Index  int
	Length int
}

// Event is an inbound text message, already narrowed from the raw webhook
// payload. Optional fields are zero-valued when the platform omitted them.
type Event struct {
	Source  SourceType
	UserID  string
	GroupID string
	RoomID  string

	MessageID       string
	Text            string
	Mentions        []Mention
	QuotedMessageID string

	ReplyToken      string
	MarkAsReadToken string
}

// JoinEvent signals that the bot was invited into a group or room.
type JoinEvent struct {
	Source     SourceType
	GroupID    string
	RoomID     string
	ReplyToken string
}

// ContextKey derives the conversation scope key for the event. Unknown
// source types fall through to the user form.
func (ev *Event) ContextKey() string {
	switch ev.Source {
	case SourceGroup:
		return "group:" + ev.GroupID
	case SourceRoom:
		return "room:" + ev.RoomID
	}
	if ev.UserID == "" {
		return "user:" + anonymousUser
	}
	return "user:" + ev.UserID
}

func (ev *Event) isGroupLike() bool {
	return ev.Source == SourceGroup || ev.Source == SourceRoom
}

// participantID labels the sender in history entries.
func (ev *Event) participantID() string {
	if ev.UserID == "" {
		return "unknown"
	}
	return ev.UserID
}
