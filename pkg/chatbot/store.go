package chatbot

import "sync"

const (
	// historyLimit bounds the verbatim rolling history per conversation.
	historyLimit = 10
	// summaryLimit bounds the rolling summary list per conversation.
	summaryLimit = 10
	// summarizeEvery is the message-count interval that triggers a
	// summarization call.
	summarizeEvery = 10
)

// HistoryEntry is one recorded inbound message: who sent it and what
// they sent, verbatim.
type HistoryEntry struct {
	UserID string
	Text   string
}

// conversationContext holds the mutable per-conversation state. Each
// context carries its own lock so unrelated conversations never
// serialize on each other.
type conversationContext struct {
	mu           sync.Mutex
	history      []HistoryEntry
	messageCount int
	summaries    []string
}

// ContextStore keeps one conversationContext per conversation key,
// created on first use. The outer lock only guards the map; all state
// mutation happens under the per-key lock.
type ContextStore struct {
	mu       sync.Mutex
	contexts map[string]*conversationContext
}

// NewContextStore creates an empty store.
func NewContextStore() *ContextStore {
	return &ContextStore{contexts: make(map[string]*conversationContext)}
}

func (s *ContextStore) get(key string) *conversationContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc := s.contexts[key]
	if cc == nil {
		cc = &conversationContext{}
		s.contexts[key] = cc
	}
	return cc
}

// Record appends an inbound message to the conversation's history ring
// and increments its message counter, returning the new count. The
// oldest entry is dropped once the ring exceeds its bound.
func (s *ContextStore) Record(key, userID, text string) int {
	cc := s.get(key)
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.history = append(cc.history, HistoryEntry{UserID: userID, Text: text})
	if len(cc.history) > historyLimit {
		cc.history = cc.history[len(cc.history)-historyLimit:]
	}
	cc.messageCount++
	return cc.messageCount
}

// AppendSummary adds a rolling summary, dropping the oldest beyond the
// bound. Empty summaries are ignored.
func (s *ContextStore) AppendSummary(key, summary string) {
	if summary == "" {
		return
	}
	cc := s.get(key)
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.summaries = append(cc.summaries, summary)
	if len(cc.summaries) > summaryLimit {
		cc.summaries = cc.summaries[len(cc.summaries)-summaryLimit:]
	}
}

// Snapshot returns copies of the conversation's summaries and history.
func (s *ContextStore) Snapshot(key string) (summaries []string, history []HistoryEntry) {
	cc := s.get(key)
	cc.mu.Lock()
	defer cc.mu.Unlock()
	summaries = append(summaries, cc.summaries...)
	history = append(history, cc.history...)
	return summaries, history
}

// Reset clears the message counter and summaries for a conversation.
// The history ring is intentionally kept: after a session reset the
// recent turns remain available as context for the next session.
func (s *ContextStore) Reset(key string) {
	cc := s.get(key)
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.messageCount = 0
	cc.summaries = nil
}
