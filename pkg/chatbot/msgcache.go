package chatbot

import "sync"

// defaultMessageCacheSize bounds the number of cached raw messages kept
// for quote resolution.
const defaultMessageCacheSize = 100

// MessageCache is a thread-safe bounded FIFO map from message ID to raw
// text. Eviction is strict insertion order: reads never refresh an
// entry's position, and overwriting an existing ID keeps its original
// slot in the queue.
type MessageCache struct {
	mu      sync.Mutex
	entries map[string]string
	order   []string
	maxSize int
}

// NewMessageCache creates a cache holding at most maxSize entries.
func NewMessageCache(maxSize int) *MessageCache {
	if maxSize <= 0 {
		maxSize = defaultMessageCacheSize
	}
	return &MessageCache{
		entries: make(map[string]string),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Put stores the raw text for a message ID, evicting the oldest entries
// once the cache exceeds its bound.
func (c *MessageCache) Put(messageID, text string) {
	if messageID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[messageID]; ok {
		c.entries[messageID] = text
		return
	}
	c.entries[messageID] = text
	c.order = append(c.order, messageID)
	for len(c.order) > c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Get returns the cached text for a message ID.
func (c *MessageCache) Get(messageID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.entries[messageID]
	return text, ok
}

// Len returns the current number of cached messages.
func (c *MessageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
