package chatbot

import (
	"fmt"
	"testing"
)

func TestMessageCachePutGet(t *testing.T) {
	cache := NewMessageCache(100)
	cache.Put("id1", "hello")

	text, ok := cache.Get("id1")
	if !ok || text != "hello" {
		t.Fatalf("expected cached text, got %q ok=%v", text, ok)
	}
	if _, ok := cache.Get("id2"); ok {
		t.Fatal("unknown id must miss")
	}
}

func TestMessageCacheEvictsFIFO(t *testing.T) {
	cache := NewMessageCache(100)
	for i := 1; i <= 101; i++ {
		cache.Put(fmt.Sprintf("id%d", i), fmt.Sprintf("text%d", i))
	}

	if cache.Len() != 100 {
		t.Fatalf("cache must stay bounded at 100, got %d", cache.Len())
	}
	if _, ok := cache.Get("id1"); ok {
		t.Fatal("first-inserted entry must be evicted")
	}
	if _, ok := cache.Get("id2"); !ok {
		t.Fatal("second entry should still be present")
	}
	if _, ok := cache.Get("id101"); !ok {
		t.Fatal("newest entry should be present")
	}
}

func TestMessageCacheReadsDoNotRefreshOrder(t *testing.T) {
	cache := NewMessageCache(3)
	cache.Put("a", "1")
	cache.Put("b", "2")
	cache.Put("c", "3")

	// Reading "a" must not protect it from eviction.
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("expected a to be cached")
	}
	cache.Put("d", "4")

	if _, ok := cache.Get("a"); ok {
		t.Fatal("a must have been evicted despite the recent read")
	}
	if _, ok := cache.Get("b"); !ok {
		t.Fatal("b should still be cached")
	}
}

func TestMessageCacheOverwriteKeepsPosition(t *testing.T) {
	cache := NewMessageCache(2)
	cache.Put("a", "1")
	cache.Put("b", "2")
	cache.Put("a", "updated")
	cache.Put("c", "3")

	// "a" kept its original slot, so it is the oldest and gets evicted.
	if _, ok := cache.Get("a"); ok {
		t.Fatal("overwritten entry must keep its insertion position")
	}
	if text, ok := cache.Get("b"); !ok || text != "2" {
		t.Fatalf("expected b intact, got %q ok=%v", text, ok)
	}
}

func TestMessageCacheIgnoresEmptyID(t *testing.T) {
	cache := NewMessageCache(10)
	cache.Put("", "text")
	if cache.Len() != 0 {
		t.Fatalf("empty id must not be cached, len=%d", cache.Len())
	}
}
