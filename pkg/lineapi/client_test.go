package lineapi

import (
	"strings"
	"testing"
)

func TestSplitMessageShortTextSingleChunk(t *testing.T) {
	chunks := SplitMessage("こんにちは")
	if len(chunks) != 1 || chunks[0] != "こんにちは" {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}

func TestSplitMessageEmpty(t *testing.T) {
	chunks := SplitMessage("")
	if len(chunks) != 1 || chunks[0] != "" {
		t.Fatalf("empty text yields a single empty message, got %v", chunks)
	}
}

func TestSplitMessageLongTextSplitsAt160(t *testing.T) {
	text := strings.Repeat("あ", 170)
	chunks := SplitMessage(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if got := len([]rune(chunks[0])); got != 160 {
		t.Fatalf("first chunk should be 160 runes, got %d", got)
	}
	if got := len([]rune(chunks[1])); got != 10 {
		t.Fatalf("second chunk should be 10 runes, got %d", got)
	}
}

func TestSplitMessageCapsAtPlatformLimit(t *testing.T) {
	text := strings.Repeat("x", 160*10)
	chunks := SplitMessage(text)
	if len(chunks) != maxReplyMessages {
		t.Fatalf("chunks must be capped at %d, got %d", maxReplyMessages, len(chunks))
	}
}

func TestSplitMessageTrimsChunks(t *testing.T) {
	// 159 a's plus a space straddling the boundary.
	text := strings.Repeat("a", 159) + "  b"
	chunks := SplitMessage(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if strings.HasSuffix(chunks[0], " ") {
		t.Fatalf("chunks must be trimmed: %q", chunks[0])
	}
	if chunks[1] != "b" {
		t.Fatalf("unexpected second chunk: %q", chunks[1])
	}
}
