package chatbot

import (
	"fmt"
	"testing"
)

func TestRecordCountsPerScope(t *testing.T) {
	store := NewContextStore()

	for i := 1; i <= 3; i++ {
		if got := store.Record("group:G1", "U1", "text"); got != i {
			t.Fatalf("expected count %d, got %d", i, got)
		}
	}
	if got := store.Record("user:U2", "U2", "text"); got != 1 {
		t.Fatalf("scopes must count independently, got %d", got)
	}
}

func TestHistoryRingKeepsLastTen(t *testing.T) {
	store := NewContextStore()
	for i := 1; i <= 11; i++ {
		store.Record("user:U1", "U1", fmt.Sprintf("msg%d", i))
	}

	_, history := store.Snapshot("user:U1")
	if len(history) != 10 {
		t.Fatalf("history must stay bounded at 10, got %d", len(history))
	}
	if history[0].Text != "msg2" {
		t.Fatalf("oldest entry must be evicted first, head is %q", history[0].Text)
	}
	if history[9].Text != "msg11" {
		t.Fatalf("newest entry must be last, tail is %q", history[9].Text)
	}
}

func TestSummariesBounded(t *testing.T) {
	store := NewContextStore()
	for i := 1; i <= 11; i++ {
		store.AppendSummary("user:U1", fmt.Sprintf("summary%d", i))
	}

	summaries, _ := store.Snapshot("user:U1")
	if len(summaries) != 10 {
		t.Fatalf("summaries must stay bounded at 10, got %d", len(summaries))
	}
	if summaries[0] != "summary2" {
		t.Fatalf("oldest summary must be evicted first, head is %q", summaries[0])
	}
}

func TestAppendSummaryIgnoresEmpty(t *testing.T) {
	store := NewContextStore()
	store.AppendSummary("user:U1", "")
	if summaries, _ := store.Snapshot("user:U1"); len(summaries) != 0 {
		t.Fatalf("empty summary must be dropped, got %v", summaries)
	}
}

func TestResetClearsCounterAndSummariesKeepsHistory(t *testing.T) {
	store := NewContextStore()
	store.Record("user:U1", "U1", "msg1")
	store.Record("user:U1", "U1", "msg2")
	store.AppendSummary("user:U1", "summary")

	store.Reset("user:U1")

	summaries, history := store.Snapshot("user:U1")
	if len(summaries) != 0 {
		t.Fatalf("summaries must be cleared on reset, got %v", summaries)
	}
	if len(history) != 2 {
		t.Fatalf("history must survive reset, got %d entries", len(history))
	}
	if got := store.Record("user:U1", "U1", "msg3"); got != 1 {
		t.Fatalf("counter must restart after reset, got %d", got)
	}
}

func TestSnapshotReturnsCopies(t *testing.T) {
	store := NewContextStore()
	store.Record("user:U1", "U1", "msg1")

	_, history := store.Snapshot("user:U1")
	history[0].Text = "mutated"

	_, fresh := store.Snapshot("user:U1")
	if fresh[0].Text != "msg1" {
		t.Fatal("snapshot must not alias internal state")
	}
}
