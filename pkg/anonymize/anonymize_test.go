package anonymize

import (
	"strings"
	"testing"
)

func TestTextRedactsUserID(t *testing.T) {
	in := "message from U0123456789abcdef0123456789abcdef today"
	got := Text(in)
	if got != "message from [ID] today" {
		t.Fatalf("unexpected redaction result: %q", got)
	}
}

func TestTextRedactsAllKinds(t *testing.T) {
	in := "U" + strings.Repeat("a", 32) + " G" + strings.Repeat("b", 32) + " C" + strings.Repeat("c", 32)
	got := Text(in)
	if got != "[ID] [ID] [ID]" {
		t.Fatalf("expected all identifiers redacted, got %q", got)
	}
}

func TestTextLeavesShortTokensAlone(t *testing.T) {
	in := "U123 is not an identifier, neither is Gdeadbeef"
	if got := Text(in); got != in {
		t.Fatalf("short tokens should be untouched, got %q", got)
	}
}

func TestTextUppercaseHexNotMatched(t *testing.T) {
	in := "UABCDEF0123456789ABCDEF0123456789AB"
	if got := Text(in); got != in {
		t.Fatalf("uppercase hex should not match, got %q", got)
	}
}

func TestTextEmpty(t *testing.T) {
	if got := Text(""); got != "" {
		t.Fatalf("empty input should stay empty, got %q", got)
	}
}
