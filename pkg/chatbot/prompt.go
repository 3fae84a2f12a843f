package chatbot

import (
	"fmt"
	"strings"

	"github.com/d4mura/with4gent/pkg/anonymize"
)

const (
	summaryHeader = "---これまでの会話の要約---"
	summaryFooter = "------------------------"
	historyHeader = "---直近の会話内容---"
	historyFooter = "------------------"
)

// buildPrompt assembles the model input for one turn: rolling summaries
// first, then the recent history excluding the current message (which
// was already recorded), then the effective user message. The whole
// result is anonymized before it leaves this function.
func buildPrompt(summaries []string, history []HistoryEntry, cleanText, rawText string) string {
	userMessage := cleanText
	if userMessage == "" {
		userMessage = rawText
	}

	var parts []string
	if len(summaries) > 0 {
		parts = append(parts, summaryHeader)
		for i, s := range summaries {
			parts = append(parts, fmt.Sprintf("要約%d: %s", i+1, s))
		}
		parts = append(parts, summaryFooter)
	}

	// The most recent entry is the current message itself.
	if len(history) > 1 {
		parts = append(parts, historyHeader)
		for _, h := range history[:len(history)-1] {
			parts = append(parts, fmt.Sprintf("ユーザー(%s): %s", lastFour(h.UserID), anonymize.Text(h.Text)))
		}
		parts = append(parts, historyFooter)
	}

	if len(parts) > 0 {
		parts = append(parts, userMessage)
		userMessage = strings.Join(parts, "\n")
	}
	return anonymize.Text(userMessage)
}

func lastFour(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[len(id)-4:]
}
