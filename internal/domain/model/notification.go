package model

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

const (
	// Telegram limits, counted in UTF-16 code units.
	MaxTextLength    = 4096
	MaxCaptionLength = 1024

	ellipsis = "…"
)

// ReplyHint formats "/reply <id> ", the literal prefix the operator copies
// into a reply command.
func ReplyHint(id int64) string {
	return fmt.Sprintf("/reply %d ", id)
}

// TextLength measures s the way Telegram does: in UTF-16 code units.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Width(r)
	}
	return n
}

func utf16Width(r rune) int {
	if w := len(utf16.Encode([]rune{r})); w > 0 {
		return w
	}
	return 1 // invalid runes are sent as U+FFFD
}

// Excerpt shortens s to at most max UTF-16 units, marking the cut with an
// ellipsis. Surrogate pairs are never split.
func Excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return ""
	}
	if TextLength(s) <= max {
		return s
	}
	budget := max - TextLength(ellipsis)
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := utf16Width(r)
		if used+w > budget {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return strings.TrimSpace(b.String()) + ellipsis
}

// Delivery is the successful outcome of a relay.
type Delivery struct {
	RelayID        string
	Branch         Branch
	OperatorChatID int64
}

// ReplyCommand is a parsed operator reply; discarded after one send attempt.
type ReplyCommand struct {
	TargetID int64
	Body     string
}
