//go:build !integration

package model

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// --- Sender Tests ---

func TestSenderDisplayName(t *testing.T) {
	cases := []struct {
		name   string
		sender Sender
		want   string
	}{
		{"username wins", Sender{ID: 42, Username: "alice", FirstName: "Alice"}, "@alice"},
		{"first name fallback", Sender{ID: 42, FirstName: "Alice"}, "Alice"},
		{"id fallback", Sender{ID: 42}, "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sender.DisplayName(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

// --- Envelope / Content Tests ---

func TestEnvelopeRecognizable(t *testing.T) {
	cases := []struct {
		name    string
		content Content
		want    bool
	}{
		{"text", Text{Body: "Need repair"}, true},
		{"blank text", Text{Body: "   "}, false},
		{"photo", Photo{FileID: "f1"}, true},
		{"photo without file", Photo{}, false},
		{"document", Media{Kind: MediaDocument}, true},
		{"unknown media", Media{Kind: MediaUnknown}, false},
		{"nil content", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := Envelope{Sender: Sender{ID: 1}, Content: tc.content}
			if got := env.Recognizable(); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestContentBranch(t *testing.T) {
	if (Text{}).Branch() != BranchText {
		t.Error("text content should map to the text branch")
	}
	if (Photo{}).Branch() != BranchPhoto {
		t.Error("photo content should map to the photo branch")
	}
	if (Media{Kind: MediaSticker}).Branch() != BranchOther {
		t.Error("media content should map to the other branch")
	}
}

func TestMediaKindSupportsCaption(t *testing.T) {
	if !MediaDocument.SupportsCaption() {
		t.Error("documents accept captions")
	}
	if MediaSticker.SupportsCaption() || MediaVideoNote.SupportsCaption() {
		t.Error("stickers and video notes do not accept captions")
	}
}

func TestParseCommand(t *testing.T) {
	t.Run("should split name and args", func(t *testing.T) {
		cmd, ok := ParseCommand("/reply 42 Your request   is scheduled")
		if !ok {
			t.Fatal("expected a command")
		}
		if cmd.Name != "reply" {
			t.Errorf("expected name 'reply', got %q", cmd.Name)
		}
		want := []string{"42", "Your", "request", "is", "scheduled"}
		if strings.Join(cmd.Args, "|") != strings.Join(want, "|") {
			t.Errorf("unexpected args: %v", cmd.Args)
		}
	})

	t.Run("should strip the bot mention", func(t *testing.T) {
		cmd, ok := ParseCommand("/Block@relay_bot 7")
		if !ok || cmd.Name != "block" || len(cmd.Args) != 1 {
			t.Fatalf("unexpected parse result: %+v ok=%v", cmd, ok)
		}
	})

	t.Run("should reject plain text", func(t *testing.T) {
		if _, ok := ParseCommand("hello /reply"); ok {
			t.Error("plain text must not parse as a command")
		}
		if _, ok := ParseCommand("/"); ok {
			t.Error("a lone slash is not a command")
		}
	})
}

// --- Notification Tests ---

func TestReplyHint(t *testing.T) {
	if got := ReplyHint(42); got != "/reply 42 " {
		t.Errorf("unexpected reply hint %q", got)
	}
}

func TestTextLength(t *testing.T) {
	cases := map[string]int{"": 0, "abc": 3, "жжж": 3, "😀": 2, "📩 hi": 5}
	for in, want := range cases {
		if got := TextLength(in); got != want {
			t.Errorf("TextLength(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	t.Run("short text is kept", func(t *testing.T) {
		if got := Excerpt("  Need repair ", 50); got != "Need repair" {
			t.Errorf("unexpected excerpt %q", got)
		}
	})

	t.Run("long text is cut with an ellipsis", func(t *testing.T) {
		got := Excerpt(strings.Repeat("ж", 20), 10)
		if utf8.RuneCountInString(got) != 10 {
			t.Errorf("expected 10 runes, got %d (%q)", utf8.RuneCountInString(got), got)
		}
		if !strings.HasSuffix(got, "…") {
			t.Errorf("expected ellipsis suffix, got %q", got)
		}
	})

	t.Run("emoji count as two units and are never split", func(t *testing.T) {
		got := Excerpt(strings.Repeat("😀", 20), 10)
		if n := TextLength(got); n > 10 {
			t.Errorf("expected at most 10 UTF-16 units, got %d (%q)", n, got)
		}
		if got != strings.Repeat("😀", 4)+"…" {
			t.Errorf("unexpected excerpt %q", got)
		}
		if !utf8.ValidString(got) {
			t.Error("excerpt is not valid UTF-8")
		}
	})

	t.Run("non-positive budget yields empty", func(t *testing.T) {
		if got := Excerpt("abc", 0); got != "" {
			t.Errorf("expected empty excerpt, got %q", got)
		}
	})
}

// --- Status Tests ---

func TestRouteOutcomeAcknowledged(t *testing.T) {
	silent := []RouteOutcome{RouteDroppedBlocked, RouteDroppedOperator, RouteIgnored}
	for _, o := range silent {
		if o.Acknowledged() {
			t.Errorf("%s must not be acknowledged", o)
		}
	}
	answered := []RouteOutcome{RouteRateLimited, RouteRelayed, RouteRelayFailed}
	for _, o := range answered {
		if !o.Acknowledged() {
			t.Errorf("%s must be acknowledged", o)
		}
	}
}
