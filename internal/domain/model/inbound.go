package model

import "strings"

// Branch is the relay path chosen for a plain (non-command) message.
type Branch string

const (
	BranchText  Branch = "text"
	BranchPhoto Branch = "photo"
	BranchOther Branch = "other"
)

// MediaKind names the non-photo media carried by an "other" message.
type MediaKind string

const (
	MediaDocument  MediaKind = "document"
	MediaVideo     MediaKind = "video"
	MediaAnimation MediaKind = "animation"
	MediaAudio     MediaKind = "audio"
	MediaVoice     MediaKind = "voice"
	MediaSticker   MediaKind = "sticker"
	MediaVideoNote MediaKind = "video_note"
	MediaUnknown   MediaKind = "unknown"
)

// SupportsCaption reports whether Telegram accepts a caption when this kind is copied.
func (k MediaKind) SupportsCaption() bool {
	switch k {
	case MediaDocument, MediaVideo, MediaAnimation, MediaAudio, MediaVoice:
		return true
	default:
		return false
	}
}

// Content is the closed set of plain-message payloads. Exactly one variant is
// produced per inbound message; photo takes precedence over text, text over media.
type Content interface {
	Branch() Branch
	isContent()
}

// Text is a plain text message.
type Text struct {
	Body string
}

// Photo references the highest-resolution variant of a photo message.
type Photo struct {
	FileID  string
	Caption string
}

// Media is any other message. Kind is MediaUnknown when nothing recognizable was found.
type Media struct {
	Kind    MediaKind
	Caption string
}

func (Text) Branch() Branch  { return BranchText }
func (Photo) Branch() Branch { return BranchPhoto }
func (Media) Branch() Branch { return BranchOther }

func (Text) isContent()  {}
func (Photo) isContent() {}
func (Media) isContent() {}

// Envelope is one inbound plain message, owned by the router for a single dispatch.
type Envelope struct {
	Sender    Sender
	ChatID    int64
	MessageID int
	Content   Content
}

// Recognizable is false for envelopes the router must ignore without acknowledgement.
func (e Envelope) Recognizable() bool {
	switch c := e.Content.(type) {
	case Text:
		return strings.TrimSpace(c.Body) != ""
	case Photo:
		return c.FileID != ""
	case Media:
		return c.Kind != MediaUnknown && c.Kind != ""
	default:
		return false
	}
}

// Command is an inbound "/name arg arg" unit.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits "/name@bot a b" into its name and whitespace-separated args.
// ok is false when text does not start with a slash.
func ParseCommand(text string) (Command, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}, false
	}
	name := strings.TrimPrefix(fields[0], "/")
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return Command{}, false
	}
	return Command{Name: strings.ToLower(name), Args: fields[1:]}, true
}
