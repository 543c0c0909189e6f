package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-relay-bot/internal/domain/model"
)

func toSender(u *tgbotapi.User) model.Sender {
	if u == nil {
		return model.Sender{}
	}
	return model.Sender{ID: u.ID, Username: u.UserName, FirstName: u.FirstName}
}

// toEnvelope builds the plain-message envelope for msg.
func toEnvelope(msg *tgbotapi.Message) model.Envelope {
	env := model.Envelope{
		Sender:    toSender(msg.From),
		MessageID: msg.MessageID,
		Content:   classifyContent(msg),
	}
	if msg.Chat != nil {
		env.ChatID = msg.Chat.ID
	}
	return env
}

// classifyContent is total: photo wins over text, text over other media.
func classifyContent(msg *tgbotapi.Message) model.Content {
	if p, ok := largestPhoto(msg.Photo); ok {
		return model.Photo{FileID: p.FileID, Caption: msg.Caption}
	}
	if msg.Text != "" {
		return model.Text{Body: msg.Text}
	}
	return model.Media{Kind: mediaKind(msg), Caption: msg.Caption}
}

func mediaKind(msg *tgbotapi.Message) model.MediaKind {
	switch {
	// Animations also carry a Document; check them first.
	case msg.Animation != nil:
		return model.MediaAnimation
	case msg.Document != nil:
		return model.MediaDocument
	case msg.Video != nil:
		return model.MediaVideo
	case msg.Audio != nil:
		return model.MediaAudio
	case msg.Voice != nil:
		return model.MediaVoice
	case msg.Sticker != nil:
		return model.MediaSticker
	case msg.VideoNote != nil:
		return model.MediaVideoNote
	default:
		return model.MediaUnknown
	}
}

// largestPhoto picks the variant with the most pixels, breaking ties by size.
func largestPhoto(sizes []tgbotapi.PhotoSize) (tgbotapi.PhotoSize, bool) {
	if len(sizes) == 0 {
		return tgbotapi.PhotoSize{}, false
	}
	best := sizes[0]
	for _, p := range sizes[1:] {
		area, bestArea := p.Width*p.Height, best.Width*best.Height
		if area > bestArea || (area == bestArea && p.FileSize > best.FileSize) {
			best = p
		}
	}
	return best, best.FileID != ""
}
