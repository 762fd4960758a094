package services

import (
	"strings"

	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/google/uuid"
)

// ComposerSession is the submit side of one viewer's message box on a flat
// page. It keeps the draft text and the reply-target selection between
// attempts: a failed append preserves the typed text for retry, a successful
// one clears the box and drops back to new-top-level-message mode.
type ComposerSession struct {
	Flat   models.Flat
	Viewer models.Account

	Text        string
	ReplyTarget *models.Message

	append func(models.Message) (models.Message, error)
}

func NewComposerSession(flat models.Flat, viewer models.Account) *ComposerSession {
	return &ComposerSession{
		Flat:   flat,
		Viewer: viewer,
		append: NewMessage,
	}
}

func (s *ComposerSession) SetReplyTarget(msg *models.Message) {
	s.ReplyTarget = msg
}

func (s *ComposerSession) CancelReply() {
	s.ReplyTarget = nil
}

// Submit validates and appends a message or a reply. Validation failures
// never reach the store.
func (s *ComposerSession) Submit(text string) (models.Message, error) {
	if s.Viewer.ID == 0 {
		return models.Message{}, NewValidationError("you need to sign in to send messages")
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) == 0 {
		return models.Message{}, NewValidationError("you cannot send an empty message")
	}

	draft := models.Message{
		Uuid:         uuid.NewString(),
		Content:      trimmed,
		SenderName:   s.Viewer.DisplayName(),
		SenderAvatar: s.Viewer.Avatar,
		FlatID:       s.Flat.ID,
		SenderID:     s.Viewer.ID,
	}
	if s.ReplyTarget != nil {
		if s.ReplyTarget.FlatID != s.Flat.ID {
			return models.Message{}, NewValidationError("reply target belongs to another flat")
		}
		draft.ReplyID = &s.ReplyTarget.ID
	}

	message, err := s.append(draft)
	if err != nil {
		s.Text = text
		return message, err
	}

	s.Text = ""
	s.ReplyTarget = nil

	return message, nil
}
