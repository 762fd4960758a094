package api

import (
	"context"
	"errors"

	"github.com/flatfinder/flatfinder/pkg/internal/http/exts"
	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/flatfinder/flatfinder/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

type renderedMessage struct {
	models.Message

	AvatarUrl      *string `json:"avatar_url"`
	AvatarFallback string  `json:"avatar_fallback"`
	CanReply       bool    `json:"can_reply"`
}

type renderedThreadEntry struct {
	renderedMessage

	ReplyCount int               `json:"reply_count"`
	Replies    []renderedMessage `json:"replies"`
}

func renderMessage(ctx context.Context, view services.ThreadView, msg models.Message, viewerId uint, ownerId uint) renderedMessage {
	return renderedMessage{
		Message:        msg,
		AvatarUrl:      services.Avatars.Resolve(ctx, msg.SenderAvatar),
		AvatarFallback: services.AvatarFallbackLetter(msg.SenderName),
		CanReply:       view.CanReply(viewerId, msg, ownerId),
	}
}

// renderThreadView is the UI-facing shape of a thread: top-level entries
// newest-first, replies inlined oldest-first, avatars resolved
// opportunistically (unresolved ones fall back to the initial letter).
func renderThreadView(ctx context.Context, view services.ThreadView, viewerId uint, ownerId uint) []renderedThreadEntry {
	entries := make([]renderedThreadEntry, 0, len(view.TopLevel))
	for _, entry := range view.TopLevel {
		rendered := renderedThreadEntry{
			renderedMessage: renderMessage(ctx, view, entry.Message, viewerId, ownerId),
			ReplyCount:      entry.ReplyCount,
			Replies:         make([]renderedMessage, 0, entry.ReplyCount),
		}
		for _, reply := range view.RepliesOf(entry.Message.ID) {
			rendered.Replies = append(rendered.Replies, renderMessage(ctx, view, reply, viewerId, ownerId))
		}
		entries = append(entries, rendered)
	}
	return entries
}

func statusForError(err error) *fiber.Error {
	var validationErr services.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	var storeErr services.StoreError
	if errors.As(err, &storeErr) {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func getMessageThread(c *fiber.Ctx) error {
	flatId, _ := c.ParamsInt("flatId", 0)

	flat, err := services.GetFlatIdentity(uint(flatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var viewerId uint
	if user, ok := c.Locals("user").(models.Account); ok {
		viewerId = user.ID
	}

	messages, err := services.ListMessage(flat.ID)
	if err != nil {
		return statusForError(err)
	}

	view := services.ReconstructThread(messages)

	return c.JSON(fiber.Map{
		"count": len(messages),
		"data":  renderThreadView(c.Context(), view, viewerId, flat.OwnerID),
	})
}

func newMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	flatId, _ := c.ParamsInt("flatId", 0)

	var data struct {
		Content string `json:"content" validate:"required"`
		ReplyTo *uint  `json:"reply_to"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	flat, err := services.GetFlatIdentity(uint(flatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	session := services.NewComposerSession(flat, user)
	if data.ReplyTo != nil {
		target, err := services.GetMessage(flat, *data.ReplyTo)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "message to reply was not found")
		}

		messages, err := services.ListMessage(flat.ID)
		if err != nil {
			return statusForError(err)
		}
		if view := services.ReconstructThread(messages); !view.CanReply(user.ID, target, flat.OwnerID) {
			return fiber.NewError(fiber.StatusForbidden, "you cannot reply to this message")
		}

		session.SetReplyTarget(&target)
	}

	message, err := session.Submit(data.Content)
	if err != nil {
		return statusForError(err)
	}

	return c.JSON(message)
}
