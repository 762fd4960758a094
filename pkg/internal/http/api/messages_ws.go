package api

import (
	"context"
	"strconv"
	"sync"

	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/flatfinder/flatfinder/pkg/internal/services"
	"github.com/gofiber/contrib/websocket"
	jsoniter "github.com/json-iterator/go"
)

// messageFeedGateway serves one flat's live message feed. Every change to
// the underlying message set is delivered as a full snapshot, already
// reconstructed into the thread view. Inbound commands drive the viewer's
// composer session.
func messageFeedGateway(c *websocket.Conn) {
	user := c.Locals("user").(models.Account)

	var writeLock sync.Mutex
	pushCommand := func(command models.FeedCommand) error {
		writeLock.Lock()
		defer writeLock.Unlock()
		return c.WriteMessage(websocket.TextMessage, command.Marshal())
	}

	flatId, _ := strconv.Atoi(c.Params("flatId"))
	flat, err := services.GetFlatIdentity(uint(flatId))
	if err != nil {
		_ = pushCommand(models.FeedCommandFromError(err))
		return
	}

	sub, err := services.SubscribeFlatFeed(flat.ID)
	if err != nil {
		// Subscription failures terminate the feed; the client decides
		// whether to reconnect.
		_ = pushCommand(models.FeedCommandFromError(err))
		return
	}
	defer sub.Cancel()

	session := services.NewComposerSession(flat, user)

	go func() {
		for snapshot := range sub.C {
			view := services.ReconstructThread(snapshot)
			err := pushCommand(models.FeedCommand{
				Action:  "messages.snapshot",
				Payload: renderThreadView(context.Background(), view, user.ID, flat.OwnerID),
			})
			if err != nil {
				return
			}
		}
	}()

	// Command loop
	var command models.FeedCommand
	for {
		_, packet, err := c.ReadMessage()
		if err != nil {
			break
		}
		if err := jsoniter.Unmarshal(packet, &command); err != nil {
			_ = pushCommand(models.FeedCommand{
				Action:  "error",
				Message: "unable to unmarshal your command, requires json request",
			})
			continue
		}

		if reply := dealFeedCommand(command, session, flat); reply != nil {
			if err := pushCommand(*reply); err != nil {
				break
			}
		}
	}
}

func dealFeedCommand(command models.FeedCommand, session *services.ComposerSession, flat models.Flat) *models.FeedCommand {
	switch command.Action {
	case "messages.send":
		var req struct {
			Content string `json:"content"`
		}
		models.FitStruct(command.Payload, &req)

		if _, err := session.Submit(req.Content); err != nil {
			failure := models.FeedCommandFromError(err)
			return &failure
		}
		return nil
	case "messages.reply.set":
		var req struct {
			MessageID uint `json:"message_id"`
		}
		models.FitStruct(command.Payload, &req)

		target, err := services.GetMessage(flat, req.MessageID)
		if err != nil {
			failure := models.FeedCommandFromError(err)
			return &failure
		}

		messages, err := services.ListMessage(flat.ID)
		if err != nil {
			failure := models.FeedCommandFromError(err)
			return &failure
		}
		if view := services.ReconstructThread(messages); !view.CanReply(session.Viewer.ID, target, flat.OwnerID) {
			return &models.FeedCommand{
				Action:  "error",
				Message: "you cannot reply to this message",
			}
		}

		session.SetReplyTarget(&target)
		return nil
	case "messages.reply.cancel":
		session.CancelReply()
		return nil
	default:
		return &models.FeedCommand{
			Action:  "error",
			Message: "command not found",
		}
	}
}
