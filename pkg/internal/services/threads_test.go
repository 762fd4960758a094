package services

import (
	"testing"
	"time"

	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var threadEpoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func mkMessage(id uint, flatId uint, senderId uint, content string, minute int, replyTo *uint) models.Message {
	return models.Message{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: threadEpoch.Add(time.Duration(minute) * time.Minute),
		},
		Content:    content,
		SenderName: "Sender",
		FlatID:     flatId,
		SenderID:   senderId,
		ReplyID:    replyTo,
	}
}

func TestReconstructThreadEndToEnd(t *testing.T) {
	hi := mkMessage(1, 1, 100, "Hi", 0, nil)
	hello := mkMessage(2, 1, 1, "Hello", 1, lo.ToPtr(uint(1)))

	view := ReconstructThread([]models.Message{hi, hello})

	require.Len(t, view.TopLevel, 1)
	assert.Equal(t, "Hi", view.TopLevel[0].Message.Content)
	assert.Equal(t, 1, view.TopLevel[0].ReplyCount)

	replies := view.RepliesOf(hi.ID)
	require.Len(t, replies, 1)
	assert.Equal(t, "Hello", replies[0].Content)
}

func TestReconstructThreadPartition(t *testing.T) {
	messages := []models.Message{
		mkMessage(1, 1, 10, "first", 0, nil),
		mkMessage(2, 1, 20, "second", 1, nil),
		mkMessage(3, 1, 30, "reply to first", 2, lo.ToPtr(uint(1))),
		mkMessage(4, 1, 40, "reply to second", 3, lo.ToPtr(uint(2))),
		mkMessage(5, 1, 50, "another reply to first", 4, lo.ToPtr(uint(1))),
	}

	view := ReconstructThread(messages)

	seen := make(map[uint]int)
	for _, entry := range view.TopLevel {
		seen[entry.Message.ID]++
		for _, reply := range view.RepliesOf(entry.Message.ID) {
			seen[reply.ID]++
		}
	}

	for _, msg := range messages {
		assert.Equalf(t, 1, seen[msg.ID], "message %d should appear exactly once", msg.ID)
	}
}

func TestReconstructThreadOrdering(t *testing.T) {
	messages := []models.Message{
		mkMessage(1, 1, 10, "oldest anchor", 0, nil),
		mkMessage(2, 1, 20, "newest anchor", 10, nil),
		mkMessage(3, 1, 30, "late reply", 5, lo.ToPtr(uint(1))),
		mkMessage(4, 1, 40, "early reply", 2, lo.ToPtr(uint(1))),
	}

	view := ReconstructThread(messages)

	require.Len(t, view.TopLevel, 2)
	assert.Equal(t, uint(2), view.TopLevel[0].Message.ID, "feed shows newest anchor first")
	assert.Equal(t, uint(1), view.TopLevel[1].Message.ID)

	replies := view.RepliesOf(1)
	require.Len(t, replies, 2)
	assert.Equal(t, uint(4), replies[0].ID, "replies run oldest first")
	assert.Equal(t, uint(3), replies[1].ID)
}

func TestReconstructThreadReParenting(t *testing.T) {
	anchor := mkMessage(1, 1, 10, "anchor", 0, nil)
	reply := mkMessage(2, 1, 20, "reply", 1, lo.ToPtr(uint(1)))
	nested := mkMessage(3, 1, 30, "reply to the reply", 2, lo.ToPtr(uint(2)))

	view := ReconstructThread([]models.Message{anchor, reply, nested})

	require.Len(t, view.TopLevel, 1)
	assert.Equal(t, 2, view.TopLevel[0].ReplyCount)

	replies := view.RepliesOf(anchor.ID)
	require.Len(t, replies, 2)
	assert.Equal(t, uint(2), replies[0].ID)
	assert.Equal(t, uint(3), replies[1].ID, "nested reply lands under the top-level ancestor")
	assert.Empty(t, view.RepliesOf(reply.ID))
}

func TestReconstructThreadDanglingParent(t *testing.T) {
	orphan := mkMessage(7, 1, 10, "orphan", 0, lo.ToPtr(uint(99)))

	view := ReconstructThread([]models.Message{orphan})

	require.Len(t, view.TopLevel, 1)
	assert.Equal(t, uint(7), view.TopLevel[0].Message.ID)
	assert.Equal(t, 0, view.TopLevel[0].ReplyCount)
}

func TestReconstructThreadCycleTerminates(t *testing.T) {
	// Adversarial input, cannot occur under the store invariants.
	messages := []models.Message{
		mkMessage(1, 1, 10, "a", 0, lo.ToPtr(uint(2))),
		mkMessage(2, 1, 20, "b", 1, lo.ToPtr(uint(1))),
		mkMessage(3, 1, 30, "anchor", 2, nil),
	}

	view := ReconstructThread(messages)

	require.Len(t, view.TopLevel, 3, "cycle members surface as top-level")
	for _, entry := range view.TopLevel {
		assert.Empty(t, view.RepliesOf(entry.Message.ID))
	}
}

func TestReconstructThreadDeterminism(t *testing.T) {
	messages := []models.Message{
		mkMessage(1, 1, 10, "anchor", 0, nil),
		mkMessage(2, 1, 20, "reply", 1, lo.ToPtr(uint(1))),
		mkMessage(3, 1, 30, "orphan", 2, lo.ToPtr(uint(42))),
	}

	assert.Equal(t, ReconstructThread(messages), ReconstructThread(messages))
}

func TestCanReply(t *testing.T) {
	const ownerId = uint(1)
	const inquirerId = uint(2)
	const strangerId = uint(3)

	inquiry := mkMessage(10, 1, inquirerId, "is it still available?", 0, nil)
	ownerReply := mkMessage(11, 1, ownerId, "it is!", 1, lo.ToPtr(uint(10)))
	strangerMsg := mkMessage(12, 1, strangerId, "me too", 2, nil)

	view := ReconstructThread([]models.Message{inquiry, ownerReply, strangerMsg})

	tests := []struct {
		name     string
		viewerId uint
		message  models.Message
		want     bool
	}{
		{"owner replies to an inquiry", ownerId, inquiry, true},
		{"owner replies to any message", ownerId, strangerMsg, true},
		{"owner replies to own reply", ownerId, ownerReply, true},
		{"inquirer continues the owner exchange", inquirerId, ownerReply, true},
		{"inquirer cannot reply to a stranger", inquirerId, strangerMsg, false},
		{"inquirer cannot reply to own inquiry", inquirerId, inquiry, false},
		{"stranger cannot join the owner exchange", strangerId, ownerReply, false},
		{"anonymous viewer is always denied", 0, inquiry, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, view.CanReply(tt.viewerId, tt.message, ownerId))
		})
	}
}
