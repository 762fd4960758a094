package services

import (
	"sort"

	"github.com/flatfinder/flatfinder/pkg/internal/models"
)

type ThreadEntry struct {
	Message    models.Message `json:"message"`
	ReplyCount int            `json:"reply_count"`
}

// ThreadView is the derived projection of one flat's message snapshot.
// It is disposable and recomputed from scratch on every snapshot update;
// nothing in it is ever persisted.
type ThreadView struct {
	// TopLevel lists thread anchors newest-first, the usual chat feed order.
	TopLevel []ThreadEntry

	replies map[uint][]models.Message
	index   map[uint]models.Message
}

// ReconstructThread builds the reply-thread view out of a flat snapshot.
// The snapshot order is store-defined and ignored; everything is re-sorted
// here. The function is total: malformed reply chains (dangling references,
// cycles) degrade to top-level entries instead of failing.
func ReconstructThread(messages []models.Message) ThreadView {
	view := ThreadView{
		replies: make(map[uint][]models.Message),
		index:   make(map[uint]models.Message, len(messages)),
	}

	for _, msg := range messages {
		view.index[msg.ID] = msg
	}

	var topLevel []models.Message
	for _, msg := range messages {
		if msg.ReplyID == nil {
			topLevel = append(topLevel, msg)
			continue
		}
		if anchor, ok := resolveThreadAnchor(view.index, msg); ok {
			view.replies[anchor] = append(view.replies[anchor], msg)
		} else {
			// Broken chain, surface the message as its own anchor so it
			// stays visible and the walk always terminates.
			topLevel = append(topLevel, msg)
		}
	}

	sort.Slice(topLevel, func(i, j int) bool {
		if !topLevel[i].CreatedAt.Equal(topLevel[j].CreatedAt) {
			return topLevel[i].CreatedAt.After(topLevel[j].CreatedAt)
		}
		return topLevel[i].ID > topLevel[j].ID
	})
	for _, list := range view.replies {
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.Before(list[j].CreatedAt)
			}
			return list[i].ID < list[j].ID
		})
	}

	for _, msg := range topLevel {
		view.TopLevel = append(view.TopLevel, ThreadEntry{
			Message:    msg,
			ReplyCount: len(view.replies[msg.ID]),
		})
	}

	return view
}

// resolveThreadAnchor follows reply links up to the nearest top-level
// ancestor. A reply to a reply lands under the original top-level message,
// never nested deeper. Reports false when the chain leaves the snapshot or
// loops back on itself.
func resolveThreadAnchor(index map[uint]models.Message, msg models.Message) (uint, bool) {
	visited := map[uint]bool{msg.ID: true}
	cursor := msg
	for cursor.ReplyID != nil {
		parentId := *cursor.ReplyID
		if visited[parentId] {
			return 0, false
		}
		visited[parentId] = true
		parent, ok := index[parentId]
		if !ok {
			return 0, false
		}
		cursor = parent
	}
	return cursor.ID, true
}

// RepliesOf returns the replies anchored under a top-level message,
// oldest-first.
func (v ThreadView) RepliesOf(messageId uint) []models.Message {
	return v.replies[messageId]
}

func (v ThreadView) Lookup(messageId uint) (models.Message, bool) {
	msg, ok := v.index[messageId]
	return msg, ok
}

// CanReply decides whether the viewer may reply to the given message.
// The flat owner may respond to anything; a visitor may only continue an
// exchange the owner started by replying to the visitor's own message.
// Evaluated per render on purpose: both the viewer and the flat owner can
// change between views of the same thread.
func (v ThreadView) CanReply(viewerId uint, msg models.Message, ownerId uint) bool {
	if viewerId == 0 {
		return false
	}
	if viewerId == ownerId {
		return true
	}
	if msg.SenderID == ownerId && msg.ReplyID != nil {
		if parent, ok := v.index[*msg.ReplyID]; ok && parent.SenderID == viewerId {
			return true
		}
	}
	return false
}
