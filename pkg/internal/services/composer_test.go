package services

import (
	"testing"

	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlat() models.Flat {
	return models.Flat{
		BaseModel: models.BaseModel{ID: 1},
		Name:      "Sunny Loft",
		OwnerID:   9,
	}
}

func testViewer() models.Account {
	avatar := "avatars/viewer.png"
	return models.Account{
		BaseModel: models.BaseModel{ID: 2},
		Name:      "jdoe",
		FirstName: "Jane",
		LastName:  "Doe",
		Avatar:    &avatar,
	}
}

func TestComposerRejectsEmptyText(t *testing.T) {
	called := false
	session := NewComposerSession(testFlat(), testViewer())
	session.append = func(msg models.Message) (models.Message, error) {
		called = true
		return msg, nil
	}

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := session.Submit(text)
		require.Error(t, err)
		assert.IsType(t, ValidationError{}, err)
	}
	assert.False(t, called, "validation failures must never reach the store")
}

func TestComposerRejectsAnonymousViewer(t *testing.T) {
	called := false
	session := NewComposerSession(testFlat(), models.Account{})
	session.append = func(msg models.Message) (models.Message, error) {
		called = true
		return msg, nil
	}

	_, err := session.Submit("hello there")
	require.Error(t, err)
	assert.IsType(t, ValidationError{}, err)
	assert.False(t, called)
}

func TestComposerBuildsDraft(t *testing.T) {
	var draft models.Message
	session := NewComposerSession(testFlat(), testViewer())
	session.append = func(msg models.Message) (models.Message, error) {
		draft = msg
		return msg, nil
	}

	target := models.Message{BaseModel: models.BaseModel{ID: 77}, FlatID: 1}
	session.SetReplyTarget(&target)

	_, err := session.Submit("  still available?  ")
	require.NoError(t, err)

	assert.Equal(t, "still available?", draft.Content, "content is trimmed")
	assert.Equal(t, uint(2), draft.SenderID)
	assert.Equal(t, "Jane Doe", draft.SenderName, "display name is snapshotted")
	require.NotNil(t, draft.SenderAvatar)
	assert.Equal(t, "avatars/viewer.png", *draft.SenderAvatar)
	require.NotNil(t, draft.ReplyID)
	assert.Equal(t, uint(77), *draft.ReplyID)
	assert.NotEmpty(t, draft.Uuid)
}

func TestComposerClearsOnSuccess(t *testing.T) {
	session := NewComposerSession(testFlat(), testViewer())
	session.append = func(msg models.Message) (models.Message, error) {
		return msg, nil
	}

	target := models.Message{BaseModel: models.BaseModel{ID: 5}, FlatID: 1}
	session.SetReplyTarget(&target)

	_, err := session.Submit("thanks!")
	require.NoError(t, err)

	assert.Empty(t, session.Text)
	assert.Nil(t, session.ReplyTarget, "a successful reply returns to top-level mode")
}

func TestComposerPreservesTextOnStoreFailure(t *testing.T) {
	session := NewComposerSession(testFlat(), testViewer())
	session.append = func(msg models.Message) (models.Message, error) {
		return msg, StoreError{Op: "append", Err: assert.AnError}
	}

	target := models.Message{BaseModel: models.BaseModel{ID: 5}, FlatID: 1}
	session.SetReplyTarget(&target)

	_, err := session.Submit("was typed with care")
	require.Error(t, err)
	assert.IsType(t, StoreError{}, err)
	assert.ErrorContains(t, err, "append")

	assert.Equal(t, "was typed with care", session.Text, "typed text survives for retry")
	assert.NotNil(t, session.ReplyTarget, "reply selection survives a failed submit")
}

func TestComposerRejectsForeignReplyTarget(t *testing.T) {
	called := false
	session := NewComposerSession(testFlat(), testViewer())
	session.append = func(msg models.Message) (models.Message, error) {
		called = true
		return msg, nil
	}

	target := models.Message{BaseModel: models.BaseModel{ID: 5}, FlatID: 42}
	session.SetReplyTarget(&target)

	_, err := session.Submit("hello")
	require.Error(t, err)
	assert.IsType(t, ValidationError{}, err)
	assert.False(t, called)
}

func TestComposerCancelReply(t *testing.T) {
	session := NewComposerSession(testFlat(), testViewer())

	target := models.Message{BaseModel: models.BaseModel{ID: 5}, FlatID: 1}
	session.SetReplyTarget(&target)
	session.CancelReply()

	assert.Nil(t, session.ReplyTarget)
}
