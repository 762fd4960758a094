package services

import (
	"strings"

	"github.com/flatfinder/flatfinder/pkg/internal/database"
	"github.com/flatfinder/flatfinder/pkg/internal/models"
)

func CountMessage(flat models.Flat) int64 {
	var count int64
	if err := database.C.Where(models.Message{
		FlatID: flat.ID,
	}).Model(&models.Message{}).Count(&count).Error; err != nil {
		return 0
	}
	return count
}

// ListMessage loads the full message snapshot of one flat. The order is
// store-defined (currently newest-first); callers that care about ordering
// must re-sort, which ReconstructThread does.
func ListMessage(flatId uint) ([]models.Message, error) {
	var messages []models.Message
	if err := database.C.
		Where(models.Message{FlatID: flatId}).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return messages, StoreError{Op: "list", Err: err}
	}
	return messages, nil
}

func GetMessage(flat models.Flat, id uint) (models.Message, error) {
	var message models.Message
	if err := database.C.Where(models.Message{
		BaseModel: models.BaseModel{ID: id},
		FlatID:    flat.ID,
	}).First(&message).Error; err != nil {
		return message, StoreError{Op: "get", Err: err}
	}
	return message, nil
}

// NewMessage appends a message to its flat's feed. The store assigns the id
// and the timestamp. Every live feed subscription of the flat receives a
// fresh snapshot once the append has been persisted. Messages are immutable
// afterwards: there is no edit or delete path.
func NewMessage(message models.Message) (models.Message, error) {
	message.Content = strings.TrimSpace(message.Content)
	if len(message.Content) == 0 {
		return message, NewValidationError("you cannot send an empty message")
	}
	if message.SenderID == 0 {
		return message, NewValidationError("message sender is missing")
	}

	if message.ReplyID != nil {
		var parent models.Message
		if err := database.C.Where(models.Message{
			BaseModel: models.BaseModel{ID: *message.ReplyID},
			FlatID:    message.FlatID,
		}).First(&parent).Error; err != nil {
			return message, NewValidationError("message to reply was not found in this flat")
		}
	}

	if err := database.C.Save(&message).Error; err != nil {
		return message, StoreError{Op: "append", Err: err}
	}

	PublishFlatSnapshot(message.FlatID)

	return message, nil
}
