package models

// Message is the persisted shape of one entry in a flat's inquiry feed.
// Sender name and avatar are denormalized snapshots taken at send time and
// are never re-resolved when the sender later edits their profile.
type Message struct {
	BaseModel

	Uuid         string  `json:"uuid"`
	Content      string  `json:"content"`
	SenderName   string  `json:"sender_name"`
	SenderAvatar *string `json:"sender_avatar"`

	Flat     Flat     `json:"flat"`
	Sender   Account  `json:"sender"`
	ReplyID  *uint    `json:"reply_id"`
	ReplyTo  *Message `json:"reply_to" gorm:"foreignKey:ReplyID"`
	FlatID   uint     `json:"flat_id"`
	SenderID uint     `json:"sender_id"`
}

// IsReply reports whether the message sits under another one in the
// reconstructed thread view.
func (v Message) IsReply() bool {
	return v.ReplyID != nil
}
