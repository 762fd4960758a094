package models

import jsoniter "github.com/json-iterator/go"

// FeedCommand is the envelope exchanged over the per-flat message feed
// websocket, in both directions.
type FeedCommand struct {
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

func (v FeedCommand) Marshal() []byte {
	raw, _ := jsoniter.Marshal(v)
	return raw
}

func FeedCommandFromError(err error) FeedCommand {
	return FeedCommand{
		Action:  "error",
		Message: err.Error(),
	}
}
