package models

import (
	"time"
)

const (
	MaxAuthorNameLength = 64
	MaxMessageLength    = 500
	DefaultFeedLimit    = 50
)

type Message struct {
	ID         int64     `json:"id"`
	AuthorName string    `json:"author_name,omitempty"`
	Body       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// DisplayName returns the author or "Anonymous" for messages left without a name.
func (m Message) DisplayName() string {
	if m.AuthorName == "" {
		return "Anonymous"
	}
	return m.AuthorName
}

type MessageInput struct {
	Name string `json:"name" form:"name"`
	Text string `json:"text" form:"text"`
}
