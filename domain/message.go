package domain

import "time"

// MessageType classifies in-app messages.
type MessageType string

const (
	MessageTypeSystem  MessageType = "SYSTEM"
	MessageTypeWelcome MessageType = "WELCOME"
)

// Message is an in-app notification delivered to a local user.
type Message struct {
	ID          string      `bson:"_id"`
	ToUserID    int64       `bson:"to_user_id"`
	Subject     string      `bson:"subject"`
	Body        string      `bson:"body"`
	MessageType MessageType `bson:"message_type"`
	Read        bool        `bson:"read"`
	CreatedAt   time.Time   `bson:"created_at"`
}
