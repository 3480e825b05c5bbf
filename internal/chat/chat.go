package chat

import "time"

// Message is a chat message posted to a trip's shared thread.
type Message struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TripID    int64     `json:"trip_id" gorm:"not null;index"`
	UserID    int64     `json:"user_id" gorm:"not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// Mention records a user referenced by @name inside a message body.
type Mention struct {
	ID        int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	MessageID int64 `json:"message_id" gorm:"not null;index"`
	UserID    int64 `json:"user_id" gorm:"not null"`
}

func (Mention) TableName() string {
	return "message_mentions"
}
