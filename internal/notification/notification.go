package notification

import "time"

const (
	TypeInvitation   = "INVITATION"
	TypeVotingClosed = "VOTING_CLOSED"
	TypeBooking      = "BOOKING"
	TypeMention      = "MENTION"
)

// Notification is a persisted in-app notification for a single user.
type Notification struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	TripID    int64     `json:"trip_id" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body" gorm:"type:text"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
