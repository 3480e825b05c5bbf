package activity

import (
	"time"
)

// Activity lifecycle. OPEN activities accept votes; CLOSED is reached
// only through deadline expiry; BOOKED only through an explicit booking
// action. Both CLOSED and BOOKED are terminal for voting.
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
	StatusBooked = "BOOKED"
)

const (
	CategoryFood        = "food"
	CategorySightseeing = "sightseeing"
	CategoryAdventure   = "adventure"
	CategoryNightlife   = "nightlife"
	CategoryTransport   = "transport"
	CategoryLodging     = "lodging"
	CategoryOther       = "other"
)

// Activity is a member-proposed trip activity subject to voting.
type Activity struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	TripID       int64      `json:"trip_id" gorm:"column:trip_id;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	Cost         *float64   `json:"cost,omitempty"`
	Category     string     `json:"category" gorm:"default:other"`
	ProposedBy   int64      `json:"proposed_by" gorm:"column:proposed_by;not null"`
	Status       string     `json:"status" gorm:"default:OPEN"`
	VotingEndsAt *time.Time `json:"voting_ends_at,omitempty" gorm:"column:voting_ends_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Activity) TableName() string {
	return "activities"
}

// IsVotingOpen reports whether a vote cast at the given instant would
// be accepted: the activity must be OPEN and the deadline, if any, not
// yet passed.
func (a *Activity) IsVotingOpen(at time.Time) bool {
	if a.Status != StatusOpen {
		return false
	}
	if a.VotingEndsAt == nil {
		return true
	}
	return !at.After(*a.VotingEndsAt)
}

// DeadlineExpired reports whether deadline processing applies: only
// OPEN activities with a set, passed deadline qualify.
func (a *Activity) DeadlineExpired(at time.Time) bool {
	return a.Status == StatusOpen && a.VotingEndsAt != nil && at.After(*a.VotingEndsAt)
}

func (a *Activity) IsBooked() bool {
	return a.Status == StatusBooked
}

// CostOrZero is the expense amount used when booking; proposals may
// omit cost entirely.
func (a *Activity) CostOrZero() float64 {
	if a.Cost == nil {
		return 0
	}
	return *a.Cost
}

const (
	VoteYes   = "yes"
	VoteNo    = "no"
	VoteMaybe = "maybe"
)

// Vote is one member's current stance on an activity. (activity_id,
// user_id) is unique; a re-vote overwrites the option in place, keeping
// the original created_at so chronological tally order is preserved.
type Vote struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ActivityID int64     `json:"activity_id" gorm:"column:activity_id;not null;uniqueIndex:idx_activity_user"`
	UserID     int64     `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_activity_user"`
	Option     string    `json:"option" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Vote) TableName() string {
	return "votes"
}

func IsValidVoteOption(option string) bool {
	switch option {
	case VoteYes, VoteNo, VoteMaybe:
		return true
	}
	return false
}

// DeadlineResult reports the outcome of processing one activity's
// voting deadline.
type DeadlineResult struct {
	Winner       string `json:"winner,omitempty"`
	WasProcessed bool   `json:"was_processed"`
}
