package trip

import "time"

// Trip is the persisted trip entity shared across domain packages.
type Trip struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"start_date,omitempty" gorm:"column:start_date;type:date"`
	EndDate     *time.Time `json:"end_date,omitempty" gorm:"column:end_date;type:date"`
	CreatedBy   int64      `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Trip) TableName() string {
	return "trips"
}

// Membership lifecycle. Only confirmed members count toward split
// denominators and settlement balances.
const (
	MemberStatusInvited   = "INVITED"
	MemberStatusDeclined  = "DECLINED"
	MemberStatusMaybe     = "MAYBE"
	MemberStatusConfirmed = "CONFIRMED"
	MemberStatusRemoved   = "REMOVED"
)

const (
	MemberRoleOrganizer = "organizer"
	MemberRoleMember    = "member"
)

// TripMember links a user to a trip. (trip_id, user_id) is unique.
type TripMember struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	TripID          int64     `json:"trip_id" gorm:"column:trip_id;not null;uniqueIndex:idx_trip_user"`
	UserID          int64     `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_trip_user"`
	DisplayName     string    `json:"display_name" gorm:"column:display_name"`
	Email           string    `json:"email" gorm:"column:email"`
	Role            string    `json:"role" gorm:"default:member"`
	Status          string    `json:"status" gorm:"default:INVITED"`
	InviteTokenHash string    `json:"-" gorm:"column:invite_token_hash"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (TripMember) TableName() string {
	return "trip_members"
}

func (m *TripMember) IsConfirmed() bool {
	return m.Status == MemberStatusConfirmed
}

// CanRespond reports whether the member may still answer an invitation.
func (m *TripMember) CanRespond() bool {
	switch m.Status {
	case MemberStatusInvited, MemberStatusMaybe:
		return true
	}
	return false
}
