package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeMemberInvited = "trip.member_invited"
	EventTypeVotingClosed  = "activity.voting_closed"
	EventTypeBookingMade   = "activity.booked"
	EventTypeMessagePosted = "chat.message_posted"
)

type MemberInvitedEvent struct {
	BaseEvent
	TripID    int64  `json:"trip_id"`
	UserID    int64  `json:"user_id"`
	InvitedBy int64  `json:"invited_by"`
	TripName  string `json:"trip_name"`
}

func NewMemberInvitedEvent(tripID, userID, invitedBy int64, tripName string) *MemberInvitedEvent {
	return &MemberInvitedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeMemberInvited,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"trip_id":    tripID,
				"user_id":    userID,
				"invited_by": invitedBy,
				"trip_name":  tripName,
			},
		},
		TripID:    tripID,
		UserID:    userID,
		InvitedBy: invitedBy,
		TripName:  tripName,
	}
}

type VotingClosedEvent struct {
	BaseEvent
	ActivityID int64  `json:"activity_id"`
	TripID     int64  `json:"trip_id"`
	Title      string `json:"title"`
	Winner     string `json:"winner"`
}

func NewVotingClosedEvent(activityID, tripID int64, title, winner string) *VotingClosedEvent {
	return &VotingClosedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeVotingClosed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"activity_id": activityID,
				"trip_id":     tripID,
				"title":       title,
				"winner":      winner,
			},
		},
		ActivityID: activityID,
		TripID:     tripID,
		Title:      title,
		Winner:     winner,
	}
}

type BookingMadeEvent struct {
	BaseEvent
	ActivityID      int64   `json:"activity_id"`
	TripID          int64   `json:"trip_id"`
	ExpenseID       int64   `json:"expense_id"`
	BookedBy        int64   `json:"booked_by"`
	Title           string  `json:"title"`
	Cost            float64 `json:"cost"`
	ConfirmationNum string  `json:"confirmation_num"`
}

func NewBookingMadeEvent(activityID, tripID, expenseID, bookedBy int64, title string, cost float64, confirmationNum string) *BookingMadeEvent {
	return &BookingMadeEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBookingMade,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"activity_id":      activityID,
				"trip_id":          tripID,
				"expense_id":       expenseID,
				"booked_by":        bookedBy,
				"title":            title,
				"cost":             cost,
				"confirmation_num": confirmationNum,
			},
		},
		ActivityID:      activityID,
		TripID:          tripID,
		ExpenseID:       expenseID,
		BookedBy:        bookedBy,
		Title:           title,
		Cost:            cost,
		ConfirmationNum: confirmationNum,
	}
}

type MessagePostedEvent struct {
	BaseEvent
	MessageID    int64   `json:"message_id"`
	TripID       int64   `json:"trip_id"`
	AuthorID     int64   `json:"author_id"`
	MentionedIDs []int64 `json:"mentioned_ids"`
	Everyone     bool    `json:"everyone"`
	Preview      string  `json:"preview"`
}

func NewMessagePostedEvent(messageID, tripID, authorID int64, mentionedIDs []int64, everyone bool, preview string) *MessagePostedEvent {
	return &MessagePostedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeMessagePosted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"message_id":    messageID,
				"trip_id":       tripID,
				"author_id":     authorID,
				"mentioned_ids": mentionedIDs,
				"everyone":      everyone,
				"preview":       preview,
			},
		},
		MessageID:    messageID,
		TripID:       tripID,
		AuthorID:     authorID,
		MentionedIDs: mentionedIDs,
		Everyone:     everyone,
		Preview:      preview,
	}
}
