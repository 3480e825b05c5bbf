package notification

import (
	"log/slog"
	"time"

	tripDatamodel "github.com/i4ybrid/trip-planner/internal/core/datamodel/trip"
)

// Repository defines the data access methods for notifications.
type Repository interface {
	Create(notification *Notification) error
	GetByUserID(userID int64, limit, offset int) ([]*Notification, error)
	MarkRead(notificationID, userID int64) error
}

// MemberReader resolves trip members for fan-out and email addressing.
type MemberReader interface {
	ConfirmedMembers(tripID int64) ([]*tripDatamodel.TripMember, error)
	GetMember(tripID, userID int64) (*tripDatamodel.TripMember, error)
}

type Service struct {
	repo    Repository
	members MemberReader
	sender  Sender
	logger  *slog.Logger
}

func NewService(repo Repository, members MemberReader, sender Sender, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		members: members,
		sender:  sender,
		logger:  logger,
	}
}

// ListNotifications returns a page of the user's notifications, newest
// first.
func (s *Service) ListNotifications(userID int64, limit, offset int) ([]*Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetByUserID(userID, limit, offset)
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(notificationID, userID int64) error {
	return s.repo.MarkRead(notificationID, userID)
}

// deliver persists an in-app notification and sends email when the
// recipient has an address. Delivery failures are logged, never
// propagated; a lost notification must not fail the operation that
// produced it.
func (s *Service) deliver(userID, tripID int64, notifType, title, body string) {
	n := &Notification{
		UserID:    userID,
		TripID:    tripID,
		Type:      notifType,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to persist notification",
			"error", err,
			"user_id", userID,
			"type", notifType)
		return
	}

	member, err := s.members.GetMember(tripID, userID)
	if err != nil || member.Email == "" {
		return
	}

	if err := s.sender.Send(member.Email, member.DisplayName, title, emailBody(title, body)); err != nil {
		s.logger.Error("failed to send notification email",
			"error", err,
			"user_id", userID,
			"type", notifType)
	}
}

// deliverToTrip fans a notification out to every confirmed member of the
// trip except those in skip.
func (s *Service) deliverToTrip(tripID int64, skip map[int64]bool, notifType, title, body string) {
	members, err := s.members.ConfirmedMembers(tripID)
	if err != nil {
		s.logger.Error("failed to resolve trip members for notification",
			"error", err,
			"trip_id", tripID,
			"type", notifType)
		return
	}

	for _, m := range members {
		if skip[m.UserID] {
			continue
		}
		s.deliver(m.UserID, tripID, notifType, title, body)
	}
}
