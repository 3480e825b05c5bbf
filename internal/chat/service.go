package chat

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/i4ybrid/trip-planner/internal"
	tripDatamodel "github.com/i4ybrid/trip-planner/internal/core/datamodel/trip"
	"github.com/i4ybrid/trip-planner/internal/core/events"
)

// Repository defines the data access methods for chat messages.
type Repository interface {
	CreateMessage(msg *Message) error
	CreateMentions(mentions []Mention) error
	GetMessagesByTrip(tripID int64, limit, offset int) ([]*Message, error)
	GetMentionsForMessage(messageID int64) ([]Mention, error)
}

// MemberReader exposes the membership facts this package needs.
type MemberReader interface {
	IsConfirmedMember(tripID, userID int64) (bool, error)
	ConfirmedMembers(tripID int64) ([]*tripDatamodel.TripMember, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo    Repository
	members MemberReader
	bus     EventPublisher
	logger  *slog.Logger
}

func NewService(repo Repository, members MemberReader, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		members: members,
		bus:     bus,
		logger:  logger,
	}
}

const previewLength = 80

// PostMessage persists a message, resolves @mentions against confirmed
// member display names and announces the message on the event bus.
func (s *Service) PostMessage(ctx context.Context, tripID, userID int64, dto PostMessageDTO) (*MessageWithMentions, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.members.IsConfirmedMember(tripID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.ErrNotTripMember
	}

	confirmed, err := s.members.ConfirmedMembers(tripID)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		TripID:    tripID,
		UserID:    userID,
		Body:      dto.Body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateMessage(msg); err != nil {
		s.logger.Error("failed to create message", "error", err, "trip_id", tripID)
		return nil, err
	}

	targets := make([]MentionTarget, 0, len(confirmed))
	for _, m := range confirmed {
		targets = append(targets, MentionTarget{UserID: m.UserID, DisplayName: m.DisplayName})
	}

	mentionedIDs := ParseMentions(dto.Body, targets)
	if len(mentionedIDs) > 0 {
		mentions := make([]Mention, 0, len(mentionedIDs))
		for _, id := range mentionedIDs {
			mentions = append(mentions, Mention{MessageID: msg.ID, UserID: id})
		}
		if err := s.repo.CreateMentions(mentions); err != nil {
			s.logger.Error("failed to record mentions", "error", err, "message_id", msg.ID)
		}
	}

	if s.bus != nil {
		event := events.NewMessagePostedEvent(
			msg.ID, tripID, userID,
			mentionedIDs, MentionsEveryone(dto.Body),
			preview(dto.Body))
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish message posted event", "error", err, "message_id", msg.ID)
		}
	}

	return &MessageWithMentions{Message: msg, MentionedUserIDs: mentionedIDs}, nil
}

// ListTripMessages returns a page of messages, newest first.
func (s *Service) ListTripMessages(tripID, userID int64, query ListMessagesQuery) ([]*Message, error) {
	ok, err := s.members.IsConfirmedMember(tripID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.ErrNotTripMember
	}

	query = query.Normalized()
	return s.repo.GetMessagesByTrip(tripID, query.Limit, query.Offset)
}

func preview(body string) string {
	if len(body) <= previewLength {
		return body
	}
	return body[:previewLength]
}
