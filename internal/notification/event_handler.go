package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/i4ybrid/trip-planner/internal/core/events"
)

// EventHandler turns domain events into notifications. All handlers
// swallow delivery errors so a notification failure never fails the
// publishing operation.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleMemberInvited(ctx context.Context, event events.Event) error {
	inviteEvent, ok := event.(*events.MemberInvitedEvent)
	if !ok {
		h.logger.Error("invalid event type for member invited handler", "event_type", event.EventType())
		return fmt.Errorf("expected MemberInvitedEvent, got %T", event)
	}

	h.service.deliver(
		inviteEvent.UserID,
		inviteEvent.TripID,
		TypeInvitation,
		fmt.Sprintf("You've been invited to %s", inviteEvent.TripName),
		fmt.Sprintf("User %d invited you to join the trip %q. Respond to the invitation to join.", inviteEvent.InvitedBy, inviteEvent.TripName))

	return nil
}

func (h *EventHandler) HandleVotingClosed(ctx context.Context, event events.Event) error {
	votingEvent, ok := event.(*events.VotingClosedEvent)
	if !ok {
		h.logger.Error("invalid event type for voting closed handler", "event_type", event.EventType())
		return fmt.Errorf("expected VotingClosedEvent, got %T", event)
	}

	body := fmt.Sprintf("Voting has closed for %q.", votingEvent.Title)
	if votingEvent.Winner != "" {
		body = fmt.Sprintf("Voting has closed for %q. The winning option is %q.", votingEvent.Title, votingEvent.Winner)
	}

	h.service.deliverToTrip(
		votingEvent.TripID,
		nil,
		TypeVotingClosed,
		fmt.Sprintf("Voting closed: %s", votingEvent.Title),
		body)

	return nil
}

func (h *EventHandler) HandleBookingMade(ctx context.Context, event events.Event) error {
	bookingEvent, ok := event.(*events.BookingMadeEvent)
	if !ok {
		h.logger.Error("invalid event type for booking handler", "event_type", event.EventType())
		return fmt.Errorf("expected BookingMadeEvent, got %T", event)
	}

	h.service.deliverToTrip(
		bookingEvent.TripID,
		map[int64]bool{bookingEvent.BookedBy: true},
		TypeBooking,
		fmt.Sprintf("Booked: %s", bookingEvent.Title),
		fmt.Sprintf("%q has been booked for %.2f. Confirmation number: %s.",
			bookingEvent.Title, bookingEvent.Cost, bookingEvent.ConfirmationNum))

	return nil
}

func (h *EventHandler) HandleMessagePosted(ctx context.Context, event events.Event) error {
	messageEvent, ok := event.(*events.MessagePostedEvent)
	if !ok {
		h.logger.Error("invalid event type for message posted handler", "event_type", event.EventType())
		return fmt.Errorf("expected MessagePostedEvent, got %T", event)
	}

	// Only mentions notify, the rest of the thread stays quiet.
	if len(messageEvent.MentionedIDs) == 0 {
		return nil
	}

	title := "You were mentioned"
	body := fmt.Sprintf("User %d mentioned you: %s", messageEvent.AuthorID, messageEvent.Preview)

	skip := map[int64]bool{messageEvent.AuthorID: true}
	if messageEvent.Everyone {
		h.service.deliverToTrip(messageEvent.TripID, skip, TypeMention, title, body)
		return nil
	}

	for _, userID := range messageEvent.MentionedIDs {
		if skip[userID] {
			continue
		}
		h.service.deliver(userID, messageEvent.TripID, TypeMention, title, body)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeMemberInvited, h.HandleMemberInvited)
	eventBus.Subscribe(events.EventTypeVotingClosed, h.HandleVotingClosed)
	eventBus.Subscribe(events.EventTypeBookingMade, h.HandleBookingMade)
	eventBus.Subscribe(events.EventTypeMessagePosted, h.HandleMessagePosted)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypeMemberInvited,
			events.EventTypeVotingClosed,
			events.EventTypeBookingMade,
			events.EventTypeMessagePosted,
		})
}
