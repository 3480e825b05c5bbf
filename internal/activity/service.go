package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	errors "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/core/events"
)

// Repository defines the data access methods for activities and votes.
type Repository interface {
	CreateActivity(activity *Activity) error
	GetActivityByID(id int64) (*Activity, error)
	GetByTripID(tripID int64) ([]*Activity, error)
	GetExpiredOpen(now time.Time) ([]*Activity, error)
	UpdateStatus(id int64, status string) error

	UpsertVote(vote *Vote) error
	DeleteVote(activityID, userID int64) error
	// GetVotesForActivity returns votes ordered by the time each
	// voter's first vote was recorded.
	GetVotesForActivity(activityID int64) ([]*Vote, error)
}

// MemberReader exposes the membership check this package needs.
type MemberReader interface {
	IsConfirmedMember(tripID, userID int64) (bool, error)
}

// BookingCreator records the expense produced by booking an activity.
// Implemented by the expense service.
type BookingCreator interface {
	CreateBookingForActivity(tripID, payerID, activityID int64, title string, cost float64, confirmationNum string) (*BookingRecord, error)
}

// BookingRecord is the slice of the created expense this package cares
// about.
type BookingRecord struct {
	ExpenseID       int64   `json:"expense_id"`
	ConfirmationNum string  `json:"confirmation_num"`
	Amount          float64 `json:"amount"`
}

// EventPublisher fans domain events out to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service drives the activity lifecycle: proposals, voting, deadline
// processing, and booking.
type Service struct {
	repo     Repository
	members  MemberReader
	bookings BookingCreator
	bus      EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, members MemberReader, bookings BookingCreator, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		members:  members,
		bookings: bookings,
		bus:      bus,
		logger:   logger,
	}
}

func (s *Service) ProposeActivity(tripID, userID int64, dto ProposeActivityDTO) (*Activity, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("activity validation failed", "error", err, "trip_id", tripID, "user_id", userID)
		return nil, err
	}

	confirmed, err := s.members.IsConfirmedMember(tripID, userID)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		s.logger.Warn("propose activity denied: not a confirmed member", "trip_id", tripID, "user_id", userID)
		return nil, errors.ErrNotTripMember
	}

	category := dto.Category
	if category == "" {
		category = CategoryOther
	}

	now := time.Now()
	act := &Activity{
		TripID:       tripID,
		Title:        dto.Title,
		Description:  dto.Description,
		Cost:         dto.Cost,
		Category:     category,
		ProposedBy:   userID,
		Status:       StatusOpen,
		VotingEndsAt: dto.VotingEndsAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateActivity(act); err != nil {
		s.logger.Error("failed to create activity", "error", err, "trip_id", tripID)
		return nil, err
	}

	s.logger.Info("activity proposed",
		"activity_id", act.ID,
		"trip_id", tripID,
		"proposed_by", userID,
		"title", act.Title)

	return act, nil
}

func (s *Service) GetActivity(activityID int64) (*ActivityWithTally, error) {
	act, err := s.repo.GetActivityByID(activityID)
	if err != nil {
		return nil, err
	}

	tally, err := s.tallyFor(activityID)
	if err != nil {
		return nil, err
	}

	winner, _ := tally.Winner()
	return &ActivityWithTally{
		Activity:   act,
		Tally:      tally.Counts(),
		Winner:     winner,
		VotingOpen: act.IsVotingOpen(time.Now()),
	}, nil
}

func (s *Service) ListTripActivities(tripID int64) ([]*Activity, error) {
	activities, err := s.repo.GetByTripID(tripID)
	if err != nil {
		s.logger.Error("failed to list trip activities", "error", err, "trip_id", tripID)
		return nil, err
	}
	return activities, nil
}

// CastVote records or replaces the caller's vote. One vote per user per
// activity; a re-vote overwrites the option in place.
func (s *Service) CastVote(activityID, userID int64, dto CastVoteDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	act, err := s.repo.GetActivityByID(activityID)
	if err != nil {
		return err
	}

	if !act.IsVotingOpen(time.Now()) {
		s.logger.Warn("vote rejected: voting closed", "activity_id", activityID, "user_id", userID, "status", act.Status)
		return errors.ErrVotingClosed
	}

	confirmed, err := s.members.IsConfirmedMember(act.TripID, userID)
	if err != nil {
		return err
	}
	if !confirmed {
		return errors.ErrNotTripMember
	}

	vote := &Vote{
		ActivityID: activityID,
		UserID:     userID,
		Option:     dto.Option,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.repo.UpsertVote(vote); err != nil {
		s.logger.Error("failed to upsert vote", "error", err, "activity_id", activityID, "user_id", userID)
		return err
	}

	s.logger.Info("vote cast", "activity_id", activityID, "user_id", userID, "option", dto.Option)
	return nil
}

func (s *Service) RetractVote(activityID, userID int64) error {
	act, err := s.repo.GetActivityByID(activityID)
	if err != nil {
		return err
	}

	if !act.IsVotingOpen(time.Now()) {
		return errors.ErrVotingClosed
	}

	if err := s.repo.DeleteVote(activityID, userID); err != nil {
		s.logger.Error("failed to delete vote", "error", err, "activity_id", activityID, "user_id", userID)
		return err
	}

	s.logger.Info("vote retracted", "activity_id", activityID, "user_id", userID)
	return nil
}

// ProcessVotingDeadline closes the activity if its deadline has passed
// and returns the tallied winner. Calling it on a non-expired or
// already-closed activity is a no-op reporting wasProcessed=false, so
// repeated cron runs are safe.
func (s *Service) ProcessVotingDeadline(ctx context.Context, activityID int64) (*DeadlineResult, error) {
	act, err := s.repo.GetActivityByID(activityID)
	if err != nil {
		return nil, err
	}
	return s.processDeadline(ctx, act)
}

func (s *Service) processDeadline(ctx context.Context, act *Activity) (*DeadlineResult, error) {
	if !act.DeadlineExpired(time.Now()) {
		return &DeadlineResult{WasProcessed: false}, nil
	}

	tally, err := s.tallyFor(act.ID)
	if err != nil {
		return nil, err
	}
	winner, _ := tally.Winner()

	if err := s.repo.UpdateStatus(act.ID, StatusClosed); err != nil {
		s.logger.Error("failed to close activity", "error", err, "activity_id", act.ID)
		return nil, err
	}

	s.logger.Info("voting closed",
		"activity_id", act.ID,
		"trip_id", act.TripID,
		"winner", winner,
		"votes", tally.TotalVotes())

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewVotingClosedEvent(act.ID, act.TripID, act.Title, winner))
	}

	return &DeadlineResult{Winner: winner, WasProcessed: true}, nil
}

// ProcessAllDeadlines is the batch entry point for the deadlines
// command. A failure on one activity is logged and skipped; the rest of
// the batch still runs. Returns the number actually processed.
func (s *Service) ProcessAllDeadlines(ctx context.Context) (int, error) {
	expired, err := s.repo.GetExpiredOpen(time.Now())
	if err != nil {
		s.logger.Error("failed to fetch expired activities", "error", err)
		return 0, err
	}

	processed := 0
	for _, act := range expired {
		result, err := s.processDeadline(ctx, act)
		if err != nil {
			s.logger.Error("deadline processing failed for activity; continuing batch",
				"error", err,
				"activity_id", act.ID,
				"trip_id", act.TripID)
			continue
		}
		if result.WasProcessed {
			processed++
		}
	}

	s.logger.Info("deadline batch complete", "expired", len(expired), "processed", processed)
	return processed, nil
}

// BookActivity books an activity from its winning vote. The winner is
// recomputed fresh rather than trusting any stored CLOSED-time result,
// so booking can succeed on a still-open activity as long as "yes"
// currently leads.
func (s *Service) BookActivity(ctx context.Context, activityID, userID int64, dto BookActivityDTO) (*BookingRecord, error) {
	act, err := s.repo.GetActivityByID(activityID)
	if err != nil {
		return nil, err
	}

	if act.IsBooked() {
		return nil, errors.ErrActivityBooked
	}

	confirmed, err := s.members.IsConfirmedMember(act.TripID, userID)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, errors.ErrNotTripMember
	}

	tally, err := s.tallyFor(activityID)
	if err != nil {
		return nil, err
	}
	winner, ok := tally.Winner()
	if !ok || winner != VoteYes {
		s.logger.Warn("booking rejected: activity did not win",
			"activity_id", activityID,
			"winner", winner)
		return nil, errors.ErrActivityDidNotWin
	}

	confirmationNum := dto.ConfirmationNum
	if confirmationNum == "" {
		confirmationNum = uuid.NewString()
	}

	booking, err := s.bookings.CreateBookingForActivity(act.TripID, userID, act.ID, act.Title, act.CostOrZero(), confirmationNum)
	if err != nil {
		s.logger.Error("failed to create booking expense", "error", err, "activity_id", activityID)
		return nil, err
	}

	if err := s.repo.UpdateStatus(act.ID, StatusBooked); err != nil {
		s.logger.Error("failed to mark activity booked", "error", err, "activity_id", activityID)
		return nil, err
	}

	s.logger.Info("activity booked",
		"activity_id", act.ID,
		"trip_id", act.TripID,
		"booked_by", userID,
		"expense_id", booking.ExpenseID,
		"confirmation_num", confirmationNum)

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewBookingMadeEvent(
			act.ID, act.TripID, booking.ExpenseID, userID, act.Title, act.CostOrZero(), confirmationNum))
	}

	return booking, nil
}

func (s *Service) tallyFor(activityID int64) (*Tally, error) {
	votes, err := s.repo.GetVotesForActivity(activityID)
	if err != nil {
		s.logger.Error("failed to load votes", "error", err, "activity_id", activityID)
		return nil, err
	}
	return BuildTally(votes), nil
}
