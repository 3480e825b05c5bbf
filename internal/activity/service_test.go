package activity_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/activity"
	"github.com/i4ybrid/trip-planner/internal/core/events"
)

// Mock repository for testing
type mockActivityRepository struct {
	activities  map[int64]*activity.Activity
	votesByAct  map[int64][]*activity.Vote
	voteError   map[int64]error
	createError error
	nextID      int64
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{
		activities: make(map[int64]*activity.Activity),
		votesByAct: make(map[int64][]*activity.Vote),
		voteError:  make(map[int64]error),
		nextID:     1,
	}
}

func (m *mockActivityRepository) CreateActivity(act *activity.Activity) error {
	if m.createError != nil {
		return m.createError
	}
	act.ID = m.nextID
	m.nextID++
	m.activities[act.ID] = act
	return nil
}

func (m *mockActivityRepository) GetActivityByID(id int64) (*activity.Activity, error) {
	act, ok := m.activities[id]
	if !ok {
		return nil, apperrors.ErrActivityNotFound
	}
	return act, nil
}

func (m *mockActivityRepository) GetByTripID(tripID int64) ([]*activity.Activity, error) {
	var out []*activity.Activity
	for id := int64(1); id < m.nextID; id++ {
		if act, ok := m.activities[id]; ok && act.TripID == tripID {
			out = append(out, act)
		}
	}
	return out, nil
}

func (m *mockActivityRepository) GetExpiredOpen(now time.Time) ([]*activity.Activity, error) {
	var out []*activity.Activity
	for id := int64(1); id < m.nextID; id++ {
		if act, ok := m.activities[id]; ok && act.DeadlineExpired(now) {
			out = append(out, act)
		}
	}
	return out, nil
}

func (m *mockActivityRepository) UpdateStatus(id int64, status string) error {
	if act, ok := m.activities[id]; ok {
		act.Status = status
	}
	return nil
}

func (m *mockActivityRepository) UpsertVote(vote *activity.Vote) error {
	existing := m.votesByAct[vote.ActivityID]
	for _, v := range existing {
		if v.UserID == vote.UserID {
			v.Option = vote.Option
			return nil
		}
	}
	m.votesByAct[vote.ActivityID] = append(existing, vote)
	return nil
}

func (m *mockActivityRepository) DeleteVote(activityID, userID int64) error {
	votes := m.votesByAct[activityID]
	for i, v := range votes {
		if v.UserID == userID {
			m.votesByAct[activityID] = append(votes[:i], votes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockActivityRepository) GetVotesForActivity(activityID int64) ([]*activity.Vote, error) {
	if err := m.voteError[activityID]; err != nil {
		return nil, err
	}
	return m.votesByAct[activityID], nil
}

type allowAllMembers struct{}

func (allowAllMembers) IsConfirmedMember(tripID, userID int64) (bool, error) {
	return true, nil
}

// Mock booking creator for testing
type mockBookingCreator struct {
	lastConfirmation string
	createError      error
}

func (m *mockBookingCreator) CreateBookingForActivity(tripID, payerID, activityID int64, title string, cost float64, confirmationNum string) (*activity.BookingRecord, error) {
	if m.createError != nil {
		return nil, m.createError
	}
	m.lastConfirmation = confirmationNum
	return &activity.BookingRecord{ExpenseID: 900, ConfirmationNum: confirmationNum, Amount: cost}, nil
}

// Capturing event publisher
type capturedEvents struct {
	events []events.Event
}

func (c *capturedEvents) Publish(ctx context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return nil
}

var _ = Describe("ActivityService", func() {
	var (
		service  *activity.Service
		mockRepo *mockActivityRepository
		bookings *mockBookingCreator
		bus      *capturedEvents
	)

	const tripID = int64(10)

	openActivity := func(deadline *time.Time) *activity.Activity {
		act := &activity.Activity{
			TripID:       tripID,
			Title:        "Sintra day trip",
			Status:       activity.StatusOpen,
			VotingEndsAt: deadline,
		}
		Expect(mockRepo.CreateActivity(act)).To(Succeed())
		return act
	}

	castVotes := func(activityID int64, options ...string) {
		for i, opt := range options {
			Expect(mockRepo.UpsertVote(&activity.Vote{
				ActivityID: activityID,
				UserID:     int64(i + 1),
				Option:     opt,
			})).To(Succeed())
		}
	}

	past := func() *time.Time {
		t := time.Now().Add(-time.Hour)
		return &t
	}

	future := func() *time.Time {
		t := time.Now().Add(time.Hour)
		return &t
	}

	BeforeEach(func() {
		mockRepo = newMockActivityRepository()
		bookings = &mockBookingCreator{}
		bus = &capturedEvents{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = activity.NewService(mockRepo, allowAllMembers{}, bookings, bus, logger)
	})

	Describe("CastVote", func() {
		It("records a vote while voting is open", func() {
			act := openActivity(future())

			err := service.CastVote(act.ID, 1, activity.CastVoteDTO{Option: activity.VoteYes})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.votesByAct[act.ID]).To(HaveLen(1))
		})

		It("overwrites a re-vote instead of adding a second", func() {
			act := openActivity(future())

			Expect(service.CastVote(act.ID, 1, activity.CastVoteDTO{Option: activity.VoteYes})).To(Succeed())
			Expect(service.CastVote(act.ID, 1, activity.CastVoteDTO{Option: activity.VoteNo})).To(Succeed())

			Expect(mockRepo.votesByAct[act.ID]).To(HaveLen(1))
			Expect(mockRepo.votesByAct[act.ID][0].Option).To(Equal(activity.VoteNo))
		})

		It("rejects a vote after the deadline", func() {
			act := openActivity(past())

			err := service.CastVote(act.ID, 1, activity.CastVoteDTO{Option: activity.VoteYes})
			Expect(err).To(Equal(apperrors.ErrVotingClosed))
		})

		It("rejects a vote on a closed activity even without a deadline", func() {
			act := openActivity(nil)
			act.Status = activity.StatusClosed

			err := service.CastVote(act.ID, 1, activity.CastVoteDTO{Option: activity.VoteYes})
			Expect(err).To(Equal(apperrors.ErrVotingClosed))
		})

		It("rejects an unknown vote option", func() {
			act := openActivity(future())

			err := service.CastVote(act.ID, 1, activity.CastVoteDTO{Option: "definitely"})
			Expect(err).To(Equal(apperrors.ErrInvalidVoteOption))
		})
	})

	Describe("ProcessVotingDeadline", func() {
		It("closes an expired activity and reports the winner", func() {
			act := openActivity(past())
			castVotes(act.ID, "yes", "yes", "no")

			result, err := service.ProcessVotingDeadline(context.Background(), act.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.WasProcessed).To(BeTrue())
			Expect(result.Winner).To(Equal(activity.VoteYes))
			Expect(mockRepo.activities[act.ID].Status).To(Equal(activity.StatusClosed))
		})

		It("publishes a voting closed event", func() {
			act := openActivity(past())
			castVotes(act.ID, "no")

			_, err := service.ProcessVotingDeadline(context.Background(), act.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(bus.events).To(HaveLen(1))
			Expect(bus.events[0].EventType()).To(Equal(events.EventTypeVotingClosed))
		})

		It("is a no-op before the deadline", func() {
			act := openActivity(future())

			result, err := service.ProcessVotingDeadline(context.Background(), act.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.WasProcessed).To(BeFalse())
			Expect(mockRepo.activities[act.ID].Status).To(Equal(activity.StatusOpen))
		})

		It("is a no-op on an already closed activity", func() {
			act := openActivity(past())
			act.Status = activity.StatusClosed

			result, err := service.ProcessVotingDeadline(context.Background(), act.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.WasProcessed).To(BeFalse())
		})

		It("closes an expired activity with zero votes and no winner", func() {
			act := openActivity(past())

			result, err := service.ProcessVotingDeadline(context.Background(), act.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.WasProcessed).To(BeTrue())
			Expect(result.Winner).To(Equal(""))
		})
	})

	Describe("ProcessAllDeadlines", func() {
		It("processes every expired open activity", func() {
			openActivity(past())
			openActivity(past())
			openActivity(future())

			processed, err := service.ProcessAllDeadlines(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(processed).To(Equal(2))
		})

		It("continues the batch when one activity fails", func() {
			bad := openActivity(past())
			good := openActivity(past())
			mockRepo.voteError[bad.ID] = errors.New("poisoned votes row")

			processed, err := service.ProcessAllDeadlines(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(processed).To(Equal(1))
			Expect(mockRepo.activities[bad.ID].Status).To(Equal(activity.StatusOpen))
			Expect(mockRepo.activities[good.ID].Status).To(Equal(activity.StatusClosed))
		})
	})

	Describe("BookActivity", func() {
		It("books when yes currently leads, even while still open", func() {
			act := openActivity(future())
			castVotes(act.ID, "yes", "yes", "no")

			booking, err := service.BookActivity(context.Background(), act.ID, 1, activity.BookActivityDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(booking.ConfirmationNum).NotTo(BeEmpty())
			Expect(mockRepo.activities[act.ID].Status).To(Equal(activity.StatusBooked))
		})

		It("uses the supplied confirmation number when given", func() {
			act := openActivity(nil)
			castVotes(act.ID, "yes")

			booking, err := service.BookActivity(context.Background(), act.ID, 1, activity.BookActivityDTO{ConfirmationNum: "CONF-42"})
			Expect(err).NotTo(HaveOccurred())
			Expect(booking.ConfirmationNum).To(Equal("CONF-42"))
		})

		It("recomputes the winner fresh at booking time", func() {
			act := openActivity(past())
			castVotes(act.ID, "yes")
			_, err := service.ProcessVotingDeadline(context.Background(), act.ID)
			Expect(err).NotTo(HaveOccurred())

			// The vote flips after closing; booking must see the new tally.
			mockRepo.votesByAct[act.ID][0].Option = activity.VoteNo

			_, err = service.BookActivity(context.Background(), act.ID, 1, activity.BookActivityDTO{})
			Expect(err).To(Equal(apperrors.ErrActivityDidNotWin))
		})

		It("rejects booking when maybe leads", func() {
			act := openActivity(nil)
			castVotes(act.ID, "maybe", "maybe", "yes")

			_, err := service.BookActivity(context.Background(), act.ID, 1, activity.BookActivityDTO{})
			Expect(err).To(Equal(apperrors.ErrActivityDidNotWin))
		})

		It("rejects booking with no votes at all", func() {
			act := openActivity(nil)

			_, err := service.BookActivity(context.Background(), act.ID, 1, activity.BookActivityDTO{})
			Expect(err).To(Equal(apperrors.ErrActivityDidNotWin))
		})

		It("rejects double booking", func() {
			act := openActivity(nil)
			castVotes(act.ID, "yes")

			_, err := service.BookActivity(context.Background(), act.ID, 1, activity.BookActivityDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.BookActivity(context.Background(), act.ID, 1, activity.BookActivityDTO{})
			Expect(err).To(Equal(apperrors.ErrActivityBooked))
		})

		It("leaves the activity unbooked when expense creation fails", func() {
			act := openActivity(nil)
			castVotes(act.ID, "yes")
			bookings.createError = errors.New("expense store down")

			_, err := service.BookActivity(context.Background(), act.ID, 1, activity.BookActivityDTO{})
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.activities[act.ID].Status).To(Equal(activity.StatusOpen))
		})

		It("publishes a booking event", func() {
			act := openActivity(nil)
			castVotes(act.ID, "yes")

			_, err := service.BookActivity(context.Background(), act.ID, 1, activity.BookActivityDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(bus.events).To(HaveLen(1))
			Expect(bus.events[0].EventType()).To(Equal(events.EventTypeBookingMade))
		})
	})
})
