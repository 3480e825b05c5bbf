package trip_test

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/i4ybrid/trip-planner/internal"
	tripDatamodel "github.com/i4ybrid/trip-planner/internal/core/datamodel/trip"
	"github.com/i4ybrid/trip-planner/internal/core/events"
	"github.com/i4ybrid/trip-planner/internal/trip"
)

func TestTrip(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Trip Suite")
}

type memberKey struct {
	tripID int64
	userID int64
}

// Mock repository for testing
type mockTripRepository struct {
	trips          map[int64]*tripDatamodel.Trip
	members        map[memberKey]*tripDatamodel.TripMember
	memberOrder    []memberKey
	createError    error
	getMemberError error
	nextID         int64
}

func newMockTripRepository() *mockTripRepository {
	return &mockTripRepository{
		trips:   make(map[int64]*tripDatamodel.Trip),
		members: make(map[memberKey]*tripDatamodel.TripMember),
		nextID:  1,
	}
}

func (m *mockTripRepository) CreateTrip(t *tripDatamodel.Trip) error {
	if m.createError != nil {
		return m.createError
	}
	t.ID = m.nextID
	m.nextID++
	m.trips[t.ID] = t
	return nil
}

func (m *mockTripRepository) GetTripByID(id int64) (*tripDatamodel.Trip, error) {
	t, ok := m.trips[id]
	if !ok {
		return nil, apperrors.ErrTripNotFound
	}
	return t, nil
}

func (m *mockTripRepository) GetTripsForUser(userID int64) ([]*tripDatamodel.Trip, error) {
	var out []*tripDatamodel.Trip
	for _, key := range m.memberOrder {
		member := m.members[key]
		if member.UserID == userID && member.Status == tripDatamodel.MemberStatusConfirmed {
			out = append(out, m.trips[key.tripID])
		}
	}
	return out, nil
}

func (m *mockTripRepository) CreateMember(member *tripDatamodel.TripMember) error {
	key := memberKey{member.TripID, member.UserID}
	m.members[key] = member
	m.memberOrder = append(m.memberOrder, key)
	return nil
}

func (m *mockTripRepository) GetMember(tripID, userID int64) (*tripDatamodel.TripMember, error) {
	if m.getMemberError != nil {
		return nil, m.getMemberError
	}
	member, ok := m.members[memberKey{tripID, userID}]
	if !ok {
		return nil, apperrors.ErrMemberNotFound
	}
	return member, nil
}

func (m *mockTripRepository) GetMembers(tripID int64) ([]*tripDatamodel.TripMember, error) {
	var out []*tripDatamodel.TripMember
	for _, key := range m.memberOrder {
		if key.tripID == tripID {
			out = append(out, m.members[key])
		}
	}
	return out, nil
}

func (m *mockTripRepository) GetConfirmedMembers(tripID int64) ([]*tripDatamodel.TripMember, error) {
	var out []*tripDatamodel.TripMember
	for _, key := range m.memberOrder {
		member := m.members[key]
		if key.tripID == tripID && member.Status == tripDatamodel.MemberStatusConfirmed {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *mockTripRepository) UpdateMemberStatus(tripID, userID int64, status string) error {
	member, ok := m.members[memberKey{tripID, userID}]
	if !ok {
		return apperrors.ErrMemberNotFound
	}
	member.Status = status
	return nil
}

type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) error {
	b.events = append(b.events, event)
	return nil
}

var _ = Describe("InviteTokenManager", func() {
	It("round-trips claims through a signed token", func() {
		manager := trip.NewInviteTokenManager("test-signing-key", time.Hour)

		token, hash, err := manager.Generate(7, 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(token).NotTo(BeEmpty())

		claims, err := manager.Parse(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.TripID).To(Equal(int64(7)))
		Expect(claims.UserID).To(Equal(int64(42)))
		Expect(trip.VerifySecret(hash, claims.Secret)).To(BeTrue())
	})

	It("rejects a token signed with a different key", func() {
		manager := trip.NewInviteTokenManager("test-signing-key", time.Hour)
		other := trip.NewInviteTokenManager("another-key", time.Hour)

		token, _, err := other.Generate(7, 42)
		Expect(err).NotTo(HaveOccurred())

		_, err = manager.Parse(token)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an expired token", func() {
		manager := trip.NewInviteTokenManager("test-signing-key", -time.Minute)

		token, _, err := manager.Generate(7, 42)
		Expect(err).NotTo(HaveOccurred())

		_, err = manager.Parse(token)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a secret that does not match the stored hash", func() {
		manager := trip.NewInviteTokenManager("test-signing-key", time.Hour)

		_, hash, err := manager.Generate(7, 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(trip.VerifySecret(hash, "wrong-secret")).To(BeFalse())
	})
})

var _ = Describe("TripService", func() {
	var (
		service  *trip.Service
		mockRepo *mockTripRepository
		bus      *recordingBus
	)

	const creatorID = int64(1)

	createTrip := func() *trip.Trip {
		created, err := service.CreateTrip(creatorID, trip.CreateTripDTO{Name: "Lisbon Getaway"})
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	invite := func(tripID, userID int64, name string) *trip.InviteResult {
		result, err := service.InviteMember(context.Background(), tripID, creatorID, trip.InviteMemberDTO{
			UserID:      userID,
			DisplayName: name,
		})
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	BeforeEach(func() {
		mockRepo = newMockTripRepository()
		bus = &recordingBus{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		invites := trip.NewInviteTokenManager("test-signing-key", time.Hour)
		service = trip.NewService(mockRepo, invites, bus, logger)
	})

	Describe("CreateTrip", func() {
		It("confirms the creator as organizer", func() {
			created := createTrip()

			member, err := mockRepo.GetMember(created.ID, creatorID)
			Expect(err).NotTo(HaveOccurred())
			Expect(member.Role).To(Equal(tripDatamodel.MemberRoleOrganizer))
			Expect(member.Status).To(Equal(tripDatamodel.MemberStatusConfirmed))
		})

		It("rejects a trip without a name", func() {
			_, err := service.CreateTrip(creatorID, trip.CreateTripDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("rejects an end date before the start date", func() {
			start := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 0, -3)

			_, err := service.CreateTrip(creatorID, trip.CreateTripDTO{
				Name:      "Backwards",
				StartDate: &start,
				EndDate:   &end,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("InviteMember", func() {
		It("creates an INVITED membership and publishes an event", func() {
			created := createTrip()

			result := invite(created.ID, 2, "Bob")
			Expect(result.Token).NotTo(BeEmpty())
			Expect(result.Member.Status).To(Equal(tripDatamodel.MemberStatusInvited))
			Expect(bus.events).To(HaveLen(1))
			Expect(bus.events[0].EventType()).To(Equal(events.EventTypeMemberInvited))
		})

		It("rejects an invite from a non-member", func() {
			created := createTrip()

			_, err := service.InviteMember(context.Background(), created.ID, 99, trip.InviteMemberDTO{
				UserID:      2,
				DisplayName: "Bob",
			})
			Expect(err).To(Equal(apperrors.ErrNotTripMember))
		})

		It("rejects inviting an existing member", func() {
			created := createTrip()
			invite(created.ID, 2, "Bob")

			_, err := service.InviteMember(context.Background(), created.ID, creatorID, trip.InviteMemberDTO{
				UserID:      2,
				DisplayName: "Bob",
			})
			Expect(err).To(Equal(apperrors.ErrAlreadyMember))
		})
	})

	Describe("RespondToInvite", func() {
		It("confirms the membership with a valid token", func() {
			created := createTrip()
			result := invite(created.ID, 2, "Bob")

			member, err := service.RespondToInvite(2, trip.RespondToInviteDTO{
				Token:    result.Token,
				Response: tripDatamodel.MemberStatusConfirmed,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(member.Status).To(Equal(tripDatamodel.MemberStatusConfirmed))
		})

		It("rejects a token presented by a different user", func() {
			created := createTrip()
			result := invite(created.ID, 2, "Bob")

			_, err := service.RespondToInvite(3, trip.RespondToInviteDTO{
				Token:    result.Token,
				Response: tripDatamodel.MemberStatusConfirmed,
			})
			Expect(err).To(Equal(apperrors.ErrInvalidInviteToken))
		})

		It("allows answering again after MAYBE but not after DECLINED", func() {
			created := createTrip()
			result := invite(created.ID, 2, "Bob")

			_, err := service.RespondToInvite(2, trip.RespondToInviteDTO{
				Token:    result.Token,
				Response: tripDatamodel.MemberStatusMaybe,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RespondToInvite(2, trip.RespondToInviteDTO{
				Token:    result.Token,
				Response: tripDatamodel.MemberStatusDeclined,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RespondToInvite(2, trip.RespondToInviteDTO{
				Token:    result.Token,
				Response: tripDatamodel.MemberStatusConfirmed,
			})
			Expect(err).To(Equal(apperrors.ErrInvalidInviteToken))
		})

		It("rejects an unknown response value", func() {
			created := createTrip()
			result := invite(created.ID, 2, "Bob")

			_, err := service.RespondToInvite(2, trip.RespondToInviteDTO{
				Token:    result.Token,
				Response: "PERHAPS",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RemoveMember", func() {
		It("lets an organizer remove another member", func() {
			created := createTrip()
			invite(created.ID, 2, "Bob")

			Expect(service.RemoveMember(created.ID, creatorID, 2)).To(Succeed())
			member, _ := mockRepo.GetMember(created.ID, 2)
			Expect(member.Status).To(Equal(tripDatamodel.MemberStatusRemoved))
		})

		It("lets a member remove themselves", func() {
			created := createTrip()
			result := invite(created.ID, 2, "Bob")
			_, err := service.RespondToInvite(2, trip.RespondToInviteDTO{
				Token:    result.Token,
				Response: tripDatamodel.MemberStatusConfirmed,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.RemoveMember(created.ID, 2, 2)).To(Succeed())
		})

		It("rejects removal by a non-organizer", func() {
			created := createTrip()
			result := invite(created.ID, 2, "Bob")
			_, err := service.RespondToInvite(2, trip.RespondToInviteDTO{
				Token:    result.Token,
				Response: tripDatamodel.MemberStatusConfirmed,
			})
			Expect(err).NotTo(HaveOccurred())
			invite(created.ID, 3, "Carol")

			err = service.RemoveMember(created.ID, 2, 3)
			Expect(err).To(Equal(apperrors.ErrNotTripMember))
		})
	})

	Describe("IsConfirmedMember", func() {
		It("answers false for a user who was never invited", func() {
			created := createTrip()

			confirmed, err := service.IsConfirmedMember(created.ID, 99)
			Expect(err).NotTo(HaveOccurred())
			Expect(confirmed).To(BeFalse())
		})

		It("answers false for an unconfirmed member", func() {
			created := createTrip()
			invite(created.ID, 2, "Bob")

			confirmed, err := service.IsConfirmedMember(created.ID, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(confirmed).To(BeFalse())
		})

		It("propagates storage failures instead of reporting non-membership", func() {
			created := createTrip()
			storageErr := stderrors.New("connection reset")
			mockRepo.getMemberError = storageErr

			_, err := service.IsConfirmedMember(created.ID, creatorID)
			Expect(err).To(Equal(storageErr))
		})
	})

	Describe("ConfirmedMemberIDs", func() {
		It("returns only confirmed members in join order", func() {
			created := createTrip()
			bob := invite(created.ID, 2, "Bob")
			invite(created.ID, 3, "Carol")

			_, err := service.RespondToInvite(2, trip.RespondToInviteDTO{
				Token:    bob.Token,
				Response: tripDatamodel.MemberStatusConfirmed,
			})
			Expect(err).NotTo(HaveOccurred())

			ids, err := service.ConfirmedMemberIDs(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]int64{creatorID, 2}))
		})
	})
})
