package trip

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/i4ybrid/trip-planner/internal"
	tripDatamodel "github.com/i4ybrid/trip-planner/internal/core/datamodel/trip"
	"github.com/i4ybrid/trip-planner/internal/core/events"
)

// Repository defines the data access methods for trips and memberships.
type Repository interface {
	CreateTrip(trip *tripDatamodel.Trip) error
	GetTripByID(id int64) (*tripDatamodel.Trip, error)
	GetTripsForUser(userID int64) ([]*tripDatamodel.Trip, error)

	CreateMember(member *tripDatamodel.TripMember) error
	GetMember(tripID, userID int64) (*tripDatamodel.TripMember, error)
	GetMembers(tripID int64) ([]*tripDatamodel.TripMember, error)
	GetConfirmedMembers(tripID int64) ([]*tripDatamodel.TripMember, error)
	UpdateMemberStatus(tripID, userID int64, status string) error
}

// EventPublisher fans domain events out to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service handles trip and membership business logic.
type Service struct {
	repo    Repository
	invites *InviteTokenManager
	bus     EventPublisher
	logger  *slog.Logger
}

func NewService(repo Repository, invites *InviteTokenManager, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		invites: invites,
		bus:     bus,
		logger:  logger,
	}
}

// CreateTrip creates the trip and confirms the creator as organizer.
func (s *Service) CreateTrip(creatorID int64, dto CreateTripDTO) (*Trip, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("trip validation failed", "error", err, "user_id", creatorID)
		return nil, err
	}

	model := ToDataModel(NewTrip(creatorID, dto))
	if err := s.repo.CreateTrip(model); err != nil {
		s.logger.Error("failed to create trip", "error", err, "user_id", creatorID)
		return nil, err
	}

	now := time.Now()
	creator := &tripDatamodel.TripMember{
		TripID:    model.ID,
		UserID:    creatorID,
		Role:      tripDatamodel.MemberRoleOrganizer,
		Status:    tripDatamodel.MemberStatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateMember(creator); err != nil {
		s.logger.Error("failed to add trip creator as member", "error", err, "trip_id", model.ID)
		return nil, err
	}

	s.logger.Info("trip created", "trip_id", model.ID, "created_by", creatorID, "name", model.Name)
	return FromDataModel(model), nil
}

func (s *Service) GetTrip(tripID int64) (*TripWithMembers, error) {
	model, err := s.repo.GetTripByID(tripID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.GetMembers(tripID)
	if err != nil {
		s.logger.Error("failed to load trip members", "error", err, "trip_id", tripID)
		return nil, err
	}

	return &TripWithMembers{Trip: FromDataModel(model), Members: members}, nil
}

func (s *Service) ListUserTrips(userID int64) ([]*Trip, error) {
	models, err := s.repo.GetTripsForUser(userID)
	if err != nil {
		s.logger.Error("failed to list user trips", "error", err, "user_id", userID)
		return nil, err
	}
	return FromDataModelSlice(models), nil
}

// InviteMember creates an INVITED membership and issues the signed
// token the invitee must present to respond.
func (s *Service) InviteMember(ctx context.Context, tripID, inviterID int64, dto InviteMemberDTO) (*InviteResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	model, err := s.repo.GetTripByID(tripID)
	if err != nil {
		return nil, err
	}

	inviter, err := s.repo.GetMember(tripID, inviterID)
	if err != nil {
		return nil, errors.ErrNotTripMember
	}
	if !inviter.IsConfirmed() {
		return nil, errors.ErrNotTripMember
	}

	if existing, err := s.repo.GetMember(tripID, dto.UserID); err == nil && existing != nil {
		s.logger.Warn("invite rejected: already a member", "trip_id", tripID, "user_id", dto.UserID, "status", existing.Status)
		return nil, errors.ErrAlreadyMember
	}

	token, secretHash, err := s.invites.Generate(tripID, dto.UserID)
	if err != nil {
		s.logger.Error("failed to generate invite token", "error", err, "trip_id", tripID)
		return nil, errors.NewInternalError("failed to generate invitation", err)
	}

	now := time.Now()
	member := &tripDatamodel.TripMember{
		TripID:          tripID,
		UserID:          dto.UserID,
		DisplayName:     dto.DisplayName,
		Email:           dto.Email,
		Role:            tripDatamodel.MemberRoleMember,
		Status:          tripDatamodel.MemberStatusInvited,
		InviteTokenHash: secretHash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateMember(member); err != nil {
		s.logger.Error("failed to create membership", "error", err, "trip_id", tripID, "user_id", dto.UserID)
		return nil, err
	}

	s.logger.Info("member invited", "trip_id", tripID, "user_id", dto.UserID, "invited_by", inviterID)

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewMemberInvitedEvent(tripID, dto.UserID, inviterID, model.Name))
	}

	return &InviteResult{Member: member, Token: token}, nil
}

// RespondToInvite validates the token and moves the membership to the
// requested status. MAYBE keeps the invitation answerable later;
// CONFIRMED and DECLINED settle it.
func (s *Service) RespondToInvite(userID int64, dto RespondToInviteDTO) (*tripDatamodel.TripMember, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.invites.Parse(dto.Token)
	if err != nil {
		s.logger.Warn("invite token rejected", "error", err, "user_id", userID)
		return nil, errors.ErrInvalidInviteToken
	}
	if claims.UserID != userID {
		return nil, errors.ErrInvalidInviteToken
	}

	member, err := s.repo.GetMember(claims.TripID, claims.UserID)
	if err != nil {
		return nil, errors.ErrMemberNotFound
	}
	if !member.CanRespond() {
		s.logger.Warn("invite response rejected: membership not answerable", "trip_id", claims.TripID, "user_id", userID, "status", member.Status)
		return nil, errors.ErrInvalidInviteToken
	}
	if !VerifySecret(member.InviteTokenHash, claims.Secret) {
		return nil, errors.ErrInvalidInviteToken
	}

	if err := s.repo.UpdateMemberStatus(claims.TripID, claims.UserID, dto.Response); err != nil {
		s.logger.Error("failed to update membership status", "error", err, "trip_id", claims.TripID, "user_id", userID)
		return nil, err
	}

	member.Status = dto.Response
	member.UpdatedAt = time.Now()

	s.logger.Info("invitation answered", "trip_id", claims.TripID, "user_id", userID, "response", dto.Response)
	return member, nil
}

// RemoveMember transitions a membership to REMOVED. Only organizers may
// remove others; anyone may remove themselves.
func (s *Service) RemoveMember(tripID, actorID, targetID int64) error {
	if actorID != targetID {
		actor, err := s.repo.GetMember(tripID, actorID)
		if err != nil {
			return errors.ErrNotTripMember
		}
		if actor.Role != tripDatamodel.MemberRoleOrganizer || !actor.IsConfirmed() {
			return errors.ErrNotTripMember
		}
	}

	if _, err := s.repo.GetMember(tripID, targetID); err != nil {
		return errors.ErrMemberNotFound
	}

	if err := s.repo.UpdateMemberStatus(tripID, targetID, tripDatamodel.MemberStatusRemoved); err != nil {
		s.logger.Error("failed to remove member", "error", err, "trip_id", tripID, "user_id", targetID)
		return err
	}

	s.logger.Info("member removed", "trip_id", tripID, "user_id", targetID, "removed_by", actorID)
	return nil
}

// ConfirmedMemberIDs satisfies the member-reader contract used by the
// expense, settlement, and activity modules.
func (s *Service) ConfirmedMemberIDs(tripID int64) ([]int64, error) {
	members, err := s.repo.GetConfirmedMembers(tripID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}

func (s *Service) IsConfirmedMember(tripID, userID int64) (bool, error) {
	member, err := s.repo.GetMember(tripID, userID)
	if err != nil {
		if err == errors.ErrMemberNotFound {
			return false, nil
		}
		return false, err
	}
	return member.IsConfirmed(), nil
}

// ConfirmedMembers exposes full member rows for callers that need
// display names, such as mention parsing.
func (s *Service) ConfirmedMembers(tripID int64) ([]*tripDatamodel.TripMember, error) {
	return s.repo.GetConfirmedMembers(tripID)
}

// GetMember returns a single membership row regardless of status.
func (s *Service) GetMember(tripID, userID int64) (*tripDatamodel.TripMember, error) {
	return s.repo.GetMember(tripID, userID)
}
