package trip

import (
	"time"

	errors "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/core/common/validation"
	tripDatamodel "github.com/i4ybrid/trip-planner/internal/core/datamodel/trip"
)

// CreateTripDTO is the request payload for creating a trip.
type CreateTripDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

func (dto CreateTripDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("destination", dto.Destination).MaxLength(200)
	if err := v.Validate(); err != nil {
		return err
	}

	if dto.StartDate != nil && dto.EndDate != nil && dto.EndDate.Before(*dto.StartDate) {
		return errors.NewValidationError("end date cannot be before start date", errors.ErrCodeInvalidDate)
	}
	return nil
}

// InviteMemberDTO is the request payload for inviting a user to a trip.
type InviteMemberDTO struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func (dto InviteMemberDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required()
	v.Field("display_name", dto.DisplayName).Required().MaxLength(100)
	return v.Validate()
}

// RespondToInviteDTO is the payload for answering an invitation.
type RespondToInviteDTO struct {
	Token    string `json:"token"`
	Response string `json:"response"`
}

func (dto RespondToInviteDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("token", dto.Token).Required()
	v.Field("response", dto.Response).Required().OneOf(
		tripDatamodel.MemberStatusConfirmed,
		tripDatamodel.MemberStatusDeclined,
		tripDatamodel.MemberStatusMaybe,
	)
	return v.Validate()
}

// InviteResult returns the signed token the invitee needs to respond.
type InviteResult struct {
	Member *tripDatamodel.TripMember `json:"member"`
	Token  string                    `json:"token"`
}

// TripWithMembers is the read shape for a single trip.
type TripWithMembers struct {
	*Trip
	Members []*tripDatamodel.TripMember `json:"members"`
}
