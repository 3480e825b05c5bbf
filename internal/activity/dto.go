package activity

import (
	"time"

	errors "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/core/common/validation"
)

// ProposeActivityDTO is the request payload for proposing an activity.
type ProposeActivityDTO struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Cost         *float64   `json:"cost,omitempty"`
	Category     string     `json:"category"`
	VotingEndsAt *time.Time `json:"voting_ends_at,omitempty"`
}

func (dto ProposeActivityDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	if dto.Category != "" {
		v.Field("category", dto.Category).OneOf(
			CategoryFood, CategorySightseeing, CategoryAdventure,
			CategoryNightlife, CategoryTransport, CategoryLodging, CategoryOther,
		)
	}
	if err := v.Validate(); err != nil {
		return err
	}

	if dto.Cost != nil && *dto.Cost < 0 {
		return errors.NewValidationError("cost cannot be negative", errors.ErrCodeInvalidAmount)
	}
	if dto.VotingEndsAt != nil && dto.VotingEndsAt.Before(time.Now()) {
		return errors.NewValidationError("voting deadline must be in the future", errors.ErrCodeInvalidDate)
	}
	return nil
}

// CastVoteDTO is the request payload for casting or changing a vote.
type CastVoteDTO struct {
	Option string `json:"option"`
}

func (dto CastVoteDTO) Validate() *errors.AppError {
	if !IsValidVoteOption(dto.Option) {
		return errors.ErrInvalidVoteOption
	}
	return nil
}

// BookActivityDTO is the request payload for booking a winning activity.
type BookActivityDTO struct {
	ConfirmationNum string `json:"confirmation_num,omitempty"`
}

// ActivityWithTally is the read shape for a single activity: the stored
// record, its vote counts, and whether voting is currently open.
type ActivityWithTally struct {
	*Activity
	Tally      []OptionCount `json:"tally"`
	Winner     string        `json:"winner,omitempty"`
	VotingOpen bool          `json:"voting_open"`
}
