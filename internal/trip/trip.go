package trip

import (
	"time"

	tripDatamodel "github.com/i4ybrid/trip-planner/internal/core/datamodel/trip"
)

// Trip is the domain view of a trip.
type Trip struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewTrip(creatorID int64, dto CreateTripDTO) *Trip {
	now := time.Now()
	return &Trip{
		Name:        dto.Name,
		Description: dto.Description,
		Destination: dto.Destination,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(t *Trip) *tripDatamodel.Trip {
	return &tripDatamodel.Trip{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(t *tripDatamodel.Trip) *Trip {
	return &Trip{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModelSlice(trips []*tripDatamodel.Trip) []*Trip {
	result := make([]*Trip, len(trips))
	for i, t := range trips {
		result[i] = FromDataModel(t)
	}
	return result
}
