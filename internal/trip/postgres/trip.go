package postgres

import (
	"errors"

	apperrors "github.com/i4ybrid/trip-planner/internal"
	tripDatamodel "github.com/i4ybrid/trip-planner/internal/core/datamodel/trip"
	"gorm.io/gorm"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

func (r *TripRepository) CreateTrip(trip *tripDatamodel.Trip) error {
	return r.db.Create(trip).Error
}

func (r *TripRepository) GetTripByID(id int64) (*tripDatamodel.Trip, error) {
	var trip tripDatamodel.Trip
	if err := r.db.First(&trip, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

func (r *TripRepository) GetTripsForUser(userID int64) ([]*tripDatamodel.Trip, error) {
	var trips []*tripDatamodel.Trip
	err := r.db.
		Joins("JOIN trip_members ON trip_members.trip_id = trips.id").
		Where("trip_members.user_id = ? AND trip_members.status = ?", userID, tripDatamodel.MemberStatusConfirmed).
		Order("trips.created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *TripRepository) CreateMember(member *tripDatamodel.TripMember) error {
	return r.db.Create(member).Error
}

func (r *TripRepository) GetMember(tripID, userID int64) (*tripDatamodel.TripMember, error) {
	var member tripDatamodel.TripMember
	err := r.db.First(&member, "trip_id = ? AND user_id = ?", tripID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *TripRepository) GetMembers(tripID int64) ([]*tripDatamodel.TripMember, error) {
	var members []*tripDatamodel.TripMember
	err := r.db.
		Where("trip_id = ?", tripID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *TripRepository) GetConfirmedMembers(tripID int64) ([]*tripDatamodel.TripMember, error) {
	var members []*tripDatamodel.TripMember
	err := r.db.
		Where("trip_id = ? AND status = ?", tripID, tripDatamodel.MemberStatusConfirmed).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *TripRepository) UpdateMemberStatus(tripID, userID int64, status string) error {
	result := r.db.Model(&tripDatamodel.TripMember{}).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}
