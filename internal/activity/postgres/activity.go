package postgres

import (
	"time"

	errors "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/activity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository implements activity.Repository using GORM.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) CreateActivity(act *activity.Activity) error {
	return r.db.Create(act).Error
}

func (r *ActivityRepository) GetActivityByID(id int64) (*activity.Activity, error) {
	var act activity.Activity
	err := r.db.Where("id = ?", id).First(&act).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrActivityNotFound
		}
		return nil, err
	}
	return &act, nil
}

func (r *ActivityRepository) GetByTripID(tripID int64) ([]*activity.Activity, error) {
	var activities []*activity.Activity
	err := r.db.Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&activities).Error
	return activities, err
}

// GetExpiredOpen returns OPEN activities whose voting deadline has
// passed, oldest deadline first.
func (r *ActivityRepository) GetExpiredOpen(now time.Time) ([]*activity.Activity, error) {
	var activities []*activity.Activity
	err := r.db.Where("status = ? AND voting_ends_at IS NOT NULL AND voting_ends_at < ?", activity.StatusOpen, now).
		Order("voting_ends_at ASC").
		Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&activity.Activity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// UpsertVote enforces one vote per (activity, user): a re-vote replaces
// the option in place and keeps the original created_at so tally order
// stays chronological by first vote.
func (r *ActivityRepository) UpsertVote(vote *activity.Vote) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "activity_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"option", "updated_at"}),
	}).Create(vote).Error
}

func (r *ActivityRepository) DeleteVote(activityID, userID int64) error {
	return r.db.Where("activity_id = ? AND user_id = ?", activityID, userID).
		Delete(&activity.Vote{}).Error
}

func (r *ActivityRepository) GetVotesForActivity(activityID int64) ([]*activity.Vote, error) {
	var votes []*activity.Vote
	err := r.db.Where("activity_id = ?", activityID).
		Order("created_at ASC, id ASC").
		Find(&votes).Error
	return votes, err
}
