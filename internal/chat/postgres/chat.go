package postgres

import (
	"github.com/i4ybrid/trip-planner/internal/chat"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateMessage(msg *chat.Message) error {
	return r.db.Create(msg).Error
}

func (r *ChatRepository) CreateMentions(mentions []chat.Mention) error {
	if len(mentions) == 0 {
		return nil
	}
	return r.db.Create(&mentions).Error
}

func (r *ChatRepository) GetMessagesByTrip(tripID int64, limit, offset int) ([]*chat.Message, error) {
	var messages []*chat.Message
	err := r.db.
		Where("trip_id = ?", tripID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *ChatRepository) GetMentionsForMessage(messageID int64) ([]chat.Mention, error) {
	var mentions []chat.Mention
	err := r.db.
		Where("message_id = ?", messageID).
		Order("id ASC").
		Find(&mentions).Error
	if err != nil {
		return nil, err
	}
	return mentions, nil
}
