package chat

import (
	errors "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/core/common/validation"
)

const maxMessageLength = 2000

type PostMessageDTO struct {
	Body string `json:"body"`
}

func (dto PostMessageDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("body", dto.Body).Required().MaxLength(maxMessageLength)
	return v.Validate()
}

// MessageWithMentions is the API shape for a posted message.
type MessageWithMentions struct {
	*Message
	MentionedUserIDs []int64 `json:"mentioned_user_ids,omitempty"`
}

type ListMessagesQuery struct {
	Limit  int
	Offset int
}

func (q ListMessagesQuery) Normalized() ListMessagesQuery {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}
