package model

import (
	"time"

	"github.com/google/uuid"
)

// Task-level feedback tags. Readiness classifies on these, not on element
// status.
const (
	FeedbackExcellent   = "excellent"
	FeedbackProficient  = "proficient"
	FeedbackNeedsReview = "needs_review"
	FeedbackWeak        = "weak"
)

func ValidFeedbackTag(s string) bool {
	switch s {
	case FeedbackExcellent, FeedbackProficient, FeedbackNeedsReview, FeedbackWeak:
		return true
	}
	return false
}

// TaskFeedbackModel holds the instructor's per-task verdict for a session,
// one row per (session, task).
type TaskFeedbackModel struct {
	TaskFeedbackID        uuid.UUID `gorm:"column:task_feedback_id;type:uuid;default:gen_random_uuid();primaryKey" json:"task_feedback_id"`
	TaskFeedbackSessionID uuid.UUID `gorm:"column:task_feedback_session_id;type:uuid;not null;index;uniqueIndex:uq_task_feedback_per_session" json:"task_feedback_session_id"`
	TaskFeedbackTaskID    uuid.UUID `gorm:"column:task_feedback_task_id;type:uuid;not null;uniqueIndex:uq_task_feedback_per_session" json:"task_feedback_task_id"`

	TaskFeedbackTag  string  `gorm:"column:task_feedback_tag;type:varchar(16);not null" json:"task_feedback_tag" validate:"oneof=excellent proficient needs_review weak"`
	TaskFeedbackNote *string `gorm:"column:task_feedback_note;type:text" json:"task_feedback_note,omitempty"`

	TaskFeedbackCreatedAt time.Time `gorm:"column:task_feedback_created_at;not null;autoCreateTime" json:"task_feedback_created_at"`
	TaskFeedbackUpdatedAt time.Time `gorm:"column:task_feedback_updated_at;not null;autoUpdateTime" json:"task_feedback_updated_at"`
}

func (TaskFeedbackModel) TableName() string { return "session_task_feedback" }
