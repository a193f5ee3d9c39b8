package model

import (
	"time"

	"github.com/google/uuid"
)

// Performance status of one element inside one session. Free transitions:
// instructors may re-score at will, last write wins.
const (
	PerformanceSatisfactory   = "satisfactory"
	PerformanceUnsatisfactory = "unsatisfactory"
	PerformanceNotObserved    = "not-observed"
)

// Derived UI status. Never stored: always recomputed from performance status
// so the two cannot drift.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in-progress"
	StatusIssue      = "issue"
)

// ValidPerformanceStatus reports whether s is one of the three enum values.
func ValidPerformanceStatus(s string) bool {
	switch s {
	case PerformanceSatisfactory, PerformanceUnsatisfactory, PerformanceNotObserved:
		return true
	}
	return false
}

// DeriveStatus is the single status-derivation function. Every consumer goes
// through here; an unknown or empty performance status (missing ledger row)
// reads as in-progress.
func DeriveStatus(performanceStatus string) string {
	switch performanceStatus {
	case PerformanceSatisfactory:
		return StatusCompleted
	case PerformanceUnsatisfactory:
		return StatusIssue
	default:
		return StatusInProgress
	}
}

// SessionElementModel is the ledger row: the sole mutable state of a live
// evaluation, keyed (session_id, element_id).
type SessionElementModel struct {
	SessionElementSessionID uuid.UUID `gorm:"column:session_element_session_id;type:uuid;not null;primaryKey" json:"session_element_session_id"`
	SessionElementElementID uuid.UUID `gorm:"column:session_element_element_id;type:uuid;not null;primaryKey" json:"session_element_element_id"`

	SessionElementPerformanceStatus  string `gorm:"column:session_element_performance_status;type:varchar(16);not null;default:'not-observed'" json:"session_element_performance_status"`
	SessionElementInstructorComment  string `gorm:"column:session_element_instructor_comment;type:text;not null;default:''" json:"session_element_instructor_comment"`
	SessionElementInstructorMentioned bool  `gorm:"column:session_element_instructor_mentioned;not null;default:false" json:"session_element_instructor_mentioned"`
	SessionElementStudentMentioned    bool  `gorm:"column:session_element_student_mentioned;not null;default:false" json:"session_element_student_mentioned"`

	// Flag for prior written-test weak areas, orthogonal to live scoring.
	SessionElementA2Deficiency bool `gorm:"column:session_element_a2_deficiency;not null;default:false" json:"session_element_a2_deficiency"`
	SessionElementNeedsReview  bool `gorm:"column:session_element_needs_review;not null;default:false" json:"session_element_needs_review"`

	// 1..4 rubric score; parallel path that does not touch performance status.
	SessionElementScore *int `gorm:"column:session_element_score" json:"session_element_score,omitempty" validate:"omitempty,gte=1,lte=4"`

	SessionElementCreatedAt time.Time `gorm:"column:session_element_created_at;not null;autoCreateTime" json:"session_element_created_at"`
	SessionElementUpdatedAt time.Time `gorm:"column:session_element_updated_at;not null;autoUpdateTime" json:"session_element_updated_at"`
}

func (SessionElementModel) TableName() string { return "session_elements" }
