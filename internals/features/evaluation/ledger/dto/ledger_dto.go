package dto

import (
	"time"

	"github.com/google/uuid"
)

// SaveEvaluationRequest scores one element. Comment may arrive once per
// keystroke or once per debounce window; the upsert behaves the same either
// way.
type SaveEvaluationRequest struct {
	PerformanceStatus   string `json:"performance_status" validate:"required,oneof=satisfactory unsatisfactory not-observed"`
	Comment             string `json:"comment" validate:"max=10000"`
	InstructorMentioned *bool  `json:"instructor_mentioned" validate:"omitempty"`
	StudentMentioned    *bool  `json:"student_mentioned" validate:"omitempty"`
}

// SaveScoreRequest is the parallel 1–4 rubric path; it never touches the
// performance status.
type SaveScoreRequest struct {
	Score   int     `json:"score" validate:"required,gte=1,lte=4"`
	Comment *string `json:"comment" validate:"omitempty,max=10000"`
}

// SetA2DeficienciesRequest bulk-flags elements that were written-test
// deficiencies.
type SetA2DeficienciesRequest struct {
	ElementIDs []uuid.UUID `json:"element_ids" validate:"required,min=1,dive,required"`
}

// EvaluationResult reports the authoritative post-save state so the UI can
// patch its optimistic copy with server-confirmed data.
type EvaluationResult struct {
	SessionID         uuid.UUID `json:"session_id"`
	ElementID         uuid.UUID `json:"element_id"`
	PerformanceStatus string    `json:"performance_status"`
	Status            string    `json:"status"`
	NeedsReview       bool      `json:"needs_review"`
	Score             *int      `json:"score,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}
