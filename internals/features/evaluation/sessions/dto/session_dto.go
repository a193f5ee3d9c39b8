package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"checkride_backend/internals/features/evaluation/sessions/model"
)

// CreateSessionRequest starts a mock-oral encounter. A2ElementIDs optionally
// pre-flags elements that were written-test deficiencies.
type CreateSessionRequest struct {
	StudentID    uuid.UUID   `json:"session_student_id" validate:"required"`
	TemplateID   uuid.UUID   `json:"session_template_id" validate:"required"`
	ScenarioID   *uuid.UUID  `json:"session_scenario_id" validate:"omitempty"`
	SessionName  string      `json:"session_name" validate:"required,max=160"`
	Notes        *string     `json:"session_notes" validate:"omitempty"`
	A2ElementIDs []uuid.UUID `json:"a2_element_ids" validate:"omitempty,dive,required"`
}

// PatchSessionRequest partially updates the mutable session fields.
type PatchSessionRequest struct {
	SessionName *string    `json:"session_name" validate:"omitempty,max=160"`
	Notes       *string    `json:"session_notes" validate:"omitempty"`
	ScenarioID  *uuid.UUID `json:"session_scenario_id" validate:"omitempty"`
}

// UpsertTaskFeedbackRequest sets the instructor's verdict for one task.
type UpsertTaskFeedbackRequest struct {
	Tag  string  `json:"task_feedback_tag" validate:"required,oneof=excellent proficient needs_review weak"`
	Note *string `json:"task_feedback_note" validate:"omitempty,max=10000"`
}

type SessionResponse struct {
	SessionID     uuid.UUID  `json:"session_id"`
	InstructorID  uuid.UUID  `json:"session_instructor_id"`
	StudentID     uuid.UUID  `json:"session_student_id"`
	TemplateID    uuid.UUID  `json:"session_template_id"`
	ScenarioID    *uuid.UUID `json:"session_scenario_id,omitempty"`
	SessionName   string     `json:"session_name"`
	Notes         *string    `json:"session_notes,omitempty"`
	DateStarted   time.Time  `json:"session_date_started"`
	DateCompleted *time.Time `json:"session_date_completed,omitempty"`

	ReportSnapshot datatypes.JSON `json:"session_report_snapshot,omitempty"`
}

// CreateSessionResponse carries a warning instead of failing when
// prepopulation degraded: the session exists, it just started cold.
type CreateSessionResponse struct {
	Session SessionResponse `json:"session"`
	Warning *string         `json:"warning,omitempty"`
}

func FromModel(m model.SessionModel) SessionResponse {
	return SessionResponse{
		SessionID:      m.SessionID,
		InstructorID:   m.SessionInstructorID,
		StudentID:      m.SessionStudentID,
		TemplateID:     m.SessionTemplateID,
		ScenarioID:     m.SessionScenarioID,
		SessionName:    m.SessionName,
		Notes:          m.SessionNotes,
		DateStarted:    m.SessionDateStarted,
		DateCompleted:  m.SessionDateCompleted,
		ReportSnapshot: m.SessionReportSnapshot,
	}
}
