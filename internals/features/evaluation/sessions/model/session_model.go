package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionModel is one mock-oral evaluation encounter. The template binding is
// immutable after creation; elements added to the template later do not appear
// unless the session is re-prepopulated.
type SessionModel struct {
	SessionID           uuid.UUID  `gorm:"column:session_id;type:uuid;default:gen_random_uuid();primaryKey" json:"session_id"`
	SessionInstructorID uuid.UUID  `gorm:"column:session_instructor_id;type:uuid;not null;index" json:"session_instructor_id"`
	SessionStudentID    uuid.UUID  `gorm:"column:session_student_id;type:uuid;not null;index" json:"session_student_id"`
	SessionTemplateID   uuid.UUID  `gorm:"column:session_template_id;type:uuid;not null;index" json:"session_template_id"`
	SessionScenarioID   *uuid.UUID `gorm:"column:session_scenario_id;type:uuid" json:"session_scenario_id,omitempty"`

	SessionName  string  `gorm:"column:session_name;type:varchar(160);not null" json:"session_name"`
	SessionNotes *string `gorm:"column:session_notes;type:text" json:"session_notes,omitempty"`

	SessionDateStarted   time.Time  `gorm:"column:session_date_started;not null" json:"session_date_started"`
	SessionDateCompleted *time.Time `gorm:"column:session_date_completed" json:"session_date_completed,omitempty"`

	// Aggregated progress + readiness persisted at completion for the report
	// layer; nil while the session is live.
	SessionReportSnapshot datatypes.JSON `gorm:"column:session_report_snapshot;type:jsonb" json:"session_report_snapshot,omitempty"`

	SessionCreatedAt time.Time      `gorm:"column:session_created_at;not null;autoCreateTime" json:"session_created_at"`
	SessionUpdatedAt time.Time      `gorm:"column:session_updated_at;not null;autoUpdateTime" json:"session_updated_at"`
	SessionDeletedAt gorm.DeletedAt `gorm:"column:session_deleted_at;index" json:"session_deleted_at,omitempty"`
}

func (SessionModel) TableName() string { return "evaluation_sessions" }
