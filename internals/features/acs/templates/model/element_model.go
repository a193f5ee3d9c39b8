package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Element types per the ACS framework.
const (
	ElementTypeKnowledge = "knowledge"
	ElementTypeRisk      = "risk"
	ElementTypeSkill     = "skill"
)

// ElementModel is the leaf of the hierarchy and the unit of evaluation.
// element_code orders elements inside a task ("PA.I.A.K1", ...), unique per task.
type ElementModel struct {
	ElementID     uuid.UUID `gorm:"column:element_id;type:uuid;default:gen_random_uuid();primaryKey" json:"element_id"`
	ElementTaskID uuid.UUID `gorm:"column:element_task_id;type:uuid;not null;index;uniqueIndex:uq_elements_code_per_task" json:"element_task_id"`

	ElementCode        string  `gorm:"column:element_code;type:varchar(24);not null;uniqueIndex:uq_elements_code_per_task" json:"element_code"`
	ElementType        string  `gorm:"column:element_type;type:varchar(16);not null" json:"element_type" validate:"oneof=knowledge risk skill"`
	ElementLabel       string  `gorm:"column:element_label;type:varchar(240);not null" json:"element_label"`
	ElementDescription *string `gorm:"column:element_description;type:text" json:"element_description,omitempty"`

	ElementPerformanceCriteria pq.StringArray `gorm:"column:element_performance_criteria;type:text[]" json:"element_performance_criteria,omitempty"`
	ElementCommonErrors        pq.StringArray `gorm:"column:element_common_errors;type:text[]" json:"element_common_errors,omitempty"`
	ElementReferences          pq.StringArray `gorm:"column:element_references;type:text[]" json:"element_references,omitempty"`

	ElementCreatedAt time.Time `gorm:"column:element_created_at;not null;autoCreateTime" json:"element_created_at"`
	ElementUpdatedAt time.Time `gorm:"column:element_updated_at;not null;autoUpdateTime" json:"element_updated_at"`
}

func (ElementModel) TableName() string { return "acs_elements" }
