package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskModel is an ACS Task inside an Area, ordered by task_order_letter
// ("A", "B", ...), unique per area.
type TaskModel struct {
	TaskID     uuid.UUID `gorm:"column:task_id;type:uuid;default:gen_random_uuid();primaryKey" json:"task_id"`
	TaskAreaID uuid.UUID `gorm:"column:task_area_id;type:uuid;not null;index;uniqueIndex:uq_tasks_letter_per_area" json:"task_area_id"`

	TaskOrderLetter string  `gorm:"column:task_order_letter;type:varchar(4);not null;uniqueIndex:uq_tasks_letter_per_area" json:"task_order_letter"`
	TaskTitle       string  `gorm:"column:task_title;type:varchar(200);not null" json:"task_title"`
	TaskObjective   *string `gorm:"column:task_objective;type:text" json:"task_objective,omitempty"`
	TaskIsRequired  bool    `gorm:"column:task_is_required;not null;default:true" json:"task_is_required"`

	TaskCreatedAt time.Time `gorm:"column:task_created_at;not null;autoCreateTime" json:"task_created_at"`
	TaskUpdatedAt time.Time `gorm:"column:task_updated_at;not null;autoUpdateTime" json:"task_updated_at"`
}

func (TaskModel) TableName() string { return "acs_tasks" }
