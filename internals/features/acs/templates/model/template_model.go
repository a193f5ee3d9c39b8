package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateModel is one ACS evaluation template (e.g. "Private Pilot ASEL").
// The template binding of a session is immutable after the session is created.
type TemplateModel struct {
	TemplateID           uuid.UUID `gorm:"column:template_id;type:uuid;default:gen_random_uuid();primaryKey" json:"template_id"`
	TemplateInstructorID uuid.UUID `gorm:"column:template_instructor_id;type:uuid;not null;index" json:"template_instructor_id"`

	TemplateName        string  `gorm:"column:template_name;type:varchar(160);not null" json:"template_name"`
	TemplateDescription *string `gorm:"column:template_description;type:text" json:"template_description,omitempty"`
	TemplateRating      *string `gorm:"column:template_rating;type:varchar(80)" json:"template_rating,omitempty"`

	TemplateCreatedAt time.Time      `gorm:"column:template_created_at;not null;autoCreateTime" json:"template_created_at"`
	TemplateUpdatedAt time.Time      `gorm:"column:template_updated_at;not null;autoUpdateTime" json:"template_updated_at"`
	TemplateDeletedAt gorm.DeletedAt `gorm:"column:template_deleted_at;index" json:"template_deleted_at,omitempty"`
}

func (TemplateModel) TableName() string { return "acs_templates" }
