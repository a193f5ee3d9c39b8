package model

import (
	"time"

	"github.com/google/uuid"
)

// AreaModel is an ACS Area of Operation. Ordering inside a template is by
// area_order_number and must be total (unique per template).
type AreaModel struct {
	AreaID         uuid.UUID `gorm:"column:area_id;type:uuid;default:gen_random_uuid();primaryKey" json:"area_id"`
	AreaTemplateID uuid.UUID `gorm:"column:area_template_id;type:uuid;not null;index;uniqueIndex:uq_areas_order_per_template" json:"area_template_id"`

	AreaOrderNumber int     `gorm:"column:area_order_number;not null;uniqueIndex:uq_areas_order_per_template" json:"area_order_number"`
	AreaTitle       string  `gorm:"column:area_title;type:varchar(200);not null" json:"area_title"`
	AreaDescription *string `gorm:"column:area_description;type:text" json:"area_description,omitempty"`

	AreaCreatedAt time.Time `gorm:"column:area_created_at;not null;autoCreateTime" json:"area_created_at"`
	AreaUpdatedAt time.Time `gorm:"column:area_updated_at;not null;autoUpdateTime" json:"area_updated_at"`
}

func (AreaModel) TableName() string { return "acs_areas" }
