package dto

import (
	"github.com/google/uuid"

	"checkride_backend/internals/features/acs/templates/model"
)

type CreateAreaRequest struct {
	TemplateID  uuid.UUID `json:"area_template_id" validate:"required"`
	OrderNumber int       `json:"area_order_number" validate:"required,gte=1"`
	Title       string    `json:"area_title" validate:"required,max=200"`
	Description *string   `json:"area_description" validate:"omitempty"`
}

func (r CreateAreaRequest) ToModel() model.AreaModel {
	return model.AreaModel{
		AreaTemplateID:  r.TemplateID,
		AreaOrderNumber: r.OrderNumber,
		AreaTitle:       r.Title,
		AreaDescription: r.Description,
	}
}

type PatchAreaRequest struct {
	OrderNumber *int    `json:"area_order_number" validate:"omitempty,gte=1"`
	Title       *string `json:"area_title" validate:"omitempty,max=200"`
	Description *string `json:"area_description" validate:"omitempty"`
}
