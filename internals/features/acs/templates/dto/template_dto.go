package dto

import (
	"time"

	"github.com/google/uuid"

	"checkride_backend/internals/features/acs/templates/model"
)

type CreateTemplateRequest struct {
	InstructorID uuid.UUID `json:"template_instructor_id"`
	Name         string    `json:"template_name" validate:"required,max=160"`
	Description  *string   `json:"template_description" validate:"omitempty"`
	Rating       *string   `json:"template_rating" validate:"omitempty,max=80"`
}

func (r CreateTemplateRequest) ToModel() model.TemplateModel {
	return model.TemplateModel{
		TemplateInstructorID: r.InstructorID,
		TemplateName:         r.Name,
		TemplateDescription:  r.Description,
		TemplateRating:       r.Rating,
	}
}

type PatchTemplateRequest struct {
	Name        *string `json:"template_name" validate:"omitempty,max=160"`
	Description *string `json:"template_description" validate:"omitempty"`
	Rating      *string `json:"template_rating" validate:"omitempty,max=80"`
}

type TemplateResponse struct {
	TemplateID   uuid.UUID `json:"template_id"`
	InstructorID uuid.UUID `json:"template_instructor_id"`
	Name         string    `json:"template_name"`
	Description  *string   `json:"template_description,omitempty"`
	Rating       *string   `json:"template_rating,omitempty"`
	CreatedAt    time.Time `json:"template_created_at"`
	UpdatedAt    time.Time `json:"template_updated_at"`
}

func FromTemplateModel(m model.TemplateModel) TemplateResponse {
	return TemplateResponse{
		TemplateID:   m.TemplateID,
		InstructorID: m.TemplateInstructorID,
		Name:         m.TemplateName,
		Description:  m.TemplateDescription,
		Rating:       m.TemplateRating,
		CreatedAt:    m.TemplateCreatedAt,
		UpdatedAt:    m.TemplateUpdatedAt,
	}
}
