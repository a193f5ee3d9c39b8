package dto

import (
	"github.com/google/uuid"

	"checkride_backend/internals/features/acs/templates/model"
)

type CreateTaskRequest struct {
	AreaID      uuid.UUID `json:"task_area_id" validate:"required"`
	OrderLetter string    `json:"task_order_letter" validate:"required,max=4"`
	Title       string    `json:"task_title" validate:"required,max=200"`
	Objective   *string   `json:"task_objective" validate:"omitempty"`
	IsRequired  *bool     `json:"task_is_required" validate:"omitempty"`
}

func (r CreateTaskRequest) ToModel() model.TaskModel {
	m := model.TaskModel{
		TaskAreaID:      r.AreaID,
		TaskOrderLetter: r.OrderLetter,
		TaskTitle:       r.Title,
		TaskObjective:   r.Objective,
		TaskIsRequired:  true,
	}
	if r.IsRequired != nil {
		m.TaskIsRequired = *r.IsRequired
	}
	return m
}

type PatchTaskRequest struct {
	OrderLetter *string `json:"task_order_letter" validate:"omitempty,max=4"`
	Title       *string `json:"task_title" validate:"omitempty,max=200"`
	Objective   *string `json:"task_objective" validate:"omitempty"`
	IsRequired  *bool   `json:"task_is_required" validate:"omitempty"`
}
