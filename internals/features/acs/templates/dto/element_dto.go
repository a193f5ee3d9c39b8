package dto

import (
	"github.com/google/uuid"

	"checkride_backend/internals/features/acs/templates/model"
)

type CreateElementRequest struct {
	TaskID      uuid.UUID `json:"element_task_id" validate:"required"`
	Code        string    `json:"element_code" validate:"required,max=24"`
	Type        string    `json:"element_type" validate:"required,oneof=knowledge risk skill"`
	Label       string    `json:"element_label" validate:"required,max=240"`
	Description *string   `json:"element_description" validate:"omitempty"`

	PerformanceCriteria []string `json:"element_performance_criteria" validate:"omitempty,dive,max=500"`
	CommonErrors        []string `json:"element_common_errors" validate:"omitempty,dive,max=500"`
	References          []string `json:"element_references" validate:"omitempty,dive,max=500"`
}

func (r CreateElementRequest) ToModel() model.ElementModel {
	return model.ElementModel{
		ElementTaskID:              r.TaskID,
		ElementCode:                r.Code,
		ElementType:                r.Type,
		ElementLabel:               r.Label,
		ElementDescription:         r.Description,
		ElementPerformanceCriteria: r.PerformanceCriteria,
		ElementCommonErrors:        r.CommonErrors,
		ElementReferences:          r.References,
	}
}

type PatchElementRequest struct {
	Code        *string `json:"element_code" validate:"omitempty,max=24"`
	Type        *string `json:"element_type" validate:"omitempty,oneof=knowledge risk skill"`
	Label       *string `json:"element_label" validate:"omitempty,max=240"`
	Description *string `json:"element_description" validate:"omitempty"`

	PerformanceCriteria *[]string `json:"element_performance_criteria" validate:"omitempty,dive,max=500"`
	CommonErrors        *[]string `json:"element_common_errors" validate:"omitempty,dive,max=500"`
	References          *[]string `json:"element_references" validate:"omitempty,dive,max=500"`
}
