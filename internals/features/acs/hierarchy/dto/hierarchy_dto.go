package dto

import (
	"github.com/google/uuid"

	acsModel "checkride_backend/internals/features/acs/templates/model"
	ledgerModel "checkride_backend/internals/features/evaluation/ledger/model"
)

// MergedElement is the session-scoped view of one element: immutable template
// fields joined with the live ledger row. Status is derived, never stored.
type MergedElement struct {
	ElementID uuid.UUID `json:"element_id"`
	TaskID    uuid.UUID `json:"task_id"`

	Code        string   `json:"code"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Description *string  `json:"description,omitempty"`
	PerformanceCriteria []string `json:"performance_criteria,omitempty"`
	CommonErrors        []string `json:"common_errors,omitempty"`
	References          []string `json:"references,omitempty"`

	PerformanceStatus string `json:"performance_status"`
	Status            string `json:"status"`
	InstructorComment string `json:"instructor_comment"`
	A2Deficiency      bool   `json:"a2_deficiency"`
	NeedsReview       bool   `json:"needs_review"`
	Score             *int   `json:"score,omitempty"`
}

// TaskWithElements is a task with its merged elements attached, in code order.
type TaskWithElements struct {
	TaskID      uuid.UUID `json:"task_id"`
	AreaID      uuid.UUID `json:"area_id"`
	OrderLetter string    `json:"order_letter"`
	Title       string    `json:"title"`
	Objective   *string   `json:"objective,omitempty"`
	IsRequired  bool      `json:"is_required"`

	Elements []MergedElement `json:"elements"`
}

// AreaWithTasks is the root node of the session-scoped hierarchy.
type AreaWithTasks struct {
	AreaID      uuid.UUID `json:"area_id"`
	TemplateID  uuid.UUID `json:"template_id"`
	OrderNumber int       `json:"order_number"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`

	Tasks []TaskWithElements `json:"tasks"`
}

// MergeElement joins one template element with its ledger row. row == nil is
// the unscored case: not-observed, no deficiency, in-progress.
func MergeElement(el acsModel.ElementModel, row *ledgerModel.SessionElementModel) MergedElement {
	m := MergedElement{
		ElementID:           el.ElementID,
		TaskID:              el.ElementTaskID,
		Code:                el.ElementCode,
		Type:                el.ElementType,
		Label:               el.ElementLabel,
		Description:         el.ElementDescription,
		PerformanceCriteria: el.ElementPerformanceCriteria,
		CommonErrors:        el.ElementCommonErrors,
		References:          el.ElementReferences,
		PerformanceStatus:   ledgerModel.PerformanceNotObserved,
	}
	if row != nil {
		m.PerformanceStatus = row.SessionElementPerformanceStatus
		m.InstructorComment = row.SessionElementInstructorComment
		m.A2Deficiency = row.SessionElementA2Deficiency
		m.NeedsReview = row.SessionElementNeedsReview
		m.Score = row.SessionElementScore
	}
	m.Status = ledgerModel.DeriveStatus(m.PerformanceStatus)
	return m
}

func FromTask(t acsModel.TaskModel) TaskWithElements {
	return TaskWithElements{
		TaskID:      t.TaskID,
		AreaID:      t.TaskAreaID,
		OrderLetter: t.TaskOrderLetter,
		Title:       t.TaskTitle,
		Objective:   t.TaskObjective,
		IsRequired:  t.TaskIsRequired,
		Elements:    []MergedElement{},
	}
}

func FromArea(a acsModel.AreaModel) AreaWithTasks {
	return AreaWithTasks{
		AreaID:      a.AreaID,
		TemplateID:  a.AreaTemplateID,
		OrderNumber: a.AreaOrderNumber,
		Title:       a.AreaTitle,
		Description: a.AreaDescription,
		Tasks:       []TaskWithElements{},
	}
}
