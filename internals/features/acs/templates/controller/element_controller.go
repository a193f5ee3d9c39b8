package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	"checkride_backend/internals/features/acs/templates/dto"
	"checkride_backend/internals/features/acs/templates/model"
	helper "checkride_backend/internals/helpers"
)

type ElementController struct {
	DB        *gorm.DB
	Hierarchy *hierarchyService.HierarchyService
}

// POST /api/a/elements
// New elements do NOT retroactively appear in running sessions; those need
// an explicit re-prepopulate.
func (h *ElementController) CreateElement(c *fiber.Ctx) error {
	var req dto.CreateElementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	req.Code = strings.TrimSpace(req.Code)
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	templateID, err := h.templateForTask(c, req.TaskID)
	if err != nil {
		return err
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.ElementModel{}).
			Where("element_task_id = ? AND lower(element_code) = lower(?)", req.TaskID, req.Code).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check element code")
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "Element code already used in this task")
		}
		if err := tx.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create element")
		}
		return nil
	}); err != nil {
		return err
	}

	h.invalidate(templateID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Element created", m)
}

// GET /api/u/tasks/:taskId/elements?type=knowledge
func (h *ElementController) ListElementsByTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid task id")
	}

	q := h.DB.WithContext(c.UserContext()).
		Where("element_task_id = ?", taskID).
		Order("element_code ASC")
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		switch t {
		case model.ElementTypeKnowledge, model.ElementTypeRisk, model.ElementTypeSkill:
			q = q.Where("element_type = ?", t)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Unknown element type")
		}
	}

	var rows []model.ElementModel
	if err := q.Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list elements")
	}
	return helper.Success(c, "Elements loaded", rows)
}

// PATCH /api/a/elements/:id
func (h *ElementController) UpdateElement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid element id")
	}

	var req dto.PatchElementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.ElementModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "element_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Element not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load element")
	}

	fields := map[string]interface{}{}
	if req.Code != nil {
		fields["element_code"] = strings.TrimSpace(*req.Code)
	}
	if req.Type != nil {
		fields["element_type"] = *req.Type
	}
	if req.Label != nil {
		fields["element_label"] = *req.Label
	}
	if req.Description != nil {
		fields["element_description"] = *req.Description
	}
	if req.PerformanceCriteria != nil {
		fields["element_performance_criteria"] = pqArray(*req.PerformanceCriteria)
	}
	if req.CommonErrors != nil {
		fields["element_common_errors"] = pqArray(*req.CommonErrors)
	}
	if req.References != nil {
		fields["element_references"] = pqArray(*req.References)
	}
	if len(fields) > 0 {
		if err := h.DB.WithContext(c.UserContext()).
			Model(&model.ElementModel{}).
			Where("element_id = ?", id).
			Updates(fields).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update element")
		}
	}

	if templateID, terr := h.templateForTask(c, m.ElementTaskID); terr == nil {
		h.invalidate(templateID)
	}
	return helper.Success(c, "Element updated", nil)
}

// DELETE /api/a/elements/:id
func (h *ElementController) DeleteElement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid element id")
	}

	var m model.ElementModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "element_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Element not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load element")
	}

	if err := h.DB.WithContext(c.UserContext()).Delete(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete element")
	}

	if templateID, terr := h.templateForTask(c, m.ElementTaskID); terr == nil {
		h.invalidate(templateID)
	}
	return helper.Success(c, "Element deleted", nil)
}

func (h *ElementController) templateForTask(c *fiber.Ctx, taskID uuid.UUID) (uuid.UUID, error) {
	var task model.TaskModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&task, "task_id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Task not found")
		}
		return uuid.Nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load task")
	}
	var area model.AreaModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&area, "area_id = ?", task.TaskAreaID).Error; err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load area")
	}
	return area.AreaTemplateID, nil
}

func (h *ElementController) invalidate(templateID uuid.UUID) {
	if h.Hierarchy != nil {
		h.Hierarchy.InvalidateTemplate(templateID)
	}
}

func pqArray(values []string) pq.StringArray {
	out := make(pq.StringArray, len(values))
	copy(out, values)
	return out
}
