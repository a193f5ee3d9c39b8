package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	"checkride_backend/internals/features/acs/templates/dto"
	"checkride_backend/internals/features/acs/templates/model"
	helper "checkride_backend/internals/helpers"
)

type TaskController struct {
	DB        *gorm.DB
	Hierarchy *hierarchyService.HierarchyService
}

// POST /api/a/tasks
func (h *TaskController) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	req.OrderLetter = strings.ToUpper(strings.TrimSpace(req.OrderLetter))
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	templateID, err := h.templateForArea(c, req.AreaID)
	if err != nil {
		return err
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.TaskModel{}).
			Where("task_area_id = ? AND task_order_letter = ?", req.AreaID, req.OrderLetter).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check task ordering")
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "Order letter already used in this area")
		}
		if err := tx.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create task")
		}
		return nil
	}); err != nil {
		return err
	}

	h.invalidate(templateID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Task created", m)
}

// PATCH /api/a/tasks/:id
func (h *TaskController) UpdateTask(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid task id")
	}

	var req dto.PatchTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.TaskModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "task_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Task not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load task")
	}

	fields := map[string]interface{}{}
	if req.OrderLetter != nil {
		fields["task_order_letter"] = strings.ToUpper(strings.TrimSpace(*req.OrderLetter))
	}
	if req.Title != nil {
		fields["task_title"] = *req.Title
	}
	if req.Objective != nil {
		fields["task_objective"] = *req.Objective
	}
	if req.IsRequired != nil {
		fields["task_is_required"] = *req.IsRequired
	}
	if len(fields) > 0 {
		if err := h.DB.WithContext(c.UserContext()).
			Model(&model.TaskModel{}).
			Where("task_id = ?", id).
			Updates(fields).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update task")
		}
	}

	templateID, terr := h.templateForArea(c, m.TaskAreaID)
	if terr == nil {
		h.invalidate(templateID)
	}
	return helper.Success(c, "Task updated", nil)
}

// DELETE /api/a/tasks/:id takes its elements with it.
func (h *TaskController) DeleteTask(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid task id")
	}

	var m model.TaskModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "task_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Task not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load task")
	}

	if err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("element_task_id = ?", id).
			Delete(&model.ElementModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&m).Error
	}); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete task")
	}

	templateID, terr := h.templateForArea(c, m.TaskAreaID)
	if terr == nil {
		h.invalidate(templateID)
	}
	return helper.Success(c, "Task deleted", nil)
}

func (h *TaskController) templateForArea(c *fiber.Ctx, areaID uuid.UUID) (uuid.UUID, error) {
	var area model.AreaModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&area, "area_id = ?", areaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Area not found")
		}
		return uuid.Nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load area")
	}
	return area.AreaTemplateID, nil
}

func (h *TaskController) invalidate(templateID uuid.UUID) {
	if h.Hierarchy != nil {
		h.Hierarchy.InvalidateTemplate(templateID)
	}
}
