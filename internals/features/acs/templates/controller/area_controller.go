package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	"checkride_backend/internals/features/acs/templates/dto"
	"checkride_backend/internals/features/acs/templates/model"
	helper "checkride_backend/internals/helpers"
)

type AreaController struct {
	DB        *gorm.DB
	Hierarchy *hierarchyService.HierarchyService
}

// POST /api/a/areas
func (h *AreaController) CreateArea(c *fiber.Ctx) error {
	var req dto.CreateAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		// ordering must stay total: no duplicate order numbers per template
		var cnt int64
		if err := tx.Model(&model.AreaModel{}).
			Where("area_template_id = ? AND area_order_number = ?", req.TemplateID, req.OrderNumber).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check area ordering")
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "Order number already used in this template")
		}
		if err := tx.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create area")
		}
		return nil
	}); err != nil {
		return err
	}

	h.invalidate(req.TemplateID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Area created", m)
}

// PATCH /api/a/areas/:id
func (h *AreaController) UpdateArea(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}

	var req dto.PatchAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.AreaModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "area_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Area not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load area")
	}

	fields := map[string]interface{}{}
	if req.OrderNumber != nil {
		fields["area_order_number"] = *req.OrderNumber
	}
	if req.Title != nil {
		fields["area_title"] = *req.Title
	}
	if req.Description != nil {
		fields["area_description"] = *req.Description
	}
	if len(fields) > 0 {
		if err := h.DB.WithContext(c.UserContext()).
			Model(&model.AreaModel{}).
			Where("area_id = ?", id).
			Updates(fields).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update area")
		}
	}

	h.invalidate(m.AreaTemplateID)
	return helper.Success(c, "Area updated", nil)
}

// DELETE /api/a/areas/:id is a hard delete; tasks and elements underneath
// go with it. Sessions already prepopulated keep their ledger rows.
func (h *AreaController) DeleteArea(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid area id")
	}

	var m model.AreaModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "area_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Area not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load area")
	}

	if err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uuid.UUID
		if err := tx.Model(&model.TaskModel{}).
			Where("task_area_id = ?", id).
			Pluck("task_id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("element_task_id IN ?", taskIDs).
				Delete(&model.ElementModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_area_id = ?", id).
				Delete(&model.TaskModel{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&m).Error
	}); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete area")
	}

	h.invalidate(m.AreaTemplateID)
	return helper.Success(c, "Area deleted", nil)
}

func (h *AreaController) invalidate(templateID uuid.UUID) {
	if h.Hierarchy != nil {
		h.Hierarchy.InvalidateTemplate(templateID)
	}
}
