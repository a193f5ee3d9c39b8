package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkride_backend/internals/features/acs/templates/dto"
	"checkride_backend/internals/features/acs/templates/model"
	helper "checkride_backend/internals/helpers"
	helperAuth "checkride_backend/internals/helpers/auth"
)

var validate = validator.New()

type TemplateController struct {
	DB *gorm.DB
}

// POST /api/a/templates
func (h *TemplateController) CreateTemplate(c *fiber.Ctx) error {
	instructorID, err := helperAuth.GetInstructorIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	req.InstructorID = instructorID
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create template")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Template created", dto.FromTemplateModel(m))
}

// GET /api/u/templates lists templates visible to the caller, paginated.
func (h *TemplateController) ListTemplates(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	q := h.DB.WithContext(c.UserContext()).Model(&model.TemplateModel{})
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count templates")
	}

	var rows []model.TemplateModel
	if err := q.Order("template_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list templates")
	}

	out := make([]dto.TemplateResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.FromTemplateModel(m))
	}
	return helper.Success(c, "Templates loaded", fiber.Map{
		"templates":  out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

// GET /api/u/templates/:id
func (h *TemplateController) GetTemplate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid template id")
	}
	var m model.TemplateModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "template_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Template not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load template")
	}
	return helper.Success(c, "Template loaded", dto.FromTemplateModel(m))
}

// PATCH /api/a/templates/:id
func (h *TemplateController) UpdateTemplate(c *fiber.Ctx) error {
	m, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	var req dto.PatchTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["template_name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["template_description"] = *req.Description
	}
	if req.Rating != nil {
		fields["template_rating"] = *req.Rating
	}
	if len(fields) > 0 {
		if err := h.DB.WithContext(c.UserContext()).
			Model(&model.TemplateModel{}).
			Where("template_id = ?", m.TemplateID).
			Updates(fields).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update template")
		}
	}

	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "template_id = ?", m.TemplateID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reload template")
	}
	return helper.Success(c, "Template updated", dto.FromTemplateModel(m))
}

// DELETE /api/a/templates/:id is a soft delete. Existing sessions keep their
// (immutable) binding: reads resolve the template through the unscoped query
// only in the merge path, so a deleted template stops appearing in listings
// but live sessions stay readable until they complete.
func (h *TemplateController) DeleteTemplate(c *fiber.Ctx) error {
	m, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete template")
	}
	return helper.Success(c, "Template deleted", nil)
}

// ownedTemplate loads the template and enforces instructor ownership
// (admins pass).
func (h *TemplateController) ownedTemplate(c *fiber.Ctx) (model.TemplateModel, error) {
	instructorID, err := helperAuth.GetInstructorIDFromToken(c)
	if err != nil {
		return model.TemplateModel{}, err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return model.TemplateModel{}, fiber.NewError(fiber.StatusBadRequest, "Invalid template id")
	}
	var m model.TemplateModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "template_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.TemplateModel{}, fiber.NewError(fiber.StatusNotFound, "Template not found")
		}
		return model.TemplateModel{}, fiber.NewError(fiber.StatusInternalServerError, "Failed to load template")
	}
	if m.TemplateInstructorID != instructorID && helperAuth.GetRoleFromToken(c) != "admin" {
		return model.TemplateModel{}, fiber.NewError(fiber.StatusForbidden, "Not your template")
	}
	return m, nil
}
