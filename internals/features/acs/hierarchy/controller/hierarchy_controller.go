package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkride_backend/internals/features/acs/hierarchy/service"
	sessionModel "checkride_backend/internals/features/evaluation/sessions/model"
	helper "checkride_backend/internals/helpers"
	"checkride_backend/internals/helpers/errs"
)

type HierarchyController struct {
	DB      *gorm.DB
	Service *service.HierarchyService
}

// GET /api/u/sessions/:id/hierarchy?flat=true
// Returns the session-scoped merged tree (or the flattened navigation order).
// A partial hierarchy is served with 200 and a warning, not an error: the
// read path degrades so navigation stays usable.
func (h *HierarchyController) GetSessionHierarchy(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var sess sessionModel.SessionModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&sess, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}

	hierarchy, err := h.Service.BuildSessionHierarchy(c.UserContext(), sess.SessionTemplateID, sessionID)
	if err != nil {
		if pe, ok := errs.AsPartialData(err); ok {
			payload := fiber.Map{"hierarchy": hierarchy, "warning": "Some sections could not be loaded: " + pe.Stage}
			if c.QueryBool("flat") {
				payload = fiber.Map{"elements": service.FlattenElements(hierarchy), "warning": "Some sections could not be loaded: " + pe.Stage}
			}
			return helper.Success(c, "Hierarchy loaded partially", payload)
		}
		return errs.ToFiber(err)
	}

	if c.QueryBool("flat") {
		return helper.Success(c, "Element order loaded", fiber.Map{"elements": service.FlattenElements(hierarchy)})
	}
	return helper.Success(c, "Hierarchy loaded", fiber.Map{"hierarchy": hierarchy})
}

// POST /api/u/sessions/:id/prepopulate
// Re-seeds missing ledger rows after a cold start or a template re-bind.
// Safe to repeat: existing rows are left untouched.
func (h *HierarchyController) PrepopulateSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var sess sessionModel.SessionModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&sess, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}

	if err := h.Service.PrepopulateSessionElements(c.UserContext(), sessionID, sess.SessionTemplateID); err != nil {
		return errs.ToFiber(err)
	}
	return helper.Success(c, "Session elements prepopulated", nil)
}
