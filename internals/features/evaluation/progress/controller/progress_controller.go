package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	"checkride_backend/internals/features/evaluation/progress/service"
	sessionModel "checkride_backend/internals/features/evaluation/sessions/model"
	sessionService "checkride_backend/internals/features/evaluation/sessions/service"
	helper "checkride_backend/internals/helpers"
	"checkride_backend/internals/helpers/errs"
)

type ProgressController struct {
	DB        *gorm.DB
	Hierarchy *hierarchyService.HierarchyService
	Sessions  *sessionService.LifecycleService
}

// GET /api/u/sessions/:id/progress
// Recomputes the completion summary from the merged hierarchy. A partial
// hierarchy gives an honest (lower) count rather than an error.
func (h *ProgressController) GetProgress(c *fiber.Ctx) error {
	sess, err := h.loadSession(c)
	if err != nil {
		return err
	}

	hierarchy, err := h.Hierarchy.BuildSessionHierarchy(c.UserContext(), sess.SessionTemplateID, sess.SessionID)
	if err != nil {
		if _, ok := errs.AsPartialData(err); !ok {
			return errs.ToFiber(err)
		}
	}
	return helper.Success(c, "Progress computed", service.ComputeProgress(hierarchy))
}

// GET /api/u/sessions/:id/readiness
// Classifies checkride readiness from the stored task feedback tags.
func (h *ProgressController) GetReadiness(c *fiber.Ctx) error {
	sess, err := h.loadSession(c)
	if err != nil {
		return err
	}

	tags, err := h.Sessions.FeedbackTags(c.UserContext(), sess.SessionID)
	if err != nil {
		return errs.ToFiber(err)
	}
	return helper.Success(c, "Readiness computed", service.ComputeReadiness(tags))
}

func (h *ProgressController) loadSession(c *fiber.Ctx) (sessionModel.SessionModel, error) {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return sessionModel.SessionModel{}, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	var sess sessionModel.SessionModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&sess, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sessionModel.SessionModel{}, fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return sessionModel.SessionModel{}, fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}
	return sess, nil
}
