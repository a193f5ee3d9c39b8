package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkride_backend/internals/features/evaluation/sessions/dto"
	"checkride_backend/internals/features/evaluation/sessions/service"
	helper "checkride_backend/internals/helpers"
	"checkride_backend/internals/helpers/errs"
)

type TaskFeedbackController struct {
	DB      *gorm.DB
	Service *service.LifecycleService
}

// PUT /api/u/sessions/:id/tasks/:taskId/feedback
// Upserts the per-task verdict that readiness classifies on.
func (h *TaskFeedbackController) UpsertTaskFeedback(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid task id")
	}

	var req dto.UpsertTaskFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := h.Service.UpsertTaskFeedback(c.UserContext(), sessionID, taskID, req)
	if err != nil {
		return errs.ToFiber(err)
	}
	return helper.Success(c, "Task feedback saved", row)
}
