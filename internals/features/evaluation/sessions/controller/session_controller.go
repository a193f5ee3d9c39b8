package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkride_backend/internals/features/evaluation/sessions/dto"
	"checkride_backend/internals/features/evaluation/sessions/service"
	helper "checkride_backend/internals/helpers"
	helperAuth "checkride_backend/internals/helpers/auth"
	"checkride_backend/internals/helpers/errs"
)

var validate = validator.New()

type SessionController struct {
	DB      *gorm.DB
	Service *service.LifecycleService
}

// POST /api/u/sessions
// Creates the session and seeds its ledger. Prepopulation failure degrades
// to a warning in the response body, never a hard failure.
func (h *SessionController) CreateSession(c *fiber.Ctx) error {
	instructorID, err := helperAuth.GetInstructorIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, warning, err := h.Service.CreateSession(c.UserContext(), instructorID, req)
	if err != nil {
		return errs.ToFiber(err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Session created", dto.CreateSessionResponse{
		Session: dto.FromModel(m),
		Warning: warning,
	})
}

// GET /api/u/sessions lists the instructor's sessions, newest first.
func (h *SessionController) ListSessions(c *fiber.Ctx) error {
	instructorID, err := helperAuth.GetInstructorIDFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)
	sessions, total, err := h.Service.ListSessions(c.UserContext(), instructorID, paging.Offset, paging.Limit)
	if err != nil {
		return errs.ToFiber(err)
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, m := range sessions {
		out = append(out, dto.FromModel(m))
	}
	return helper.Success(c, "Sessions loaded", fiber.Map{
		"sessions":   out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

// GET /api/u/sessions/:id
func (h *SessionController) GetSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	m, err := h.Service.GetSession(c.UserContext(), sessionID)
	if err != nil {
		return errs.ToFiber(err)
	}
	return helper.Success(c, "Session loaded", dto.FromModel(m))
}

// PATCH /api/u/sessions/:id patches name, notes and scenario only. The
// template binding is immutable after creation.
func (h *SessionController) UpdateSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var req dto.PatchSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := h.Service.UpdateSession(c.UserContext(), sessionID, req)
	if err != nil {
		return errs.ToFiber(err)
	}
	return helper.Success(c, "Session updated", dto.FromModel(m))
}

// POST /api/u/sessions/:id/complete closes the session and persists the
// report snapshot.
func (h *SessionController) CompleteSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	m, err := h.Service.CompleteSession(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyCompleted) {
			return fiber.NewError(fiber.StatusConflict, "Session already completed")
		}
		return errs.ToFiber(err)
	}
	return helper.Success(c, "Session completed", dto.FromModel(m))
}
