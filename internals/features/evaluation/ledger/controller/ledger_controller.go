package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkride_backend/internals/features/evaluation/ledger/dto"
	"checkride_backend/internals/features/evaluation/ledger/service"
	helper "checkride_backend/internals/helpers"
	"checkride_backend/internals/helpers/errs"
)

var validate = validator.New()

type LedgerController struct {
	DB      *gorm.DB
	Service *service.EvaluationService
}

// PUT /api/u/sessions/:id/elements/:elementId/evaluation
// Scores one element. The response carries the server-derived status so the
// UI patches with confirmed data. A failed write is reported per element;
// nothing is retried silently.
func (h *LedgerController) SaveElementEvaluation(c *fiber.Ctx) error {
	sessionID, elementID, err := pathIDs(c)
	if err != nil {
		return err
	}

	var req dto.SaveEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := h.Service.SaveElementEvaluation(c.UserContext(), sessionID, elementID, req)
	if err != nil {
		return evaluationError(c, elementID, err)
	}
	return helper.Success(c, "Evaluation saved", result)
}

// PUT /api/u/sessions/:id/elements/:elementId/score
// Rubric score path (1–4); leaves the performance status untouched.
func (h *LedgerController) SaveElementScore(c *fiber.Ctx) error {
	sessionID, elementID, err := pathIDs(c)
	if err != nil {
		return err
	}

	var req dto.SaveScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := h.Service.SaveElementScore(c.UserContext(), sessionID, elementID, req)
	if err != nil {
		return evaluationError(c, elementID, err)
	}
	return helper.Success(c, "Score saved", result)
}

// POST /api/u/sessions/:id/a2-deficiencies
// Bulk-flags written-test deficiency elements for highlighting/reporting.
func (h *LedgerController) SetA2Deficiencies(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var req dto.SetA2DeficienciesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := h.Service.SetA2Deficiencies(c.UserContext(), sessionID, req.ElementIDs); err != nil {
		return errs.ToFiber(err)
	}
	return helper.Success(c, "Deficiency flags set", fiber.Map{"flagged": len(req.ElementIDs)})
}

func pathIDs(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	elementID, err := uuid.Parse(c.Params("elementId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid element id")
	}
	return sessionID, elementID, nil
}

// evaluationError shapes a ledger-write failure so the UI can show the retry
// affordance next to the affected element.
func evaluationError(c *fiber.Ctx, elementID uuid.UUID, err error) error {
	var pe *errs.PersistenceError
	code := fiber.StatusBadRequest
	if errors.As(err, &pe) {
		code = fiber.StatusInternalServerError
	}
	return helper.ErrorWithDetails(c, code, "Save failed", fiber.Map{
		"element_id": elementID,
		"error":      err.Error(),
	})
}
