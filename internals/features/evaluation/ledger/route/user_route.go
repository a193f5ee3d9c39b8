package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ledgerController "checkride_backend/internals/features/evaluation/ledger/controller"
	ledgerService "checkride_backend/internals/features/evaluation/ledger/service"
)

/*
User routes: element scoring during a live session.

Final paths:
- PUT  /api/u/sessions/:id/elements/:elementId/evaluation
- PUT  /api/u/sessions/:id/elements/:elementId/score
- POST /api/u/sessions/:id/a2-deficiencies
*/
func LedgerUserRoutes(r fiber.Router, db *gorm.DB, eval *ledgerService.EvaluationService) {
	ctl := &ledgerController.LedgerController{DB: db, Service: eval}

	sessions := r.Group("/sessions")
	sessions.Put("/:id/elements/:elementId/evaluation", ctl.SaveElementEvaluation)
	sessions.Put("/:id/elements/:elementId/score", ctl.SaveElementScore)
	sessions.Post("/:id/a2-deficiencies", ctl.SetA2Deficiencies)
}
