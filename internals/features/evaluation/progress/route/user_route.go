package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	progressController "checkride_backend/internals/features/evaluation/progress/controller"
	sessionService "checkride_backend/internals/features/evaluation/sessions/service"
)

/*
User routes: derived progress and readiness reads.

Final paths:
- GET /api/u/sessions/:id/progress
- GET /api/u/sessions/:id/readiness
*/
func ProgressUserRoutes(r fiber.Router, db *gorm.DB, hier *hierarchyService.HierarchyService, lifecycle *sessionService.LifecycleService) {
	ctl := &progressController.ProgressController{DB: db, Hierarchy: hier, Sessions: lifecycle}

	sessions := r.Group("/sessions")
	sessions.Get("/:id/progress", ctl.GetProgress)
	sessions.Get("/:id/readiness", ctl.GetReadiness)
}
