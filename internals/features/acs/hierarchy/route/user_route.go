package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	hierarchyController "checkride_backend/internals/features/acs/hierarchy/controller"
	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
)

/*
User routes: session-scoped reads of the merged template tree.

Final paths:
- GET  /api/u/sessions/:id/hierarchy (?flat=true for the navigation order)
- POST /api/u/sessions/:id/prepopulate
*/
func HierarchyUserRoutes(r fiber.Router, db *gorm.DB, hier *hierarchyService.HierarchyService) {
	ctl := &hierarchyController.HierarchyController{DB: db, Service: hier}

	sessions := r.Group("/sessions")
	sessions.Get("/:id/hierarchy", ctl.GetSessionHierarchy)
	sessions.Post("/:id/prepopulate", ctl.PrepopulateSession)
}
