package details

import (
	HierarchyRoutes "checkride_backend/internals/features/acs/hierarchy/route"
	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	TemplateRoutes "checkride_backend/internals/features/acs/templates/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/* ===================== USER (PRIVATE) ===================== */
// Session-scoped hierarchy reads (any authenticated role).
func AcsUserRoutes(r fiber.Router, db *gorm.DB, hier *hierarchyService.HierarchyService) {
	HierarchyRoutes.HierarchyUserRoutes(r, db, hier)
}

/* ===================== ADMIN ===================== */
// Template authoring (instructor/admin token).
func AcsAdminRoutes(r fiber.Router, db *gorm.DB, hier *hierarchyService.HierarchyService) {
	TemplateRoutes.TemplateAdminRoutes(r, db, hier)
}
