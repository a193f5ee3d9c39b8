package details

import (
	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	LedgerRoutes "checkride_backend/internals/features/evaluation/ledger/route"
	ledgerService "checkride_backend/internals/features/evaluation/ledger/service"
	ProgressRoutes "checkride_backend/internals/features/evaluation/progress/route"
	SessionRoutes "checkride_backend/internals/features/evaluation/sessions/route"
	sessionService "checkride_backend/internals/features/evaluation/sessions/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/* ===================== USER (PRIVATE) ===================== */
// The whole evaluation surface is instructor-driven and token scoped; the
// shared services keep the skeleton cache and upsert paths consistent.
func EvaluationUserRoutes(
	r fiber.Router,
	db *gorm.DB,
	hier *hierarchyService.HierarchyService,
	eval *ledgerService.EvaluationService,
	lifecycle *sessionService.LifecycleService,
) {
	SessionRoutes.SessionUserRoutes(r, db, lifecycle)
	LedgerRoutes.LedgerUserRoutes(r, db, eval)
	ProgressRoutes.ProgressUserRoutes(r, db, hier, lifecycle)
}
