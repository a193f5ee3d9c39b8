package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"checkride_backend/internals/configs"
	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
	ledgerService "checkride_backend/internals/features/evaluation/ledger/service"
	sessionService "checkride_backend/internals/features/evaluation/sessions/service"
	authMiddleware "checkride_backend/internals/middlewares/auth"
	routeDetails "checkride_backend/internals/route/details"

	"checkride_backend/internals/constants"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	// ===================== SHARED SERVICES =====================
	// One hierarchy service instance so template mutations invalidate the
	// same skeleton cache the readers hit.
	hier := hierarchyService.NewHierarchyService(
		hierarchyService.NewGormStore(db),
		hierarchyService.NewMemorySkeletonCache(),
	)
	eval := ledgerService.NewEvaluationService(ledgerService.NewGormStore(db))
	lifecycle := sessionService.NewLifecycleService(sessionService.NewGormStore(db), hier, eval)

	// ===================== GROUPS =====================
	log.Println("[INFO] Setting up PRIVATE (user) group...")
	private := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.RequireRole(constants.RoleAdmin, constants.RoleInstructor),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Evaluation routes...")
	routeDetails.EvaluationUserRoutes(private, db, hier, eval, lifecycle)

	log.Println("[INFO] Mounting ACS routes...")
	routeDetails.AcsUserRoutes(private, db, hier)
	routeDetails.AcsAdminRoutes(admin, db, hier)

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UsersAdminRoutes(admin, db)
}
