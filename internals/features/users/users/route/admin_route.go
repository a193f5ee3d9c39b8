package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"checkride_backend/internals/constants"
	userController "checkride_backend/internals/features/users/users/controller"
	authMiddleware "checkride_backend/internals/middlewares/auth"
)

/*
Admin routes: account management. Instructors can read, only admins mutate.

Final paths:
- /api/a/users ...
*/
func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := userController.NewUserController(db)

	users := r.Group("/users")
	users.Get("/", ctl.ListUsers)
	users.Get("/:id", ctl.GetUser)

	// Mutations stay admin only.
	adminOnly := users.Group("", authMiddleware.RequireRole(constants.RoleAdmin))
	adminOnly.Post("/", ctl.CreateUser)
	adminOnly.Patch("/:id", ctl.UpdateUser)
}
