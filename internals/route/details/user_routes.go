package details

import (
	UserRoutes "checkride_backend/internals/features/users/users/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/* ===================== ADMIN ===================== */
// Account management for the admin console.
func UsersAdminRoutes(r fiber.Router, db *gorm.DB) {
	UserRoutes.UserAdminRoutes(r, db)
}
