package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"checkride_backend/internals/constants"
)

// Locals keys hydrated by the JWT middleware.
const (
	LocUserID = "user_id"
	LocRole   = "role"
	LocClaims = "jwt_claims"
)

// GetUserIDFromToken returns the authenticated user id from locals.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocUserID).(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user id in token")
	}
	return id, nil
}

// GetRoleFromToken returns the role claim ("" when absent).
func GetRoleFromToken(c *fiber.Ctx) string {
	role, _ := c.Locals(LocRole).(string)
	return role
}

// GetInstructorIDFromToken is GetUserIDFromToken restricted to instructors
// (admins pass as well).
func GetInstructorIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, err
	}
	switch GetRoleFromToken(c) {
	case constants.RoleInstructor, constants.RoleAdmin:
		return id, nil
	}
	return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Instructor role required")
}
