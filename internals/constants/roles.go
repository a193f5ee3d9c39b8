package constants

// Global user roles.
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// AllowedRoles is the whitelist used by user CRUD validation.
var AllowedRoles = []string{RoleAdmin, RoleInstructor, RoleStudent}
