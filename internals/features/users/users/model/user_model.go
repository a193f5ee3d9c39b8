package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"checkride_backend/internals/constants"
)

// UserModel covers instructors, students and admins in one table.
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null" json:"user_name" validate:"required,min=3,max=50"`
	Email    string    `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Password string    `gorm:"not null" json:"-" validate:"required,min=8"`
	Role     string    `gorm:"type:varchar(20);not null;default:'student'" json:"role" validate:"omitempty,oneof=admin instructor student"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string { return "users" }

// SetDefaultValues fills defaults before validation.
func (u *UserModel) SetDefaultValues() {
	if u.Role == "" {
		u.Role = constants.RoleStudent
	}
}

// BeforeCreate hashes the password when it is not already a bcrypt hash.
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if len(u.Password) > 0 && !isBcrypt(u.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashed)
	}
	return nil
}

// CheckPassword compares a plaintext candidate against the stored hash.
func (u *UserModel) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

func isBcrypt(s string) bool {
	return len(s) == 60 && (s[:4] == "$2a$" || s[:4] == "$2b$" || s[:4] == "$2y$")
}
