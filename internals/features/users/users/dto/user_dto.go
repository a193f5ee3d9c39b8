package dto

import (
	"time"

	"github.com/google/uuid"

	"checkride_backend/internals/features/users/users/model"
)

type CreateUserRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin instructor student"`
}

func (r CreateUserRequest) ToModel() model.UserModel {
	return model.UserModel{
		UserName: r.UserName,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
}

type PatchUserRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin instructor student"`
	IsActive *bool   `json:"is_active" validate:"omitempty"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(m model.UserModel) UserResponse {
	return UserResponse{
		ID:        m.ID,
		UserName:  m.UserName,
		Email:     m.Email,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
