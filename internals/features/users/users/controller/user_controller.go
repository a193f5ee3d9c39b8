package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkride_backend/internals/features/users/users/dto"
	"checkride_backend/internals/features/users/users/model"
	helper "checkride_backend/internals/helpers"
)

var validate = validator.New()

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// CreateUser registers a new account. Admin only.
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user := req.ToModel()
	user.SetDefaultValues()

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.UserModel{}).
			Where("email = ?", user.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Email already registered")
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.Error(c, fe.Code, fe.Message)
		}
		log.Printf("[ERROR] create user: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "User created", dto.FromModel(user))
}

// ListUsers returns accounts with pagination. Admin only.
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	query := ctrl.DB.Model(&model.UserModel{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count users: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list users")
	}

	var users []model.UserModel
	if err := query.
		Order("created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&users).Error; err != nil {
		log.Printf("[ERROR] list users: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list users")
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromModel(u))
	}

	return helper.Success(c, "Users fetched", fiber.Map{
		"users":      out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

// GetUser returns one account by id.
func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "User not found")
		}
		log.Printf("[ERROR] get user: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch user")
	}

	return helper.Success(c, "User fetched", dto.FromModel(user))
}

// UpdateUser patches name, role or active flag. Admin only.
func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.PatchUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.UserName != nil {
		updates["user_name"] = *req.UserName
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "No fields to update")
	}

	res := ctrl.DB.Model(&model.UserModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		log.Printf("[ERROR] update user: %v", res.Error)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update user")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", id).Error; err != nil {
		log.Printf("[ERROR] reload user: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch user")
	}

	return helper.Success(c, "User updated", dto.FromModel(user))
}
