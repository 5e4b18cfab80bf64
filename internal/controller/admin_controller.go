package controller

import (
	"log"

	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/email"
	"crmestate_backend/pkg/filter"
	"crmestate_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserInput struct {
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	FullName string         `json:"full_name" validate:"required"`
	Phone    string         `json:"phone"`
	Role     model.UserRole `json:"role" validate:"required"`
}

type RoleInput struct {
	Role model.UserRole `json:"role" validate:"required"`
}

// CreateUser provisions an account on behalf of an administrator. The auth
// row is created first; if the rest of the provisioning fails the row is
// removed again so no half-provisioned identity is left behind.
func CreateUser(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(CreateUserInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if input.Email == "" || input.Password == "" || input.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email, password and full_name are required",
		})
	}
	if input.Role != model.RoleAdmin && input.Role != model.RoleAgent {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Role must be admin or agent",
		})
	}

	var existing model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash password",
		})
	}

	user := model.User{
		Email:    input.Email,
		Password: string(hashedPassword),
		Username: uniqueUsername(input.FullName),
		FullName: input.FullName,
		Phone:    input.Phone,
		Role:     input.Role,
	}

	if err := database.GetDB().Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create user",
		})
	}

	// Provisioning after the auth row; on failure remove the row again.
	if err := model.RecordAudit(database.GetDB(), claims.UserID, model.AuditUserCreated,
		"user", user.ID, map[string]interface{}{
			"email": user.Email,
			"role":  user.Role,
		}); err != nil {
		if delErr := database.GetDB().Unscoped().Delete(&user).Error; delErr != nil {
			log.Printf("Compensating delete of user %d failed: %v", user.ID, delErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete user provisioning",
		})
	}

	if email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendWelcomeEmail(user.Email, user.FullName); err != nil {
			log.Printf("Could not send welcome email: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user.GetPublicProfile(),
	})
}

// DeleteUser de-provisions an account: favorites and collaborator links go,
// the user's listings are soft-deleted for later reassignment, then the
// account itself is removed. One transaction, so a failed step restores
// everything.
func DeleteUser(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	userID := c.Params("id")

	var user model.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if user.ID == claims.UserID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot delete your own account",
		})
	}

	tx := database.GetDB().Begin()

	if err := tx.Unscoped().Where("user_id = ?", user.ID).
		Delete(&model.Favorite{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove user's favorites",
		})
	}

	if err := tx.Exec("DELETE FROM property_collaborators WHERE user_id = ?", user.ID).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove collaborator links",
		})
	}

	actor := claims.UserID
	if err := tx.Model(&model.Property{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]interface{}{
			"status":     model.PropertyStatusDeleted,
			"deleted_by": actor,
			"deleted_at": tx.NowFunc(),
		}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retire user's listings",
		})
	}

	if err := tx.Unscoped().Delete(&user).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete user",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete user deletion",
		})
	}

	auditQuietly(claims.UserID, model.AuditUserDeleted, "user", user.ID,
		map[string]interface{}{"email": user.Email})

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// ListUsers pages through accounts for the admin panel.
func ListUsers(c *fiber.Ctx) error {
	var total int64
	if err := database.GetDB().Model(&model.User{}).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch users",
		})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	var users []model.User
	if err := database.GetDB().
		Order("created_at desc").
		Limit(filter.PageSizeReference).
		Offset((page - 1) * filter.PageSizeReference).
		Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch users",
		})
	}

	profiles := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].GetPublicProfile())
	}

	return c.JSON(fiber.Map{
		"users":       profiles,
		"total":       total,
		"page":        page,
		"total_pages": filter.TotalPages(int(total), filter.PageSizeReference),
	})
}

// UpdateUserRole promotes or demotes an account.
func UpdateUserRole(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	userID := c.Params("id")

	input := new(RoleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if input.Role != model.RoleAdmin && input.Role != model.RoleAgent {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Role must be admin or agent",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	oldRole := user.Role
	if err := database.GetDB().Model(&user).Update("role", input.Role).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update role",
		})
	}

	auditQuietly(claims.UserID, model.AuditUserRoleChanged, "user", user.ID,
		map[string]interface{}{"from": oldRole, "to": input.Role})

	return c.JSON(fiber.Map{
		"message": "Role updated",
		"user":    user.GetPublicProfile(),
	})
}

// ListAudit pages through the audit trail, newest first, optionally
// narrowed by action or actor.
func ListAudit(c *fiber.Ctx) error {
	query := database.GetDB().Model(&model.AuditLog{})

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if actor := c.Query("actor_id"); actor != "" {
		query = query.Where("actor_id = ?", actor)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch audit trail",
		})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	var entries []model.AuditLog
	if err := query.
		Order("created_at desc").
		Limit(filter.PageSizeReference).
		Offset((page - 1) * filter.PageSizeReference).
		Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch audit trail",
		})
	}

	return c.JSON(fiber.Map{
		"entries":     entries,
		"total":       total,
		"page":        page,
		"total_pages": filter.TotalPages(int(total), filter.PageSizeReference),
	})
}
