package middleware

import (
	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

// CheckPropertyAccess allows the creator, assigned collaborators and
// administrators through; everyone else gets 403. Soft-deleted rows are
// still reachable here so the trash actions can run.
func CheckPropertyAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		propertyID := c.Params("id")

		var property model.Property
		if err := database.DB.Unscoped().Preload("Collaborators").
			First(&property, propertyID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}

		if !CanManageProperty(&property, claims) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this property",
			})
		}

		return c.Next()
	}
}

// CanManageProperty is the single creator/collaborator/admin rule; owner
// contact visibility uses the same predicate.
func CanManageProperty(p *model.Property, claims *jwt.Claims) bool {
	if claims.Role == model.RoleAdmin {
		return true
	}
	if p.UserID == claims.UserID {
		return true
	}
	for _, collaborator := range p.Collaborators {
		if collaborator.ID == claims.UserID {
			return true
		}
	}
	return false
}
