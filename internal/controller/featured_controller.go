package controller

import (
	"errors"

	"crmestate_backend/internal/model"
	"crmestate_backend/internal/service/featured"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/errs"
	"crmestate_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssignFeaturedInput struct {
	PropertyID   uint `json:"property_id" validate:"required"`
	DisplayOrder int  `json:"display_order" validate:"required,min=1,max=5"`
}

type ReorderFeaturedInput struct {
	DisplayOrder int `json:"display_order" validate:"required,min=1,max=5"`
}

func featuredManager() *featured.Manager {
	return featured.NewManager(database.GetDB())
}

// ListFeatured returns the pool for the back-office panel, including the
// orders still free for assignment.
func ListFeatured(c *fiber.Ctx) error {
	manager := featuredManager()

	listings, err := manager.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch featured slots",
		})
	}

	free, err := manager.FreeOrders()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not compute free orders",
		})
	}

	return c.JSON(fiber.Map{
		"slots":       listings,
		"free_orders": free,
	})
}

// AssignFeatured puts a published property into a free slot.
func AssignFeatured(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(AssignFeaturedInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var property model.Property
	if err := database.GetDB().
		Where("id = ? AND status = ?", input.PropertyID, model.PropertyStatusPublished).
		First(&property).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Published property not found",
		})
	}

	slot, err := featuredManager().Assign(input.PropertyID, input.DisplayOrder, claims.UserID)
	if err != nil {
		return featuredError(c, err)
	}

	auditQuietly(claims.UserID, model.AuditFeaturedAssigned, "featured_slot", slot.ID,
		map[string]interface{}{"property_id": input.PropertyID, "display_order": input.DisplayOrder})

	return c.Status(fiber.StatusCreated).JSON(slot)
}

// ReorderFeatured moves a slot, swapping with the displaced slot if the
// target order is taken.
func ReorderFeatured(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	slotID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot ID",
		})
	}

	input := new(ReorderFeaturedInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := featuredManager().Reorder(uint(slotID), input.DisplayOrder); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Featured slot not found",
			})
		}
		return featuredError(c, err)
	}

	auditQuietly(claims.UserID, model.AuditFeaturedReordered, "featured_slot", uint(slotID),
		map[string]interface{}{"display_order": input.DisplayOrder})

	return c.JSON(fiber.Map{
		"message": "Slot reordered",
	})
}

// RemoveFeatured takes a property off the landing page. Removing an already
// removed slot succeeds.
func RemoveFeatured(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	slotID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot ID",
		})
	}

	if err := featuredManager().Remove(uint(slotID)); err != nil {
		return featuredError(c, err)
	}

	auditQuietly(claims.UserID, model.AuditFeaturedRemoved, "featured_slot", uint(slotID), nil)

	return c.SendStatus(fiber.StatusNoContent)
}

// featuredError maps the slot manager's taxonomy onto HTTP statuses.
func featuredError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errs.ErrCapacityExceeded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "All five featured slots are occupied",
		})
	case errs.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Slot order or property already in use",
		})
	default:
		var pf *errs.PartialReorderFailure
		if errors.As(err, &pf) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":           "Reorder could not be completed",
				"last_known_good": pf.LastKnownGood,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
