package controller

import (
	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ToggleFavorite marks or unmarks a property for the caller. The response
// says which way it went.
func ToggleFavorite(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	propertyID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	var favorite model.Favorite
	err = database.GetDB().
		Where("user_id = ? AND property_id = ?", claims.UserID, propertyID).
		First(&favorite).Error

	if err == nil {
		if err := database.GetDB().Unscoped().Delete(&favorite).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not remove favorite",
			})
		}
		return c.JSON(fiber.Map{
			"favorited": false,
		})
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check favorite",
		})
	}

	favorite = model.Favorite{
		UserID:     claims.UserID,
		PropertyID: uint(propertyID),
	}
	if err := database.GetDB().Create(&favorite).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add favorite",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"favorited": true,
	})
}

// ListMyFavorites returns the caller's favorites with listing cards.
func ListMyFavorites(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var favorites []model.Favorite
	if err := database.GetDB().
		Where("user_id = ?", claims.UserID).
		Preload("Property.Area").
		Preload("Property.Category").
		Preload("Property.ActionCategory").
		Preload("Property.Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_photos.display_order ASC")
		}).
		Order("created_at desc").
		Find(&favorites).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch favorites",
		})
	}

	return c.JSON(favorites)
}
