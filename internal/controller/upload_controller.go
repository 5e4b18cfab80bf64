package controller

import (
	"log"

	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/utils/image"
	"crmestate_backend/pkg/utils/storage"
	"crmestate_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const MaxPropertyPhotos = 16

// UploadPropertyPhoto re-encodes and stores one photo, appending it at the
// end of the display order. The first photo becomes the primary.
func UploadPropertyPhoto(c *fiber.Ctx) error {
	propertyID := c.Params("id")

	var property model.Property
	if err := database.GetDB().First(&property, propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	var photoCount int64
	database.GetDB().Model(&model.PropertyPhoto{}).
		Where("property_id = ?", property.ID).
		Count(&photoCount)

	if photoCount >= MaxPropertyPhotos {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Maximum photo limit reached (16)",
		})
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	buf, contentType, err := image.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	key := storage.PhotoKey(property.Slug, file.Filename+".webp")
	url, err := storage.Upload(key, buf, contentType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload photo",
		})
	}

	photo := model.PropertyPhoto{
		PropertyID:   property.ID,
		URL:          url,
		DisplayOrder: int(photoCount),
		IsPrimary:    photoCount == 0,
	}

	if err := database.GetDB().Create(&photo).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save photo record",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Photo uploaded successfully",
		"photo":   photo,
	})
}

// DeletePropertyPhoto removes one photo from storage and the record set,
// then closes the display-order gap so the lowest order still marks the
// primary photo.
func DeletePropertyPhoto(c *fiber.Ctx) error {
	photoID := c.Params("photo_id")
	propertyID := c.Params("id")

	var photo model.PropertyPhoto
	if err := database.GetDB().
		Where("property_id = ?", propertyID).
		First(&photo, photoID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Photo not found",
		})
	}

	if err := storage.Delete(photo.URL); err != nil {
		log.Printf("Could not delete photo object: %v", err)
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&photo).Error; err != nil {
			return err
		}
		return resequencePhotos(tx, photo.PropertyID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete photo",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type PhotoOrderInput struct {
	PhotoIDs []uint `json:"photo_ids" validate:"required"`
}

// ReorderPropertyPhotos rewrites the display order to match the submitted
// id sequence; the first id becomes the primary photo.
func ReorderPropertyPhotos(c *fiber.Ctx) error {
	propertyID := c.Params("id")

	input := new(PhotoOrderInput)
	if err := c.BodyParser(input); err != nil || len(input.PhotoIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var photos []model.PropertyPhoto
	if err := database.GetDB().Where("property_id = ?", propertyID).
		Find(&photos).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch photos",
		})
	}
	if len(input.PhotoIDs) != len(photos) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Photo list does not match the property's photos",
		})
	}

	known := make(map[uint]bool, len(photos))
	for _, p := range photos {
		known[p.ID] = true
	}
	for _, id := range input.PhotoIDs {
		if !known[id] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Photo list does not match the property's photos",
			})
		}
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		for i, id := range input.PhotoIDs {
			if err := tx.Model(&model.PropertyPhoto{}).Where("id = ?", id).
				Updates(map[string]interface{}{
					"display_order": i,
					"is_primary":    i == 0,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reorder photos",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Photos reordered",
	})
}

// resequencePhotos packs display orders back to 0..n-1 and re-flags the
// primary photo.
func resequencePhotos(tx *gorm.DB, propertyID uint) error {
	var photos []model.PropertyPhoto
	if err := tx.Where("property_id = ?", propertyID).
		Order("display_order ASC").Find(&photos).Error; err != nil {
		return err
	}
	for i := range photos {
		if err := tx.Model(&photos[i]).Updates(map[string]interface{}{
			"display_order": i,
			"is_primary":    i == 0,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
