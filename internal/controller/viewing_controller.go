package controller

import (
	"log"
	"time"

	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/email"
	"crmestate_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

type ViewingInput struct {
	VisitorName  string    `json:"visitor_name" validate:"required"`
	VisitorPhone string    `json:"visitor_phone" validate:"required"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Note         string    `json:"note"`
}

type ViewingStatusInput struct {
	Status model.ViewingStatus `json:"status" validate:"required"`
}

// CreateViewing files a visit request from the public listing page and
// notifies the listing's agent.
func CreateViewing(c *fiber.Ctx) error {
	propertyID, err := c.ParamsInt("property_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	var property model.Property
	if err := database.GetDB().Preload("User").
		Where("id = ? AND status = ?", propertyID, model.PropertyStatusPublished).
		First(&property).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	input := new(ViewingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	viewing := model.Viewing{
		PropertyID:   uint(propertyID),
		VisitorName:  input.VisitorName,
		VisitorPhone: input.VisitorPhone,
		ScheduledAt:  input.ScheduledAt,
		Note:         input.Note,
		Status:       model.ViewingStatusRequested,
	}

	if err := database.GetDB().Create(&viewing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create viewing request",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendViewingNotification(
			property.User.Email,
			property.Title,
			input.VisitorName,
			input.VisitorPhone,
			input.ScheduledAt,
		)
		if err != nil {
			log.Printf("Could not send viewing notification email: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your viewing request has been sent. The agent will contact you soon.",
	})
}

// ListMyViewings lists viewing requests against the caller's listings,
// optionally narrowed by status or property.
func ListMyViewings(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var viewings []model.Viewing
	query := database.GetDB().
		Joins("JOIN properties ON viewings.property_id = properties.id").
		Where("properties.user_id = ?", claims.UserID).
		Preload("Property")

	if status := c.Query("status"); status != "" {
		query = query.Where("viewings.status = ?", status)
	}

	if propertyID := c.Query("property_id"); propertyID != "" {
		query = query.Where("viewings.property_id = ?", propertyID)
	}

	if err := query.Order("viewings.scheduled_at asc").Find(&viewings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch viewings",
		})
	}

	return c.JSON(viewings)
}

// UpdateViewingStatus moves a request through requested → confirmed → done,
// or cancels it.
func UpdateViewingStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	viewingID := c.Params("id")

	input := new(ViewingStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	switch input.Status {
	case model.ViewingStatusRequested, model.ViewingStatusConfirmed,
		model.ViewingStatusDone, model.ViewingStatusCancelled:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid viewing status",
		})
	}

	var viewing model.Viewing
	if err := database.GetDB().Preload("Property").First(&viewing, viewingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Viewing not found",
		})
	}

	if viewing.Property.UserID != claims.UserID && claims.Role != model.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this viewing",
		})
	}

	if err := database.GetDB().Model(&viewing).Update("status", input.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update viewing",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Viewing updated",
		"status":  input.Status,
	})
}
