package controller

import (
	"log"

	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/filter"
	"crmestate_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PropertyInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`

	CategoryID       uint  `json:"category_id" validate:"required"`
	SubcategoryID    *uint `json:"subcategory_id"`
	ActionCategoryID uint  `json:"action_category_id" validate:"required"`
	ConditionID      *uint `json:"condition_id"`
	ProposalID       *uint `json:"proposal_id"`
	AreaID           *uint `json:"area_id"`
	DeveloperID      *uint `json:"developer_id"`

	Rooms   model.RoomCount `json:"rooms"`
	Size    *float64        `json:"size"`
	LotSize *float64        `json:"lot_size"`

	Price        float64        `json:"price" validate:"required,min=0"`
	Currency     model.Currency `json:"currency" validate:"required"`
	ExchangeRate *float64       `json:"exchange_rate"`

	OwnerName    string `json:"owner_name"`
	OwnerContact string `json:"owner_contact"`
}

type StatusInput struct {
	Status model.PropertyStatus `json:"status" validate:"required"`
}

func validBrowsableStatus(s model.PropertyStatus) bool {
	for _, b := range model.BrowsableStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// propertyPreloads attaches every joined lookup plus the ordered photo set.
func propertyPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Subcategory").
		Preload("ActionCategory").
		Preload("Condition").
		Preload("Proposal").
		Preload("Area").
		Preload("Developer").
		Preload("Collaborators").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_photos.display_order ASC")
		})
}

// CreateProperty creates a new listing owned by the caller. The property
// number and slug are assigned in the model's BeforeCreate hook.
func CreateProperty(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(PropertyInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Price must not be negative",
		})
	}

	property := model.Property{
		UserID:           claims.UserID,
		Title:            input.Title,
		Description:      input.Description,
		CategoryID:       input.CategoryID,
		SubcategoryID:    input.SubcategoryID,
		ActionCategoryID: input.ActionCategoryID,
		ConditionID:      input.ConditionID,
		ProposalID:       input.ProposalID,
		AreaID:           input.AreaID,
		DeveloperID:      input.DeveloperID,
		Rooms:            input.Rooms,
		Size:             input.Size,
		LotSize:          input.LotSize,
		Price:            input.Price,
		Currency:         input.Currency,
		ExchangeRate:     input.ExchangeRate,
		OwnerName:        input.OwnerName,
		OwnerContact:     input.OwnerContact,
		Status:           model.PropertyStatusPublished,
	}

	if err := database.GetDB().Create(&property).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Property number collision, please retry",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create property",
		})
	}

	propertyPreloads(database.GetDB()).First(&property, property.ID)

	return c.Status(fiber.StatusCreated).JSON(property)
}

// UpdateProperty rewrites the listing fields. Property number, slug, creator
// and lifecycle status are not touched here.
func UpdateProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(PropertyInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	updates := map[string]interface{}{
		"title":              input.Title,
		"description":        input.Description,
		"category_id":        input.CategoryID,
		"subcategory_id":     input.SubcategoryID,
		"action_category_id": input.ActionCategoryID,
		"condition_id":       input.ConditionID,
		"proposal_id":        input.ProposalID,
		"area_id":            input.AreaID,
		"developer_id":       input.DeveloperID,
		"rooms":              input.Rooms,
		"size":               input.Size,
		"lot_size":           input.LotSize,
		"price":              input.Price,
		"currency":           input.Currency,
		"exchange_rate":      input.ExchangeRate,
		"owner_name":         input.OwnerName,
		"owner_contact":      input.OwnerContact,
	}

	if err := database.GetDB().Model(&property).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update property",
		})
	}

	propertyPreloads(database.GetDB()).First(&property, property.ID)

	return c.JSON(property)
}

// ListProperties is the back-office listing: all browsable records, filter
// criteria from the query string, fixed 12-per-page windows.
func ListProperties(c *fiber.Ctx) error {
	var properties []model.Property
	if err := propertyPreloads(database.GetDB()).
		Where("status IN ?", model.BrowsableStatuses).
		Order("created_at desc").
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	criteria := criteriaFromQuery(c)
	filtered := filter.Apply(properties, criteria)

	page := c.QueryInt("page", 1)
	return c.JSON(fiber.Map{
		"properties":  filter.Page(filtered, page, filter.PageSizeListings),
		"total":       len(filtered),
		"page":        page,
		"total_pages": filter.TotalPages(len(filtered), filter.PageSizeListings),
	})
}

// ListMyProperties lists the caller's own records, browsable statuses only.
func ListMyProperties(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var properties []model.Property
	if err := propertyPreloads(database.GetDB()).
		Where("user_id = ? AND status IN ?", claims.UserID, model.BrowsableStatuses).
		Order("created_at desc").
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	return c.JSON(properties)
}

// GetProperty returns a single listing with owner contacts, for holders of
// management access (the ACL middleware runs before this).
func GetProperty(c *fiber.Ctx) error {
	id := c.Params("id")

	var property model.Property
	if err := propertyPreloads(database.GetDB().Unscoped()).First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	return c.JSON(property)
}

// ChangePropertyStatus moves a listing between published / no_ads / sold.
// Soft delete has its own endpoint so the audit trail can tell them apart.
func ChangePropertyStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")
	input := new(StatusInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if !validBrowsableStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be one of published, no_ads, sold",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	oldStatus := property.Status
	if err := database.GetDB().Model(&property).Update("status", input.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update status",
		})
	}

	auditQuietly(claims.UserID, model.AuditPropertyStatusChanged, "property", property.ID,
		map[string]interface{}{"from": oldStatus, "to": input.Status})

	return c.JSON(fiber.Map{
		"message": "Status updated",
		"status":  input.Status,
	})
}

// SoftDeleteProperty hides the listing from every public and duty-roster
// query while keeping it restorable from the trash view.
func SoftDeleteProperty(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	tx := database.GetDB().Begin()

	actor := claims.UserID
	if err := tx.Model(&property).Updates(map[string]interface{}{
		"status":     model.PropertyStatusDeleted,
		"deleted_by": actor,
	}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property",
		})
	}

	if err := tx.Delete(&property).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property",
		})
	}

	// The featured pool does not cascade; drop the slot alongside.
	if err := tx.Where("property_id = ?", property.ID).
		Delete(&model.FeaturedSlot{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not release featured slot",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete deletion",
		})
	}

	auditQuietly(claims.UserID, model.AuditPropertySoftDeleted, "property", property.ID, nil)

	return c.SendStatus(fiber.StatusNoContent)
}

// ListTrash shows soft-deleted listings, admins see all, agents their own.
func ListTrash(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	query := propertyPreloads(database.GetDB().Unscoped()).
		Where("deleted_at IS NOT NULL")
	if claims.Role != model.RoleAdmin {
		query = query.Where("user_id = ?", claims.UserID)
	}

	var properties []model.Property
	if err := query.Order("deleted_at desc").Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch deleted properties",
		})
	}

	page := c.QueryInt("page", 1)
	return c.JSON(fiber.Map{
		"properties":  filter.Page(properties, page, filter.PageSizeListings),
		"total":       len(properties),
		"page":        page,
		"total_pages": filter.TotalPages(len(properties), filter.PageSizeListings),
	})
}

// RestoreProperty brings a soft-deleted listing back as no_ads so it can be
// reviewed before republishing.
func RestoreProperty(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().Unscoped().First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}
	if !property.DeletedAt.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Property is not deleted",
		})
	}

	if err := database.GetDB().Unscoped().Model(&property).Updates(map[string]interface{}{
		"deleted_at": nil,
		"deleted_by": nil,
		"status":     model.PropertyStatusNoAds,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not restore property",
		})
	}

	auditQuietly(claims.UserID, model.AuditPropertyRestored, "property", property.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Property restored",
	})
}

// PurgeProperty permanently removes a soft-deleted listing and its photos.
// Admin only; the route table enforces the role.
func PurgeProperty(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().Unscoped().Preload("Photos").First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}
	if !property.DeletedAt.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only soft-deleted properties can be permanently removed",
		})
	}

	if err := purgePropertyRow(database.GetDB(), &property); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property permanently",
		})
	}

	auditQuietly(claims.UserID, model.AuditPropertyPurged, "property", property.ID,
		map[string]interface{}{"property_number": property.PropertyNumber})

	return c.SendStatus(fiber.StatusNoContent)
}

// purgePropertyRow drops the row and its dependents; shared with the trash
// purge cron.
func purgePropertyRow(db *gorm.DB, property *model.Property) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("property_id = ?", property.ID).
			Delete(&model.PropertyPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", property.ID).
			Delete(&model.FeaturedSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("property_id = ?", property.ID).
			Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(property).Error
	})
}

type CollaboratorInput struct {
	UserID uint `json:"user_id" validate:"required"`
}

// AddCollaborator grants another user the creator's access to the listing.
func AddCollaborator(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(CollaboratorInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, input.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := database.GetDB().Model(&property).
		Association("Collaborators").Append(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add collaborator",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Collaborator added",
	})
}

// RemoveCollaborator revokes collaborator access.
func RemoveCollaborator(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Params("user_id")

	var property model.Property
	if err := database.GetDB().First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := database.GetDB().Model(&property).
		Association("Collaborators").Delete(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove collaborator",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Collaborator removed",
	})
}

// criteriaFromQuery builds the filter criteria from the request query
// string; absent params stay at their unconstrained defaults.
func criteriaFromQuery(c *fiber.Ctx) filter.Criteria {
	return filter.Criteria{
		Query:            c.Query("q"),
		ActionCategoryID: uint(c.QueryInt("action_category_id", 0)),
		CategoryID:       uint(c.QueryInt("category_id", 0)),
		SubcategoryID:    uint(c.QueryInt("subcategory_id", 0)),
		AreaID:           uint(c.QueryInt("area_id", 0)),
		ConditionID:      uint(c.QueryInt("condition_id", 0)),
		Rooms:            model.RoomCount(c.Query("rooms")),
		Developer:        c.Query("developer"),
		MinPrice:         c.Query("min_price"),
		MaxPrice:         c.Query("max_price"),
	}
}

// auditQuietly writes the audit row and only logs on failure; the action
// that triggered it has already succeeded.
func auditQuietly(actorID uint, action, entityType string, entityID uint, details map[string]interface{}) {
	if err := model.RecordAudit(database.GetDB(), actorID, action, entityType, entityID, details); err != nil {
		log.Printf("Could not record audit entry %s: %v", action, err)
	}
}
