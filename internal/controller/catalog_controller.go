package controller

import (
	"crmestate_backend/internal/model"
	"crmestate_backend/internal/service/featured"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/filter"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Catalog reads fetch the published set once and derive everything else in
// memory: criteria from the query string, then the infinite-scroll window.

// ListCatalog serves the public catalog page.
func ListCatalog(c *fiber.Ctx) error {
	var properties []model.Property
	if err := propertyPreloads(database.GetDB()).
		Where("status = ?", model.PropertyStatusPublished).
		Order("created_at desc").
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch catalog",
		})
	}

	criteria := criteriaFromQuery(c)
	filtered := filter.Apply(properties, criteria)

	visible := c.QueryInt("visible", filter.ScrollStep)
	window := filter.Window(filtered, visible)

	views := make([]map[string]interface{}, 0, len(window))
	for i := range window {
		views = append(views, window[i].PublicView())
	}

	return c.JSON(fiber.Map{
		"properties": views,
		"visible":    len(window),
		"total":      len(filtered),
	})
}

// ListDutyRoster serves the on-duty browsing view: published listings whose
// subcategory carries the duty flag, fixed 12-per-page.
func ListDutyRoster(c *fiber.Ctx) error {
	var properties []model.Property
	if err := propertyPreloads(database.GetDB()).
		Joins("JOIN subcategories ON subcategories.id = properties.subcategory_id").
		Where("properties.status = ? AND subcategories.on_duty = ?",
			model.PropertyStatusPublished, true).
		Order("properties.created_at desc").
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch duty roster",
		})
	}

	criteria := criteriaFromQuery(c)
	filtered := filter.Apply(properties, criteria)

	page := c.QueryInt("page", 1)
	window := filter.Page(filtered, page, filter.PageSizeListings)

	views := make([]map[string]interface{}, 0, len(window))
	for i := range window {
		views = append(views, window[i].PublicView())
	}

	return c.JSON(fiber.Map{
		"properties":  views,
		"total":       len(filtered),
		"page":        page,
		"total_pages": filter.TotalPages(len(filtered), filter.PageSizeListings),
	})
}

// GetCatalogProperty returns one published listing by slug, owner contacts
// stripped.
func GetCatalogProperty(c *fiber.Ctx) error {
	propertySlug := c.Params("slug")

	var property model.Property
	if err := propertyPreloads(database.GetDB()).
		Where("slug = ? AND status = ?", propertySlug, model.PropertyStatusPublished).
		First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch property",
		})
	}

	return c.JSON(fiber.Map{
		"property": property.PublicView(),
	})
}

// ListFeaturedCatalog serves the landing-page featured strip.
func ListFeaturedCatalog(c *fiber.Ctx) error {
	manager := featured.NewManager(database.GetDB())

	listings, err := manager.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch featured properties",
		})
	}

	out := make([]fiber.Map, 0, len(listings))
	for _, l := range listings {
		out = append(out, fiber.Map{
			"display_order": l.Slot.DisplayOrder,
			"property":      l.Property.PublicView(),
			"primary_photo": l.PrimaryPhoto,
		})
	}

	return c.JSON(fiber.Map{
		"featured": out,
	})
}
