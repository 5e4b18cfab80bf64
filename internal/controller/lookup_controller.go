package controller

import (
	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/filter"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Reference-data CRUD. One route set serves every lookup table; the entity
// segment picks the model. Reads are open to any signed-in user, mutations
// are admin-only (enforced in the route table).

type LookupInput struct {
	Name string `json:"name" validate:"required"`
	// Subcategories only.
	CategoryID uint `json:"category_id"`
	OnDuty     bool `json:"on_duty"`
}

// lookupTarget maps the entity path segment to a record and a list to scan
// into.
func lookupTarget(entity string) (interface{}, interface{}, bool) {
	switch entity {
	case "areas":
		return &model.Area{}, &[]model.Area{}, true
	case "categories":
		return &model.Category{}, &[]model.Category{}, true
	case "subcategories":
		return &model.Subcategory{}, &[]model.Subcategory{}, true
	case "action-categories":
		return &model.ActionCategory{}, &[]model.ActionCategory{}, true
	case "conditions":
		return &model.Condition{}, &[]model.Condition{}, true
	case "proposals":
		return &model.Proposal{}, &[]model.Proposal{}, true
	case "developers":
		return &model.Developer{}, &[]model.Developer{}, true
	}
	return nil, nil, false
}

// ListLookup returns one reference table, 20 rows per page.
func ListLookup(c *fiber.Ctx) error {
	record, list, ok := lookupTarget(c.Params("entity"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown reference table",
		})
	}

	var total int64
	if err := database.GetDB().Model(record).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch reference data",
		})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	query := database.GetDB().
		Order("name asc").
		Limit(filter.PageSizeReference).
		Offset((page - 1) * filter.PageSizeReference)
	if c.Params("entity") == "categories" {
		query = query.Preload("Subcategories")
	}

	if err := query.Find(list).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch reference data",
		})
	}

	return c.JSON(fiber.Map{
		"items":       list,
		"total":       total,
		"page":        page,
		"total_pages": filter.TotalPages(int(total), filter.PageSizeReference),
	})
}

// CreateLookup inserts a reference row; duplicate names hit the unique
// index and come back as a conflict.
func CreateLookup(c *fiber.Ctx) error {
	entity := c.Params("entity")
	if _, _, ok := lookupTarget(entity); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown reference table",
		})
	}

	input := new(LookupInput)
	if err := c.BodyParser(input); err != nil || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	record := buildLookup(entity, input)
	if err := database.GetDB().Create(record).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Name already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// UpdateLookup renames a reference row (and re-flags subcategories).
func UpdateLookup(c *fiber.Ctx) error {
	entity := c.Params("entity")
	record, _, ok := lookupTarget(entity)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown reference table",
		})
	}

	input := new(LookupInput)
	if err := c.BodyParser(input); err != nil || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := database.GetDB().First(record, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Record not found",
		})
	}

	updates := map[string]interface{}{"name": input.Name}
	if entity == "subcategories" {
		updates["on_duty"] = input.OnDuty
		if input.CategoryID != 0 {
			updates["category_id"] = input.CategoryID
		}
	}

	if err := database.GetDB().Model(record).Updates(updates).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Name already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update record",
		})
	}

	return c.JSON(record)
}

// DeleteLookup removes a reference row. Listings pointing at it keep their
// id; joins resolve to nothing, the same as the hosted-store behaviour.
func DeleteLookup(c *fiber.Ctx) error {
	record, _, ok := lookupTarget(c.Params("entity"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown reference table",
		})
	}

	if err := database.GetDB().First(record, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Record not found",
		})
	}

	if err := database.GetDB().Delete(record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete record",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func buildLookup(entity string, input *LookupInput) interface{} {
	switch entity {
	case "areas":
		return &model.Area{Name: input.Name}
	case "categories":
		return &model.Category{Name: input.Name}
	case "subcategories":
		return &model.Subcategory{
			Name:       input.Name,
			CategoryID: input.CategoryID,
			OnDuty:     input.OnDuty,
		}
	case "action-categories":
		return &model.ActionCategory{Name: input.Name}
	case "conditions":
		return &model.Condition{Name: input.Name}
	case "proposals":
		return &model.Proposal{Name: input.Name}
	case "developers":
		return &model.Developer{Name: input.Name}
	}
	return nil
}
