package seed

import (
	"log"

	"crmestate_backend/internal/model"

	"gorm.io/gorm"
)

// SeedReferenceData fills the lookup tables used by the property forms.
// FirstOrCreate keeps repeated startups idempotent.
func SeedReferenceData(db *gorm.DB) {
	actionCategories := []model.ActionCategory{
		{Name: "Sale"},
		{Name: "Rent"},
	}
	for _, ac := range actionCategories {
		if err := db.FirstOrCreate(&ac, model.ActionCategory{Name: ac.Name}).Error; err != nil {
			log.Printf("Error seeding action category %s: %v", ac.Name, err)
		}
	}

	categories := []model.Category{
		{Name: "Apartment"},
		{Name: "House"},
		{Name: "Commercial"},
		{Name: "Land"},
	}
	for _, cat := range categories {
		if err := db.FirstOrCreate(&cat, model.Category{Name: cat.Name}).Error; err != nil {
			log.Printf("Error seeding category %s: %v", cat.Name, err)
		}
	}

	conditions := []model.Condition{
		{Name: "New construction"},
		{Name: "Renovated"},
		{Name: "Needs renovation"},
	}
	for _, cond := range conditions {
		if err := db.FirstOrCreate(&cond, model.Condition{Name: cond.Name}).Error; err != nil {
			log.Printf("Error seeding condition %s: %v", cond.Name, err)
		}
	}

	proposals := []model.Proposal{
		{Name: "From owner"},
		{Name: "From agency"},
		{Name: "From developer"},
	}
	for _, prop := range proposals {
		if err := db.FirstOrCreate(&prop, model.Proposal{Name: prop.Name}).Error; err != nil {
			log.Printf("Error seeding proposal %s: %v", prop.Name, err)
		}
	}

	log.Println("Reference data seeded successfully!")
}
