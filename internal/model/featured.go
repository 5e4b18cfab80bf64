package model

import "time"

const (
	// MaxFeaturedSlots bounds the featured pool on the public landing page.
	MaxFeaturedSlots = 5
	// FeaturedOrderSentinel sits outside the valid 1..5 range and is only
	// held transiently while two slots swap positions.
	FeaturedOrderSentinel = 0
)

// FeaturedSlot assigns one property to one of the five landing-page
// positions. No soft delete: removal drops the row so the unique indexes
// keep working on re-assignment.
type FeaturedSlot struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PropertyID   uint      `json:"property_id" gorm:"uniqueIndex;not null"`
	DisplayOrder int       `json:"display_order" gorm:"uniqueIndex;not null"`
	CreatedBy    uint      `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Property Property `json:"property" gorm:"foreignKey:PropertyID"`
}
