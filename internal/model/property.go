package model

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Property Status
type PropertyStatus string

const (
	PropertyStatusPublished PropertyStatus = "published"
	PropertyStatusNoAds     PropertyStatus = "no_ads"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusDeleted   PropertyStatus = "deleted"
)

// Room Counts
type RoomCount string

const (
	RoomsStudio   RoomCount = "studio"
	RoomsOne      RoomCount = "1"
	RoomsTwo      RoomCount = "2"
	RoomsThree    RoomCount = "3"
	RoomsFour     RoomCount = "4"
	RoomsFivePlus RoomCount = "5+"
)

// Currency Types
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyAMD Currency = "AMD"
	CurrencyRUB Currency = "RUB"
)

// BrowsableStatuses are the lifecycle states shown outside the trash view.
var BrowsableStatuses = []PropertyStatus{
	PropertyStatusPublished,
	PropertyStatusNoAds,
	PropertyStatusSold,
}

type Property struct {
	gorm.Model
	// Human-facing sequential number, assigned once and never changed.
	PropertyNumber int    `json:"property_number" gorm:"uniqueIndex;not null"`
	Slug           string `json:"slug" gorm:"uniqueIndex;not null"`
	Title          string `json:"title" gorm:"not null"`
	Description    string `json:"description" gorm:"type:text"`

	CategoryID       uint  `json:"category_id"`
	SubcategoryID    *uint `json:"subcategory_id"`
	ActionCategoryID uint  `json:"action_category_id"`
	ConditionID      *uint `json:"condition_id"`
	ProposalID       *uint `json:"proposal_id"`
	AreaID           *uint `json:"area_id"`
	DeveloperID      *uint `json:"developer_id"`

	Rooms   RoomCount `json:"rooms"`
	Size    *float64  `json:"size"`     // square meters
	LotSize *float64  `json:"lot_size"` // square meters

	Price        float64  `json:"price" gorm:"not null"`
	Currency     Currency `json:"currency" gorm:"not null"`
	ExchangeRate *float64 `json:"exchange_rate"` // display conversion only

	Status PropertyStatus `json:"status" gorm:"not null;default:'published';index"`

	// Visible only to the creator, collaborators and administrators.
	// Controllers strip these before public responses.
	OwnerName    string `json:"owner_name,omitempty"`
	OwnerContact string `json:"owner_contact,omitempty"`

	UserID    uint  `json:"user_id" gorm:"index"`
	DeletedBy *uint `json:"deleted_by,omitempty"`

	User           User            `json:"-" gorm:"foreignKey:UserID"`
	Category       Category        `json:"category" gorm:"foreignKey:CategoryID"`
	Subcategory    *Subcategory    `json:"subcategory" gorm:"foreignKey:SubcategoryID"`
	ActionCategory ActionCategory  `json:"action_category" gorm:"foreignKey:ActionCategoryID"`
	Condition      *Condition      `json:"condition" gorm:"foreignKey:ConditionID"`
	Proposal       *Proposal       `json:"proposal" gorm:"foreignKey:ProposalID"`
	Area           *Area           `json:"area" gorm:"foreignKey:AreaID"`
	Developer      *Developer      `json:"developer" gorm:"foreignKey:DeveloperID"`
	Collaborators  []User          `json:"-" gorm:"many2many:property_collaborators"`
	Photos         []PropertyPhoto `json:"photos" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

type PropertyPhoto struct {
	gorm.Model
	PropertyID   uint   `json:"property_id" gorm:"index"`
	URL          string `json:"url" gorm:"not null"`
	DisplayOrder int    `json:"display_order" gorm:"default:0"`
	IsPrimary    bool   `json:"is_primary" gorm:"default:false"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// AreaName resolves the joined area display name; empty when no area is set.
func (p *Property) AreaName() string {
	if p.Area == nil {
		return ""
	}
	return p.Area.Name
}

// DeveloperName resolves the joined developer display name.
func (p *Property) DeveloperName() string {
	if p.Developer == nil {
		return ""
	}
	return p.Developer.Name
}

// PrimaryPhoto returns the photo with the lowest display order, nil when the
// property has no photos.
func (p *Property) PrimaryPhoto() *PropertyPhoto {
	if len(p.Photos) == 0 {
		return nil
	}
	best := &p.Photos[0]
	for i := 1; i < len(p.Photos); i++ {
		if p.Photos[i].DisplayOrder < best.DisplayOrder {
			best = &p.Photos[i]
		}
	}
	return best
}

// PublicView strips owner contact fields for unauthenticated responses.
func (p *Property) PublicView() map[string]interface{} {
	return map[string]interface{}{
		"id":              p.ID,
		"property_number": p.PropertyNumber,
		"slug":            p.Slug,
		"title":           p.Title,
		"description":     p.Description,
		"category":        p.Category,
		"subcategory":     p.Subcategory,
		"action_category": p.ActionCategory,
		"condition":       p.Condition,
		"proposal":        p.Proposal,
		"area":            p.Area,
		"developer":       p.Developer,
		"rooms":           p.Rooms,
		"size":            p.Size,
		"lot_size":        p.LotSize,
		"price":           p.Price,
		"currency":        p.Currency,
		"exchange_rate":   p.ExchangeRate,
		"status":          p.Status,
		"photos":          p.Photos,
		"created_at":      p.CreatedAt,
	}
}

// BeforeCreate assigns the next sequential property number and a unique slug.
// The unique index on property_number is the backstop for concurrent inserts.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.PropertyNumber == 0 {
		var max int
		tx.Model(&Property{}).Unscoped().
			Select("COALESCE(MAX(property_number), 1000)").Scan(&max)
		p.PropertyNumber = max + 1
	}

	if p.Slug == "" {
		s := slug.Make(p.Title)

		var count int64
		tx.Model(&Property{}).Unscoped().Where("slug = ?", s).Count(&count)
		if count > 0 {
			s = fmt.Sprintf("%s-%d", s, p.PropertyNumber)
		}

		p.Slug = s
	}
	return nil
}
