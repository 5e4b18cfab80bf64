package model

import "gorm.io/gorm"

// Reference data behind the property classification fields. Display names
// are resolved through these joins everywhere a listing is rendered.

type Area struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Category struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	Subcategories []Subcategory `json:"subcategories,omitempty" gorm:"foreignKey:CategoryID"`
}

type Subcategory struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	CategoryID uint   `json:"category_id" gorm:"index"`
	// OnDuty marks the subcategory for the duty-roster browsing view.
	OnDuty bool `json:"on_duty" gorm:"default:false"`

	Category Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// ActionCategory is the sale/rent axis.
type ActionCategory struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Condition struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Proposal struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Developer struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}
