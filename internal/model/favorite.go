package model

import "gorm.io/gorm"

type Favorite struct {
	gorm.Model
	UserID     uint `json:"user_id" gorm:"uniqueIndex:idx_user_property_favorite;not null"`
	PropertyID uint `json:"property_id" gorm:"uniqueIndex:idx_user_property_favorite;not null"`

	User     User     `json:"-" gorm:"foreignKey:UserID"`
	Property Property `json:"property" gorm:"foreignKey:PropertyID"`
}
