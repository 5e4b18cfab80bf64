package model

import (
	"time"

	"gorm.io/gorm"
)

// Viewing Status
type ViewingStatus string

const (
	ViewingStatusRequested ViewingStatus = "requested"
	ViewingStatusConfirmed ViewingStatus = "confirmed"
	ViewingStatusDone      ViewingStatus = "done"
	ViewingStatusCancelled ViewingStatus = "cancelled"
)

// Viewing is a visit request filed from the public listing page and triaged
// by the listing's agent.
type Viewing struct {
	gorm.Model
	PropertyID   uint          `json:"property_id" gorm:"index;not null"`
	VisitorName  string        `json:"visitor_name" gorm:"not null"`
	VisitorPhone string        `json:"visitor_phone" gorm:"not null"`
	ScheduledAt  time.Time     `json:"scheduled_at"`
	Note         string        `json:"note" gorm:"type:text"`
	Status       ViewingStatus `json:"status" gorm:"not null;default:'requested'"`

	Property Property `json:"property" gorm:"foreignKey:PropertyID"`
}
