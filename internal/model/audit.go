package model

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit Actions
const (
	AuditUserCreated     = "user.created"
	AuditUserDeleted     = "user.deleted"
	AuditUserRoleChanged = "user.role_changed"

	AuditPropertyStatusChanged = "property.status_changed"
	AuditPropertySoftDeleted   = "property.soft_deleted"
	AuditPropertyRestored      = "property.restored"
	AuditPropertyPurged        = "property.purged"

	AuditFeaturedAssigned  = "featured.assigned"
	AuditFeaturedReordered = "featured.reordered"
	AuditFeaturedRemoved   = "featured.removed"
)

// AuditLog records who did what to which entity. Details holds the
// action-specific payload (old/new values, request fields).
type AuditLog struct {
	gorm.Model
	ActorID    uint           `json:"actor_id" gorm:"index"`
	Action     string         `json:"action" gorm:"index;not null"`
	EntityType string         `json:"entity_type"`
	EntityID   uint           `json:"entity_id"`
	Details    datatypes.JSON `json:"details"`
}

// RecordAudit appends an audit row; failures are returned so callers can log
// them but audit writes never abort the action that triggered them.
func RecordAudit(db *gorm.DB, actorID uint, action, entityType string, entityID uint, details map[string]interface{}) error {
	var payload datatypes.JSON
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(raw)
	}
	return db.Create(&AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    payload,
	}).Error
}
