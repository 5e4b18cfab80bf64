package cron

import (
	"log"
	"time"

	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/utils/storage"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// TrashRetention is how long soft-deleted listings stay restorable.
const TrashRetention = 30 * 24 * time.Hour

// InitTrashPurgeCron permanently removes listings that have sat in the
// trash past the retention window, every night at 03:00.
func InitTrashPurgeCron() {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", runTrashPurge)
	if err != nil {
		log.Printf("Could not initialize trash purge cron: %v", err)
		return
	}

	c.Start()
}

func runTrashPurge() {
	cutoff := time.Now().Add(-TrashRetention)

	var expired []model.Property
	err := database.GetDB().Unscoped().
		Preload("Photos").
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&expired).Error
	if err != nil {
		log.Printf("Trash purge: could not scan expired listings: %v", err)
		return
	}

	for i := range expired {
		property := &expired[i]

		for _, photo := range property.Photos {
			if err := storage.Delete(photo.URL); err != nil {
				log.Printf("Trash purge: could not delete photo object %s: %v", photo.URL, err)
			}
		}

		err := database.GetDB().Transaction(func(tx *gorm.DB) error {
			if err := tx.Unscoped().Where("property_id = ?", property.ID).
				Delete(&model.PropertyPhoto{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("property_id = ?", property.ID).
				Delete(&model.Favorite{}).Error; err != nil {
				return err
			}
			return tx.Unscoped().Delete(property).Error
		})
		if err != nil {
			log.Printf("Trash purge: could not purge property %d: %v", property.ID, err)
			continue
		}

		actor := uint(0)
		if property.DeletedBy != nil {
			actor = *property.DeletedBy
		}
		if err := model.RecordAudit(database.GetDB(), actor, model.AuditPropertyPurged,
			"property", property.ID, map[string]interface{}{
				"property_number": property.PropertyNumber,
				"reason":          "retention expired",
			}); err != nil {
			log.Printf("Trash purge: could not record audit entry: %v", err)
		}
	}
}
