package cron

import (
	"errors"
	"log"

	"crmestate_backend/internal/service/featured"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/errs"

	"github.com/robfig/cron/v3"
)

// InitFeaturedRepairCron sweeps the featured pool hourly for slots stuck on
// the vacate sentinel and moves them back into a valid position.
func InitFeaturedRepairCron() {
	c := cron.New()

	_, err := c.AddFunc("@hourly", runFeaturedRepair)
	if err != nil {
		log.Printf("Could not initialize featured repair cron: %v", err)
		return
	}

	c.Start()
}

func runFeaturedRepair() {
	manager := featured.NewManager(database.GetDB())

	repaired, err := manager.Repair()
	if err != nil {
		var pf *errs.PartialReorderFailure
		if errors.As(err, &pf) {
			log.Printf("Featured repair: unrecoverable slot %d: %v", pf.SlotID, err)
			return
		}
		log.Printf("Featured repair failed: %v", err)
		return
	}
	if repaired > 0 {
		log.Printf("Featured repair: reassigned %d sentinel slot(s)", repaired)
	}
}
