package featured

import (
	"errors"
	"fmt"
	"strings"

	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/errs"

	"gorm.io/gorm"
)

// Manager keeps the featured-slot pool consistent: at most five slots, no
// two slots on the same display order, no property in two slots. All
// multi-row mutations run inside one database transaction.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Listing is one landing-page entry: the slot, its property and the photo
// shown as the card cover.
type Listing struct {
	Slot         model.FeaturedSlot   `json:"slot"`
	Property     model.Property       `json:"property"`
	PrimaryPhoto *model.PropertyPhoto `json:"primary_photo"`
}

// List returns the featured pool ordered by display order ascending.
func (m *Manager) List() ([]Listing, error) {
	var slots []model.FeaturedSlot
	err := m.db.
		Preload("Property.Area").
		Preload("Property.Category").
		Preload("Property.ActionCategory").
		Preload("Property.Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_photos.display_order ASC")
		}).
		Order("display_order ASC").
		Find(&slots).Error
	if err != nil {
		return nil, errs.NewFetchError("list featured", err)
	}

	listings := make([]Listing, 0, len(slots))
	for _, s := range slots {
		listings = append(listings, Listing{
			Slot:         s,
			Property:     s.Property,
			PrimaryPhoto: s.Property.PrimaryPhoto(),
		})
	}
	return listings, nil
}

// FreeOrders computes {1..5} minus the orders currently in use. The UI only
// offers these for assignment.
func (m *Manager) FreeOrders() ([]int, error) {
	var used []int
	if err := m.db.Model(&model.FeaturedSlot{}).
		Pluck("display_order", &used).Error; err != nil {
		return nil, errs.NewFetchError("list slot orders", err)
	}

	taken := make(map[int]bool, len(used))
	for _, o := range used {
		taken[o] = true
	}

	var free []int
	for o := 1; o <= model.MaxFeaturedSlots; o++ {
		if !taken[o] {
			free = append(free, o)
		}
	}
	return free, nil
}

// Assign creates a slot for the property at the desired order. Capacity is
// checked before any write; a taken order or an already-featured property is
// rejected by the unique indexes and reported as a conflict.
func (m *Manager) Assign(propertyID uint, order int, actorID uint) (*model.FeaturedSlot, error) {
	if err := validOrder(order); err != nil {
		return nil, err
	}

	var count int64
	if err := m.db.Model(&model.FeaturedSlot{}).Count(&count).Error; err != nil {
		return nil, errs.NewFetchError("count featured slots", err)
	}
	if count >= model.MaxFeaturedSlots {
		return nil, errs.ErrCapacityExceeded
	}

	slot := model.FeaturedSlot{
		PropertyID:   propertyID,
		DisplayOrder: order,
		CreatedBy:    actorID,
	}
	if err := m.db.Create(&slot).Error; err != nil {
		if isDuplicate(err) {
			return nil, errs.NewConflictError("featured slot", err)
		}
		return nil, errs.NewFetchError("create featured slot", err)
	}
	return &slot, nil
}

// Remove deletes the slot by id. Removing an id that no longer exists is a
// success: the caller wanted the slot gone and it is.
func (m *Manager) Remove(slotID uint) error {
	if err := m.db.Delete(&model.FeaturedSlot{}, slotID).Error; err != nil {
		return errs.NewFetchError("remove featured slot", err)
	}
	return nil
}

// Reorder moves a slot to a new display order. When the order is held by
// another slot the two swap, via the sentinel value so the unique index is
// never violated mid-swap. The whole sequence is one transaction: a failure
// at any step rolls everything back.
func (m *Manager) Reorder(slotID uint, newOrder int) error {
	if err := validOrder(newOrder); err != nil {
		return err
	}

	var otherID uint
	txErr := m.db.Transaction(func(tx *gorm.DB) error {
		var slot model.FeaturedSlot
		if err := tx.First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return errs.NewFetchError("load slot", err)
		}
		if slot.DisplayOrder == newOrder {
			return nil
		}

		var other model.FeaturedSlot
		err := tx.Where("display_order = ? AND id <> ?", newOrder, slot.ID).
			First(&other).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Order is free: single write.
			return tx.Model(&slot).Update("display_order", newOrder).Error
		}
		if err != nil {
			return errs.NewFetchError("load displaced slot", err)
		}

		otherID = other.ID
		prevOrder := slot.DisplayOrder

		// Vacate the target first; the sentinel sits outside 1..5 so the
		// unique index never sees two rows on the same order.
		if err := tx.Model(&other).Update("display_order", model.FeaturedOrderSentinel).Error; err != nil {
			return err
		}
		if err := tx.Model(&slot).Update("display_order", newOrder).Error; err != nil {
			return err
		}
		// The displaced slot takes the order held before the swap started.
		return tx.Model(&other).Update("display_order", prevOrder).Error
	})

	if txErr == nil {
		return nil
	}
	if errors.Is(txErr, gorm.ErrRecordNotFound) {
		return txErr
	}
	var fe *errs.FetchError
	if errors.As(txErr, &fe) {
		return txErr
	}
	if isDuplicate(txErr) {
		return errs.NewConflictError("featured slot order", txErr)
	}
	if otherID != 0 {
		// The swap was underway when the transaction failed. The rollback
		// restored the rows, report the pre-swap orders for verification.
		good, checkErr := m.currentOrders()
		if checkErr != nil {
			good = nil
		}
		return &errs.PartialReorderFailure{
			SlotID:        slotID,
			OtherSlotID:   otherID,
			LastKnownGood: good,
			Err:           txErr,
		}
	}
	return errs.NewFetchError("reorder featured slot", txErr)
}

// Repair reassigns any slot stuck on the sentinel order to the lowest free
// position. Such rows can only come from writers that predate the
// transactional swap; the hourly sweep cleans them up.
func (m *Manager) Repair() (int, error) {
	var stuck []model.FeaturedSlot
	if err := m.db.Where("display_order = ?", model.FeaturedOrderSentinel).
		Find(&stuck).Error; err != nil {
		return 0, errs.NewFetchError("scan sentinel slots", err)
	}
	if len(stuck) == 0 {
		return 0, nil
	}

	repaired := 0
	for _, slot := range stuck {
		free, err := m.FreeOrders()
		if err != nil {
			return repaired, err
		}
		if len(free) == 0 {
			return repaired, &errs.PartialReorderFailure{
				SlotID: slot.ID,
				Err:    fmt.Errorf("sentinel slot %d has no free order to return to", slot.ID),
			}
		}
		if err := m.db.Model(&model.FeaturedSlot{}).Where("id = ?", slot.ID).
			Update("display_order", free[0]).Error; err != nil {
			return repaired, errs.NewFetchError("repair sentinel slot", err)
		}
		repaired++
	}
	return repaired, nil
}

func (m *Manager) currentOrders() (map[uint]int, error) {
	var slots []model.FeaturedSlot
	if err := m.db.Find(&slots).Error; err != nil {
		return nil, err
	}
	orders := make(map[uint]int, len(slots))
	for _, s := range slots {
		orders[s.ID] = s.DisplayOrder
	}
	return orders, nil
}

func validOrder(order int) error {
	if order < 1 || order > model.MaxFeaturedSlots {
		return fmt.Errorf("display order must be between 1 and %d", model.MaxFeaturedSlots)
	}
	return nil
}

// isDuplicate matches unique violations across the postgres and sqlite
// drivers; both translate to gorm.ErrDuplicatedKey when error translation
// is on, the string checks cover drivers that don't.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
