package featured

import (
	"fmt"
	"testing"

	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/errs"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.Area{},
		&model.Category{},
		&model.Subcategory{},
		&model.ActionCategory{},
		&model.Condition{},
		&model.Proposal{},
		&model.Developer{},
		&model.Property{},
		&model.PropertyPhoto{},
		&model.FeaturedSlot{},
	)
	require.NoError(t, err)

	return db
}

func createProperty(t *testing.T, db *gorm.DB, title string) model.Property {
	t.Helper()

	property := model.Property{
		Title:    title,
		Price:    100000,
		Currency: model.CurrencyUSD,
		Status:   model.PropertyStatusPublished,
		Rooms:    model.RoomsTwo,
	}
	require.NoError(t, db.Create(&property).Error)
	return property
}

// requireInvariants asserts pairwise-distinct display orders and property
// ids across the active pool.
func requireInvariants(t *testing.T, db *gorm.DB) {
	t.Helper()

	var slots []model.FeaturedSlot
	require.NoError(t, db.Find(&slots).Error)
	require.LessOrEqual(t, len(slots), model.MaxFeaturedSlots)

	orders := make(map[int]bool)
	properties := make(map[uint]bool)
	for _, s := range slots {
		require.False(t, orders[s.DisplayOrder], "duplicate display order %d", s.DisplayOrder)
		require.False(t, properties[s.PropertyID], "duplicate property %d", s.PropertyID)
		orders[s.DisplayOrder] = true
		properties[s.PropertyID] = true
	}
}

func TestAssignKeepsInvariants(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	for i := 1; i <= 3; i++ {
		p := createProperty(t, db, fmt.Sprintf("Listing %d", i))
		slot, err := m.Assign(p.ID, i, 1)
		require.NoError(t, err)
		require.Equal(t, i, slot.DisplayOrder)
		requireInvariants(t, db)
	}
}

func TestAssignCapacityBound(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	for i := 1; i <= model.MaxFeaturedSlots; i++ {
		p := createProperty(t, db, fmt.Sprintf("Listing %d", i))
		_, err := m.Assign(p.ID, i, 1)
		require.NoError(t, err)
	}

	extra := createProperty(t, db, "One too many")
	_, err := m.Assign(extra.ID, 1, 1)
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)

	var count int64
	require.NoError(t, db.Model(&model.FeaturedSlot{}).Count(&count).Error)
	require.EqualValues(t, model.MaxFeaturedSlots, count)
}

func TestAssignTakenOrderConflicts(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	p1 := createProperty(t, db, "First")
	p2 := createProperty(t, db, "Second")

	_, err := m.Assign(p1.ID, 2, 1)
	require.NoError(t, err)

	_, err = m.Assign(p2.ID, 2, 1)
	require.True(t, errs.IsConflict(err), "expected conflict, got %v", err)
	requireInvariants(t, db)
}

func TestAssignSamePropertyTwiceConflicts(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	p := createProperty(t, db, "Only one slot each")

	_, err := m.Assign(p.ID, 1, 1)
	require.NoError(t, err)

	_, err = m.Assign(p.ID, 2, 1)
	require.True(t, errs.IsConflict(err), "expected conflict, got %v", err)
}

func TestAssignRejectsOutOfRangeOrder(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	p := createProperty(t, db, "Listing")

	_, err := m.Assign(p.ID, 0, 1)
	require.Error(t, err)
	_, err = m.Assign(p.ID, 6, 1)
	require.Error(t, err)
}

func TestReorderToFreeOrder(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	p := createProperty(t, db, "Listing")
	slot, err := m.Assign(p.ID, 1, 1)
	require.NoError(t, err)

	require.NoError(t, m.Reorder(slot.ID, 4))

	var got model.FeaturedSlot
	require.NoError(t, db.First(&got, slot.ID).Error)
	require.Equal(t, 4, got.DisplayOrder)
	requireInvariants(t, db)
}

func TestReorderSwapsDisplacedSlot(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	pa := createProperty(t, db, "Slot A")
	pb := createProperty(t, db, "Slot B")

	a, err := m.Assign(pa.ID, 2, 1)
	require.NoError(t, err)
	b, err := m.Assign(pb.ID, 4, 1)
	require.NoError(t, err)

	require.NoError(t, m.Reorder(a.ID, 4))

	var gotA, gotB model.FeaturedSlot
	require.NoError(t, db.First(&gotA, a.ID).Error)
	require.NoError(t, db.First(&gotB, b.ID).Error)
	require.Equal(t, 4, gotA.DisplayOrder)
	require.Equal(t, 2, gotB.DisplayOrder)
	requireInvariants(t, db)
}

func TestReorderSameOrderIsNoop(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	p := createProperty(t, db, "Listing")
	slot, err := m.Assign(p.ID, 3, 1)
	require.NoError(t, err)

	require.NoError(t, m.Reorder(slot.ID, 3))

	var got model.FeaturedSlot
	require.NoError(t, db.First(&got, slot.ID).Error)
	require.Equal(t, 3, got.DisplayOrder)
}

func TestReorderMissingSlot(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	err := m.Reorder(42, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReorderRejectsOutOfRangeOrder(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	p := createProperty(t, db, "Listing")
	slot, err := m.Assign(p.ID, 1, 1)
	require.NoError(t, err)

	require.Error(t, m.Reorder(slot.ID, 0))
	require.Error(t, m.Reorder(slot.ID, 6))
}

func TestRemoveIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	p := createProperty(t, db, "Listing")
	slot, err := m.Assign(p.ID, 1, 1)
	require.NoError(t, err)

	require.NoError(t, m.Remove(slot.ID))
	require.NoError(t, m.Remove(slot.ID))

	var count int64
	require.NoError(t, db.Model(&model.FeaturedSlot{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestFreeOrders(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	free, err := m.FreeOrders()
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5}, free)

	for _, order := range []int{1, 3, 5} {
		p := createProperty(t, db, fmt.Sprintf("Listing %d", order))
		_, err := m.Assign(p.ID, order, 1)
		require.NoError(t, err)
	}

	free, err = m.FreeOrders()
	require.NoError(t, err)
	require.Equal(t, []int{2, 4}, free)
}

func TestListOrderedWithPrimaryPhoto(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	p1 := createProperty(t, db, "Second position")
	p2 := createProperty(t, db, "First position")

	require.NoError(t, db.Create(&model.PropertyPhoto{
		PropertyID: p2.ID, URL: "https://cdn.example/late.webp", DisplayOrder: 1,
	}).Error)
	require.NoError(t, db.Create(&model.PropertyPhoto{
		PropertyID: p2.ID, URL: "https://cdn.example/cover.webp", DisplayOrder: 0, IsPrimary: true,
	}).Error)

	_, err := m.Assign(p1.ID, 2, 1)
	require.NoError(t, err)
	_, err = m.Assign(p2.ID, 1, 1)
	require.NoError(t, err)

	listings, err := m.List()
	require.NoError(t, err)
	require.Len(t, listings, 2)

	require.Equal(t, 1, listings[0].Slot.DisplayOrder)
	require.Equal(t, p2.ID, listings[0].Property.ID)
	require.NotNil(t, listings[0].PrimaryPhoto)
	require.Equal(t, "https://cdn.example/cover.webp", listings[0].PrimaryPhoto.URL)

	require.Equal(t, 2, listings[1].Slot.DisplayOrder)
	require.Nil(t, listings[1].PrimaryPhoto)
}

func TestFullPoolScenario(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	for i := 1; i <= 5; i++ {
		p := createProperty(t, db, fmt.Sprintf("Listing %d", i))
		_, err := m.Assign(p.ID, i, 1)
		require.NoError(t, err)
		requireInvariants(t, db)
	}

	free, err := m.FreeOrders()
	require.NoError(t, err)
	require.Empty(t, free)

	sixth := createProperty(t, db, "Sixth")
	_, err = m.Assign(sixth.ID, 1, 1)
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)

	// The store-level path still rejects a duplicate order even when the
	// capacity check is bypassed.
	direct := db.Create(&model.FeaturedSlot{PropertyID: sixth.ID, DisplayOrder: 1})
	require.Error(t, direct.Error)
	requireInvariants(t, db)
}

func TestRepairReturnsSentinelSlots(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(db)

	p1 := createProperty(t, db, "Stuck")
	p2 := createProperty(t, db, "Fine")

	stuck, err := m.Assign(p1.ID, 3, 1)
	require.NoError(t, err)
	_, err = m.Assign(p2.ID, 1, 1)
	require.NoError(t, err)

	// Simulate a legacy writer that crashed mid-swap.
	require.NoError(t, db.Model(&model.FeaturedSlot{}).Where("id = ?", stuck.ID).
		Update("display_order", model.FeaturedOrderSentinel).Error)

	repaired, err := m.Repair()
	require.NoError(t, err)
	require.Equal(t, 1, repaired)

	var got model.FeaturedSlot
	require.NoError(t, db.First(&got, stuck.ID).Error)
	require.Equal(t, 2, got.DisplayOrder, "lowest free order")
	requireInvariants(t, db)

	repaired, err = m.Repair()
	require.NoError(t, err)
	require.Zero(t, repaired)
}
