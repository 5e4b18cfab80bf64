package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupModelDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Property{}))
	return db
}

func createListing(t *testing.T, db *gorm.DB, title string) Property {
	t.Helper()

	p := Property{Title: title, Price: 1, Currency: CurrencyUSD, Status: PropertyStatusPublished}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestPropertyNumberSequence(t *testing.T) {
	db := setupModelDB(t)

	first := createListing(t, db, "First")
	second := createListing(t, db, "Second")

	require.Equal(t, 1001, first.PropertyNumber)
	require.Equal(t, 1002, second.PropertyNumber)
}

func TestPropertyNumberSkipsSoftDeleted(t *testing.T) {
	db := setupModelDB(t)

	first := createListing(t, db, "First")
	require.NoError(t, db.Delete(&first).Error)

	// Soft-deleted rows still hold their number; the sequence never reuses it.
	second := createListing(t, db, "Second")
	require.Equal(t, first.PropertyNumber+1, second.PropertyNumber)
}

func TestPropertyNumberNeverOverwritten(t *testing.T) {
	db := setupModelDB(t)

	p := Property{Title: "Imported", PropertyNumber: 7500, Price: 1, Currency: CurrencyUSD}
	require.NoError(t, db.Create(&p).Error)
	require.Equal(t, 7500, p.PropertyNumber)
}

func TestSlugCollisionGetsNumberSuffix(t *testing.T) {
	db := setupModelDB(t)

	first := createListing(t, db, "Sunny Apartment")
	second := createListing(t, db, "Sunny Apartment")

	require.Equal(t, "sunny-apartment", first.Slug)
	require.Equal(t, fmt.Sprintf("sunny-apartment-%d", second.PropertyNumber), second.Slug)
}
