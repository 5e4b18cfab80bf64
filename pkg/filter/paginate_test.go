package filter

import (
	"fmt"
	"testing"

	"crmestate_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedProperties(n int) []model.Property {
	out := make([]model.Property, n)
	for i := range out {
		out[i] = model.Property{PropertyNumber: 1001 + i, Title: fmt.Sprintf("Listing %d", i+1)}
	}
	return out
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, PageSizeListings))
	assert.Equal(t, 1, TotalPages(1, PageSizeListings))
	assert.Equal(t, 1, TotalPages(12, PageSizeListings))
	assert.Equal(t, 2, TotalPages(13, PageSizeListings))
	assert.Equal(t, 3, TotalPages(30, PageSizeListings))
	assert.Equal(t, 0, TotalPages(30, 0))
}

// Concatenating every page in order must reproduce the collection exactly.
func TestPagesPartitionTheCollection(t *testing.T) {
	items := numberedProperties(30)

	var rebuilt []model.Property
	for page := 1; page <= TotalPages(len(items), PageSizeListings); page++ {
		chunk := Page(items, page, PageSizeListings)
		require.NotEmpty(t, chunk)
		require.LessOrEqual(t, len(chunk), PageSizeListings)
		rebuilt = append(rebuilt, chunk...)
	}
	assert.Equal(t, items, rebuilt)
}

func TestPageOutOfRange(t *testing.T) {
	items := numberedProperties(5)

	assert.Empty(t, Page(items, 0, PageSizeListings))
	assert.Empty(t, Page(items, 2, PageSizeListings))
	assert.Empty(t, Page(items, -1, PageSizeListings))
	assert.Empty(t, Page(nil, 1, PageSizeListings))
}

func TestLastPageIsShort(t *testing.T) {
	items := numberedProperties(25)
	last := Page(items, 3, PageSizeListings)
	require.Len(t, last, 1)
	assert.Equal(t, 1025, last[0].PropertyNumber)
}

func TestReferencePageSize(t *testing.T) {
	items := numberedProperties(45)
	assert.Equal(t, 3, TotalPages(len(items), PageSizeReference))
	assert.Len(t, Page(items, 1, PageSizeReference), 20)
	assert.Len(t, Page(items, 3, PageSizeReference), 5)
}

func TestScrollerAdvanceAndCap(t *testing.T) {
	items := numberedProperties(30)
	s := NewScroller()

	assert.Len(t, s.Window(items), 12)

	s.Advance(len(items))
	assert.Equal(t, 24, s.Visible())
	assert.Len(t, s.Window(items), 24)

	// Window never exceeds the collection.
	s.Advance(len(items))
	assert.Equal(t, 30, s.Visible())
	s.Advance(len(items))
	assert.Equal(t, 30, s.Visible())
}

func TestScrollerReset(t *testing.T) {
	items := numberedProperties(40)
	s := NewScroller()
	s.Advance(len(items))
	s.Advance(len(items))

	s.Reset()
	assert.Equal(t, ScrollStep, s.Visible())
	assert.Len(t, s.Window(items), ScrollStep)
}

func TestScrollerSmallCollection(t *testing.T) {
	items := numberedProperties(5)
	s := NewScroller()

	assert.Len(t, s.Window(items), 5)

	// Advancing on a short collection keeps the window at one step so a
	// later, larger result set starts from the initial size.
	s.Advance(len(items))
	assert.Equal(t, ScrollStep, s.Visible())
}

func TestWindowFallback(t *testing.T) {
	items := numberedProperties(20)

	assert.Len(t, Window(items, 0), ScrollStep)
	assert.Len(t, Window(items, -3), ScrollStep)
	assert.Len(t, Window(items, 7), 7)
	assert.Len(t, Window(items, 100), 20)
	assert.Empty(t, Window(nil, 12))
}
