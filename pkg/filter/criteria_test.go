package filter

import (
	"math"
	"testing"

	"crmestate_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func sampleProperties() []model.Property {
	return []model.Property{
		{
			PropertyNumber:   1001,
			Title:            "Studio downtown",
			CategoryID:       1,
			ActionCategoryID: 1,
			AreaID:           uintPtr(3),
			Area:             &model.Area{Name: "Kentron"},
			Rooms:            model.RoomsOne,
			Price:            50000,
		},
		{
			PropertyNumber:   1002,
			Title:            "Family apartment",
			CategoryID:       1,
			ActionCategoryID: 1,
			AreaID:           uintPtr(3),
			Area:             &model.Area{Name: "Kentron"},
			Rooms:            model.RoomsTwo,
			Price:            150000,
		},
		{
			PropertyNumber:   1003,
			Title:            "Suburban house",
			CategoryID:       2,
			ActionCategoryID: 2,
			AreaID:           uintPtr(7),
			Area:             &model.Area{Name: "Avan"},
			Rooms:            model.RoomsTwo,
			Price:            250000,
			Developer:        &model.Developer{Name: "Northline"},
		},
	}
}

func TestEmptyCriteriaMatchesEverything(t *testing.T) {
	records := sampleProperties()
	out := Apply(records, Criteria{})
	assert.Len(t, out, len(records))
}

func TestCriteriaAreConjunctive(t *testing.T) {
	records := sampleProperties()

	// Price range alone keeps two records, rooms alone keeps two; together
	// only the one satisfying both survives.
	byPrice := Apply(records, Criteria{MinPrice: "100000", MaxPrice: "200000"})
	require.Len(t, byPrice, 1)

	byRooms := Apply(records, Criteria{Rooms: model.RoomsTwo})
	require.Len(t, byRooms, 2)

	both := Apply(records, Criteria{
		MinPrice: "100000",
		MaxPrice: "200000",
		Rooms:    model.RoomsTwo,
	})
	require.Len(t, both, 1)
	assert.Equal(t, 1002, both[0].PropertyNumber)
}

func TestAddingConstraintNeverGrowsResult(t *testing.T) {
	records := sampleProperties()

	base := Criteria{Rooms: model.RoomsTwo}
	narrowed := base
	narrowed.CategoryID = 1

	assert.LessOrEqual(t, len(Apply(records, narrowed)), len(Apply(records, base)))
}

func TestQueryMatchesNumberOrArea(t *testing.T) {
	records := sampleProperties()

	byNumber := Apply(records, Criteria{Query: "1003"})
	require.Len(t, byNumber, 1)
	assert.Equal(t, 1003, byNumber[0].PropertyNumber)

	byArea := Apply(records, Criteria{Query: "kentron"})
	assert.Len(t, byArea, 2)

	assert.Empty(t, Apply(records, Criteria{Query: "nowhere"}))
}

func TestDeveloperFilter(t *testing.T) {
	records := sampleProperties()

	out := Apply(records, Criteria{Developer: "Northline"})
	require.Len(t, out, 1)
	assert.Equal(t, 1003, out[0].PropertyNumber)

	// Records without a developer never match an active developer filter.
	assert.Empty(t, Apply(records, Criteria{Developer: "Other"}))
}

func TestNullableReferenceFilters(t *testing.T) {
	records := sampleProperties()
	records = append(records, model.Property{PropertyNumber: 1004, Price: 10000})

	out := Apply(records, Criteria{AreaID: 3})
	assert.Len(t, out, 2)

	// The record with no area is excluded, not an error.
	out = Apply(records, Criteria{AreaID: 7})
	require.Len(t, out, 1)
	assert.Equal(t, 1003, out[0].PropertyNumber)
}

func TestApplyPreservesOrder(t *testing.T) {
	records := sampleProperties()
	out := Apply(records, Criteria{CategoryID: 1})
	require.Len(t, out, 2)
	assert.Equal(t, 1001, out[0].PropertyNumber)
	assert.Equal(t, 1002, out[1].PropertyNumber)
}

func TestPriceBoundsLenientParsing(t *testing.T) {
	cases := []struct {
		name    string
		min     string
		max     string
		wantMin float64
		wantMax float64
	}{
		{"empty", "", "", 0, math.Inf(1)},
		{"both set", "100", "200", 100, 200},
		{"whitespace", " 100 ", "", 100, math.Inf(1)},
		{"garbage min", "abc", "200", 0, 200},
		{"garbage max", "100", "1e999x", 100, math.Inf(1)},
		{"negative", "-5", "-1", 0, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			min, max := Criteria{MinPrice: tc.min, MaxPrice: tc.max}.PriceBounds()
			assert.Equal(t, tc.wantMin, min)
			assert.Equal(t, tc.wantMax, max)
		})
	}
}

func TestUnparseableBoundsNeverExclude(t *testing.T) {
	records := sampleProperties()
	out := Apply(records, Criteria{MinPrice: "cheap", MaxPrice: "expensive"})
	assert.Len(t, out, len(records))
}

func TestInvertedRangeMatchesNothing(t *testing.T) {
	records := sampleProperties()
	out := Apply(records, Criteria{MinPrice: "200000", MaxPrice: "100000"})
	assert.Empty(t, out)
}
