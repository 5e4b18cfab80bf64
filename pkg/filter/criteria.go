package filter

import (
	"math"
	"strconv"
	"strings"

	"crmestate_backend/internal/model"
)

// Criteria is the conjunctive catalog filter. Every field defaults to
// "unconstrained": zero ids, empty strings and unparseable price bounds all
// mean "don't filter on this". A record matches only if it satisfies every
// active field.
type Criteria struct {
	Query string `json:"query"`

	ActionCategoryID uint `json:"action_category_id"`
	CategoryID       uint `json:"category_id"`
	SubcategoryID    uint `json:"subcategory_id"`
	AreaID           uint `json:"area_id"`
	ConditionID      uint `json:"condition_id"`

	Rooms     model.RoomCount `json:"rooms"`
	Developer string          `json:"developer"` // catalog page only

	// Raw user input; parsed leniently, never an error.
	MinPrice string `json:"min_price"`
	MaxPrice string `json:"max_price"`
}

// Matches evaluates the record against every active constraint.
func (c Criteria) Matches(p *model.Property) bool {
	if q := strings.TrimSpace(c.Query); q != "" {
		q = strings.ToLower(q)
		number := strconv.Itoa(p.PropertyNumber)
		area := strings.ToLower(p.AreaName())
		if !strings.Contains(number, q) && !strings.Contains(area, q) {
			return false
		}
	}

	if c.ActionCategoryID != 0 && p.ActionCategoryID != c.ActionCategoryID {
		return false
	}
	if c.CategoryID != 0 && p.CategoryID != c.CategoryID {
		return false
	}
	if c.SubcategoryID != 0 && !matchesRef(p.SubcategoryID, c.SubcategoryID) {
		return false
	}
	if c.AreaID != 0 && !matchesRef(p.AreaID, c.AreaID) {
		return false
	}
	if c.ConditionID != 0 && !matchesRef(p.ConditionID, c.ConditionID) {
		return false
	}
	if c.Rooms != "" && p.Rooms != c.Rooms {
		return false
	}
	if c.Developer != "" && p.DeveloperName() != c.Developer {
		return false
	}

	min, max := c.PriceBounds()
	if p.Price < min || p.Price > max {
		return false
	}

	return true
}

// Apply returns the order-preserving subsequence of records matching the
// criteria. An empty result is an empty slice, never an error.
func Apply(records []model.Property, c Criteria) []model.Property {
	out := make([]model.Property, 0, len(records))
	for i := range records {
		if c.Matches(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// PriceBounds parses the raw min/max inputs. Empty or unparseable input
// degrades to the unconstrained bound (0 / +Inf).
func (c Criteria) PriceBounds() (float64, float64) {
	return parsePrice(c.MinPrice, 0), parsePrice(c.MaxPrice, math.Inf(1))
}

func parsePrice(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func matchesRef(id *uint, want uint) bool {
	return id != nil && *id == want
}
