package filter

import "crmestate_backend/internal/model"

const (
	// PageSizeListings is the fixed page size on listing pages.
	PageSizeListings = 12
	// PageSizeReference is the fixed page size on reference-data tables.
	PageSizeReference = 20
	// ScrollStep is the infinite-scroll increment on the public catalog.
	ScrollStep = 12
)

// TotalPages is ceil(n/size); zero items means zero pages.
func TotalPages(n, size int) int {
	if size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Page slices out the 1-based page. Out-of-range pages come back empty so
// stale page indices render an empty state rather than failing.
func Page(items []model.Property, page, size int) []model.Property {
	if page < 1 || size <= 0 {
		return []model.Property{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []model.Property{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Scroller drives the infinite-scroll window: the visible count starts at
// one step, grows by one step per advance and is capped at the collection
// length. Changing any filter field resets it.
type Scroller struct {
	visible int
}

func NewScroller() *Scroller {
	return &Scroller{visible: ScrollStep}
}

// Advance grows the window by one step, capped at total.
func (s *Scroller) Advance(total int) {
	s.visible += ScrollStep
	if s.visible > total {
		s.visible = total
	}
	if s.visible < ScrollStep {
		s.visible = ScrollStep
	}
}

// Reset returns the window to its initial size.
func (s *Scroller) Reset() {
	s.visible = ScrollStep
}

func (s *Scroller) Visible() int {
	return s.visible
}

// Window clamps the visible prefix of items to the scroller's count.
func (s *Scroller) Window(items []model.Property) []model.Property {
	return Window(items, s.visible)
}

// Window returns the first visible items; non-positive visible falls back to
// one scroll step.
func Window(items []model.Property, visible int) []model.Property {
	if visible <= 0 {
		visible = ScrollStep
	}
	if visible > len(items) {
		visible = len(items)
	}
	return items[:visible]
}
