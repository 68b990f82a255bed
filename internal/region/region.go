// Package region implements rectangle-set regions and their registry.
//
// A Region approximates a 2D area (damage, input or opaque area of a surface)
// as a list of rectangles that the simplification pass keeps mutually
// disjoint. Overlapping or edge-adjacent rectangles are merged into their
// bounding box, so the stored area may over-cover the exact union when two
// merged rectangles are not aligned. It never under-covers.
package region

import (
	"sync"

	"github.com/bnema/wlregion/internal/geom"
	"github.com/bnema/wlregion/internal/logger"
)

// Region is a shared, independently locked set of rectangles
type Region struct {
	mu       sync.RWMutex
	id       ID
	rects    []geom.Rect
	maxRects int
}

// Option configures a Region
type Option func(*Region)

// WithMaxRectangles caps the number of rectangles a region keeps after
// simplification. Past the cap the region collapses to its extents.
// Zero disables the cap.
func WithMaxRectangles(n int) Option {
	return func(r *Region) {
		if n < 0 {
			n = 0
		}
		r.maxRects = n
	}
}

// New returns an empty region
func New(id ID, opts ...Option) *Region {
	r := &Region{id: id}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the identifier assigned at construction
func (r *Region) ID() ID {
	return r.id
}

// Clear removes all rectangles
func (r *Region) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rects = nil
}

// Rectangles returns a snapshot of the current rectangle list
func (r *Region) Rectangles() []geom.Rect {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]geom.Rect, len(r.rects))
	copy(out, r.rects)
	return out
}

// Len returns the number of rectangles
func (r *Region) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rects)
}

// IsEmpty reports whether the region covers nothing
func (r *Region) IsEmpty() bool {
	return r.Len() == 0
}

// Extents returns the bounding box of the region
func (r *Region) Extents() geom.Rect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return extents(r.rects)
}

// Area returns the summed area of all rectangles
func (r *Region) Area() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, rect := range r.rects {
		total += rect.Area()
	}
	return total
}

// Contains checks if a point falls inside any rectangle of the region
func (r *Region) Contains(x, y int32) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rect := range r.rects {
		if rect.Contains(x, y) {
			return true
		}
	}
	return false
}

// CopyFrom replaces the contents of r with a snapshot of src
func (r *Region) CopyFrom(src *Region) {
	if r == src {
		return
	}
	rects := src.Rectangles()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rects = rects
}

// Add unions rect into the region. Empty rectangles are ignored.
func (r *Region) Add(rect geom.Rect) {
	if rect.IsEmpty() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rects = append(r.rects, rect)
	r.simplify()
}

// Subtract removes rect from the region. Every rectangle touched by rect is
// split into at most four pieces: full-width bands above and below rect, and
// left/right pieces inside the vertical overlap band.
func (r *Region) Subtract(sub geom.Rect) {
	if sub.IsEmpty() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.rects) == 0 {
		return
	}

	out := make([]geom.Rect, 0, len(r.rects))
	for _, rect := range r.rects {
		if !rect.Intersects(sub) {
			out = append(out, rect)
			continue
		}
		if sub.ContainsRect(rect) {
			continue
		}
		out = appendFragments(out, rect, sub)
	}

	r.rects = out
	r.simplify()
}

func appendFragments(out []geom.Rect, rect, sub geom.Rect) []geom.Rect {
	x1, y1 := int64(rect.X), int64(rect.Y)
	x2, y2 := rect.Right(), rect.Bottom()
	sx1, sy1 := int64(sub.X), int64(sub.Y)
	sx2, sy2 := sub.Right(), sub.Bottom()

	if y1 < sy1 {
		out = appendNonEmpty(out, geom.FromEdges(x1, y1, x2, sy1))
	}
	if y2 > sy2 {
		out = appendNonEmpty(out, geom.FromEdges(x1, sy2, x2, y2))
	}

	top, bottom := max(y1, sy1), min(y2, sy2)
	if x1 < sx1 {
		out = appendNonEmpty(out, geom.FromEdges(x1, top, sx1, bottom))
	}
	if x2 > sx2 {
		out = appendNonEmpty(out, geom.FromEdges(sx2, top, x2, bottom))
	}
	return out
}

// Pieces past the int32 coordinate space clamp to empty.
func appendNonEmpty(out []geom.Rect, rect geom.Rect) []geom.Rect {
	if rect.IsEmpty() {
		return out
	}
	return append(out, rect)
}

// simplify merges intersecting or edge-adjacent pairs into their bounding box
// until no such pair remains, then drops empty rectangles. Caller holds mu.
//
// A pair whose bounding box does not fit in int32 is not merged. Adjacent
// pairs are already disjoint and stay as they are; an overlapping pair is
// split instead, replacing the second rectangle with its parts outside the
// first.
func (r *Region) simplify() {
	for changed := true; changed; {
		changed = false
	scan:
		for i := 0; i < len(r.rects); i++ {
			for j := i + 1; j < len(r.rects); j++ {
				a, b := r.rects[i], r.rects[j]
				overlap := a.Intersects(b)
				if !overlap && !a.Adjacent(b) {
					continue
				}
				if box, ok := a.Bounds(b); ok {
					r.rects[i] = box
					r.rects = append(r.rects[:j], r.rects[j+1:]...)
					changed = true
					break scan
				}
				if overlap {
					rest := append([]geom.Rect(nil), r.rects[j+1:]...)
					r.rects = appendFragments(r.rects[:j], b, a)
					r.rects = append(r.rects, rest...)
					changed = true
					break scan
				}
			}
		}
	}

	kept := r.rects[:0]
	for _, rect := range r.rects {
		if !rect.IsEmpty() {
			kept = append(kept, rect)
		}
	}
	r.rects = kept

	if r.maxRects > 0 && len(r.rects) > r.maxRects {
		box, ok := boundingBox(r.rects)
		if !ok {
			logger.Warnf("Region %s has %d rectangles (cap %d) but its extents exceed the coordinate range, keeping them",
				r.id, len(r.rects), r.maxRects)
			return
		}
		logger.Warnf("Region %s has %d rectangles (cap %d), collapsing to extents", r.id, len(r.rects), r.maxRects)
		r.rects = []geom.Rect{box}
	}
}

func extents(rects []geom.Rect) geom.Rect {
	var box geom.Rect
	for _, rect := range rects {
		box = box.Union(rect)
	}
	return box
}

func boundingBox(rects []geom.Rect) (geom.Rect, bool) {
	var box geom.Rect
	for _, rect := range rects {
		var ok bool
		if box, ok = box.Bounds(rect); !ok {
			return box, false
		}
	}
	return box, true
}
