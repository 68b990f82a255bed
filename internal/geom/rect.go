// Package geom provides the axis-aligned rectangle primitive used by regions
package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rect is an axis-aligned rectangle in surface-local coordinates.
// X and Y are the top-left corner; the right and bottom edges are exclusive.
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// New creates a Rect from its origin and size
func New(x, y, width, height int32) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// FromEdges builds a Rect from exclusive edges, clamping them to the int32
// coordinate space. It does not check that the size fits: callers pass edges
// taken from within an existing rectangle.
func FromEdges(x1, y1, x2, y2 int64) Rect {
	x1, y1 = clamp(x1), clamp(y1)
	x2, y2 = clamp(x2), clamp(y2)
	return Rect{X: int32(x1), Y: int32(y1), Width: int32(x2 - x1), Height: int32(y2 - y1)}
}

func clamp(v int64) int64 {
	return min(max(v, math.MinInt32), math.MaxInt32)
}

// Right returns the exclusive right edge. It is 64-bit because X+Width
// can leave the int32 range.
func (r Rect) Right() int64 {
	return int64(r.X) + int64(r.Width)
}

// Bottom returns the exclusive bottom edge
func (r Rect) Bottom() int64 {
	return int64(r.Y) + int64(r.Height)
}

// IsEmpty reports whether the rectangle has zero or negative area
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the covered area, 0 for empty rectangles
func (r Rect) Area() int64 {
	if r.IsEmpty() {
		return 0
	}
	return int64(r.Width) * int64(r.Height)
}

// Contains checks if a point is within this rectangle
func (r Rect) Contains(x, y int32) bool {
	return x >= r.X && int64(x) < r.Right() && y >= r.Y && int64(y) < r.Bottom()
}

// ContainsRect reports whether o lies inside r on all four sides
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o share a non-empty area
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return int64(r.X) < o.Right() && int64(o.X) < r.Right() &&
		int64(r.Y) < o.Bottom() && int64(o.Y) < r.Bottom()
}

// Adjacent reports whether r and o touch along a full shared edge: same
// column (X and Width) stacked vertically, or same row (Y and Height) side by side.
func (r Rect) Adjacent(o Rect) bool {
	if r.X == o.X && r.Width == o.Width && (r.Bottom() == int64(o.Y) || o.Bottom() == int64(r.Y)) {
		return true
	}
	if r.Y == o.Y && r.Height == o.Height && (r.Right() == int64(o.X) || o.Right() == int64(r.X)) {
		return true
	}
	return false
}

// Bounds returns the smallest rectangle enclosing both r and o. ok is false
// when that box is wider or taller than an int32 can hold. Empty operands are
// ignored.
func (r Rect) Bounds(o Rect) (box Rect, ok bool) {
	if r.IsEmpty() {
		return o, true
	}
	if o.IsEmpty() {
		return r, true
	}
	x1, y1 := min(int64(r.X), int64(o.X)), min(int64(r.Y), int64(o.Y))
	x2, y2 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	if x2-x1 > math.MaxInt32 || y2-y1 > math.MaxInt32 {
		return Rect{
			X:      int32(x1),
			Y:      int32(y1),
			Width:  int32(min(x2-x1, math.MaxInt32)),
			Height: int32(min(y2-y1, math.MaxInt32)),
		}, false
	}
	return Rect{X: int32(x1), Y: int32(y1), Width: int32(x2 - x1), Height: int32(y2 - y1)}, true
}

// Union returns the smallest rectangle enclosing both r and o.
// This is a bounding box, not a precise union. Empty operands are ignored.
// A box too large for int32 saturates at math.MaxInt32 in width or height;
// use Bounds where that matters.
func (r Rect) Union(o Rect) Rect {
	box, _ := r.Bounds(o)
	return box
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Parse reads a rectangle written as "x,y,width,height"
func Parse(s string) (Rect, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("invalid rectangle %q: expected x,y,width,height", s)
	}

	var vals [4]int32
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return Rect{}, fmt.Errorf("invalid rectangle %q: %w", s, err)
		}
		vals[i] = int32(v)
	}

	return New(vals[0], vals[1], vals[2], vals[3]), nil
}
