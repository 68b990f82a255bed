package region

import (
	"math"
	"sync"
	"testing"

	"github.com/bnema/wlregion/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalArea(rects []geom.Rect) int64 {
	var total int64
	for _, r := range rects {
		total += r.Area()
	}
	return total
}

func assertDisjoint(t *testing.T, rects []geom.Rect) {
	t.Helper()
	for i := range rects {
		assert.False(t, rects[i].IsEmpty(), "rectangle %s is empty", rects[i])
		for j := i + 1; j < len(rects); j++ {
			assert.False(t, rects[i].Intersects(rects[j]), "%s overlaps %s", rects[i], rects[j])
		}
	}
}

func TestRegion_EmptyRectanglesAreIgnored(t *testing.T) {
	empties := []geom.Rect{
		geom.New(0, 0, 0, 0),
		geom.New(10, 10, 0, 50),
		geom.New(10, 10, 50, 0),
		geom.New(-5, -5, -10, 10),
	}

	r := New(NextID())
	r.Add(geom.New(0, 0, 30, 30))
	r.Add(geom.New(50, 50, 10, 10))
	before := r.Rectangles()

	for _, e := range empties {
		r.Add(e)
		assert.Equal(t, before, r.Rectangles(), "add %s", e)
		r.Subtract(e)
		assert.Equal(t, before, r.Rectangles(), "subtract %s", e)
	}
}

func TestRegion_AddThenSubtractSameRectangle(t *testing.T) {
	r := New(NextID())
	r.Add(geom.New(0, 0, 100, 100))
	r.Subtract(geom.New(0, 0, 100, 100))

	assert.Empty(t, r.Rectangles())
	assert.True(t, r.IsEmpty())
}

func TestRegion_SubtractFromEmptyRegion(t *testing.T) {
	r := New(NextID())
	r.Subtract(geom.New(0, 0, 10, 10))
	assert.Empty(t, r.Rectangles())
}

func TestRegion_NonOverlappingAddsAccumulate(t *testing.T) {
	r := New(NextID())
	r.Add(geom.New(0, 0, 10, 10))
	r.Add(geom.New(20, 20, 10, 10))

	rects := r.Rectangles()
	require.Len(t, rects, 2)
	assert.ElementsMatch(t, []geom.Rect{geom.New(0, 0, 10, 10), geom.New(20, 20, 10, 10)}, rects)
}

func TestRegion_AdjacentAddsMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b geom.Rect
		want geom.Rect
	}{
		{"horizontal", geom.New(0, 0, 10, 10), geom.New(10, 0, 10, 10), geom.New(0, 0, 20, 10)},
		{"horizontal reversed", geom.New(10, 0, 10, 10), geom.New(0, 0, 10, 10), geom.New(0, 0, 20, 10)},
		{"vertical", geom.New(0, 0, 10, 10), geom.New(0, 10, 10, 10), geom.New(0, 0, 10, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(NextID())
			r.Add(tt.a)
			r.Add(tt.b)
			assert.Equal(t, []geom.Rect{tt.want}, r.Rectangles())
		})
	}
}

func TestRegion_CornerTouchDoesNotMerge(t *testing.T) {
	r := New(NextID())
	r.Add(geom.New(0, 0, 10, 10))
	r.Add(geom.New(10, 10, 10, 10))
	assert.Len(t, r.Rectangles(), 2)
}

func TestRegion_OverlappingAddsUseBoundingBox(t *testing.T) {
	// The L-shaped union over-covers to its bounding box.
	r := New(NextID())
	r.Add(geom.New(0, 0, 10, 10))
	r.Add(geom.New(5, 5, 10, 10))

	assert.Equal(t, []geom.Rect{geom.New(0, 0, 15, 15)}, r.Rectangles())
	assert.True(t, r.Contains(14, 0))
}

func TestRegion_MergeCascades(t *testing.T) {
	// The third rectangle bridges the first two, which then merge together.
	r := New(NextID())
	r.Add(geom.New(0, 0, 10, 10))
	r.Add(geom.New(20, 0, 10, 10))
	require.Len(t, r.Rectangles(), 2)

	r.Add(geom.New(10, 0, 10, 10))
	assert.Equal(t, []geom.Rect{geom.New(0, 0, 30, 10)}, r.Rectangles())
}

func TestRegion_SubtractCenteredHole(t *testing.T) {
	r := New(NextID())
	r.Add(geom.New(0, 0, 100, 100))
	r.Subtract(geom.New(25, 25, 50, 50))

	rects := r.Rectangles()
	assert.Len(t, rects, 4)
	assert.Equal(t, int64(100*100-50*50), totalArea(rects))
	assert.Equal(t, int64(7500), r.Area())
	assertDisjoint(t, rects)

	square := geom.New(0, 0, 100, 100)
	hole := geom.New(25, 25, 50, 50)
	for y := int32(-5); y <= 105; y += 5 {
		for x := int32(-5); x <= 105; x += 5 {
			want := square.Contains(x, y) && !hole.Contains(x, y)
			assert.Equal(t, want, r.Contains(x, y), "point (%d,%d)", x, y)
		}
	}
}

func TestRegion_SubtractFragments(t *testing.T) {
	tests := []struct {
		name string
		sub  geom.Rect
		want []geom.Rect
	}{
		{
			name: "right half",
			sub:  geom.New(50, 0, 50, 100),
			want: []geom.Rect{geom.New(0, 0, 50, 100)},
		},
		{
			name: "horizontal band",
			sub:  geom.New(-10, 40, 200, 20),
			want: []geom.Rect{geom.New(0, 0, 100, 40), geom.New(0, 60, 100, 40)},
		},
		{
			name: "top left corner",
			sub:  geom.New(-10, -10, 60, 60),
			want: []geom.Rect{geom.New(0, 50, 100, 50), geom.New(50, 0, 50, 50)},
		},
		{
			name: "disjoint",
			sub:  geom.New(200, 200, 10, 10),
			want: []geom.Rect{geom.New(0, 0, 100, 100)},
		},
		{
			name: "enclosing",
			sub:  geom.New(-1, -1, 102, 102),
			want: []geom.Rect{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(NextID())
			r.Add(geom.New(0, 0, 100, 100))
			r.Subtract(tt.sub)
			assert.ElementsMatch(t, tt.want, r.Rectangles())
		})
	}
}

func TestRegion_SubtractMergesAdjacentFragments(t *testing.T) {
	// Two stacked rows lose the same right-hand column; the left pieces are
	// stacked with equal width and merge back into one rectangle.
	r := New(NextID())
	r.Add(geom.New(0, 0, 100, 50))
	r.Add(geom.New(0, 50, 50, 50))
	require.Len(t, r.Rectangles(), 2)

	r.Subtract(geom.New(50, 0, 50, 50))
	assert.Equal(t, []geom.Rect{geom.New(0, 0, 50, 100)}, r.Rectangles())
}

func TestRegion_Clear(t *testing.T) {
	r := New(NextID())
	r.Add(geom.New(0, 0, 10, 10))
	r.Clear()
	assert.Empty(t, r.Rectangles())
	r.Clear()
	assert.Empty(t, r.Rectangles())
}

func TestRegion_RectanglesIsSnapshot(t *testing.T) {
	r := New(NextID())
	r.Add(geom.New(0, 0, 10, 10))

	rects := r.Rectangles()
	rects[0] = geom.New(1, 1, 1, 1)
	assert.Equal(t, []geom.Rect{geom.New(0, 0, 10, 10)}, r.Rectangles())
}

func TestRegion_ExtentsAndCopy(t *testing.T) {
	r := New(NextID())
	assert.Equal(t, geom.Rect{}, r.Extents())

	r.Add(geom.New(0, 0, 10, 10))
	r.Add(geom.New(40, 30, 10, 10))
	assert.Equal(t, geom.New(0, 0, 50, 40), r.Extents())

	c := New(NextID())
	c.CopyFrom(r)
	assert.ElementsMatch(t, r.Rectangles(), c.Rectangles())

	r.Clear()
	assert.Len(t, c.Rectangles(), 2)

	c.CopyFrom(c)
	assert.Len(t, c.Rectangles(), 2)
}

func TestRegion_MaxRectanglesCollapsesToExtents(t *testing.T) {
	r := New(NextID(), WithMaxRectangles(3))
	for i := int32(0); i < 3; i++ {
		r.Add(geom.New(i*20, 0, 10, 10))
	}
	require.Len(t, r.Rectangles(), 3)

	r.Add(geom.New(60, 0, 10, 10))
	assert.Equal(t, []geom.Rect{geom.New(0, 0, 70, 10)}, r.Rectangles())
}

func TestRegion_ExtremeCoordinatesDoNotPanic(t *testing.T) {
	r := New(NextID())
	inputs := []geom.Rect{
		geom.New(math.MaxInt32, math.MaxInt32, math.MaxInt32, math.MaxInt32),
		geom.New(math.MinInt32, math.MinInt32, math.MaxInt32, math.MaxInt32),
		geom.New(-100, -100, 50, 50),
		geom.New(0, 0, 1, math.MaxInt32),
	}

	assert.NotPanics(t, func() {
		for _, in := range inputs {
			r.Add(in)
		}
		for _, in := range inputs {
			r.Subtract(in)
		}
		_ = r.Rectangles()
	})
}

func TestRegion_WideMergeKeepsCoverage(t *testing.T) {
	r := New(NextID())
	r.Add(geom.New(-1_000_000_000, 0, 1_500_000_000, 10))
	r.Add(geom.New(500_000_000, 0, 1_500_000_000, 10))

	rects := r.Rectangles()
	require.Len(t, rects, 2, "a 3e9 wide bounding box cannot be stored")
	assertDisjoint(t, rects)
	assert.Equal(t, int64(30_000_000_000), totalArea(rects))

	for _, x := range []int32{-1_000_000_000, 0, 499_999_999, 500_000_000, 1_999_999_999} {
		assert.True(t, r.Contains(x, 5), "x=%d", x)
	}
	assert.False(t, r.Contains(-1_000_000_001, 5))
}

func TestRegion_WideOverlapIsSplit(t *testing.T) {
	r := New(NextID())
	r.Add(geom.New(-2_000_000_000, 0, 2_000_000_000, 10))
	r.Add(geom.New(-1_000_000_000, 0, math.MaxInt32, 10))

	rects := r.Rectangles()
	assertDisjoint(t, rects)
	assert.Equal(t, int64(20_000_000_000)+int64(1_147_483_647)*10, totalArea(rects))
	assert.True(t, r.Contains(-2_000_000_000, 0))
	assert.True(t, r.Contains(1_147_483_646, 9))
	assert.False(t, r.Contains(1_147_483_647, 0))
}

func TestRegion_CapKeepsRectanglesWhenExtentsOverflow(t *testing.T) {
	r := New(NextID(), WithMaxRectangles(1))
	r.Add(geom.New(math.MinInt32, 0, 10, 10))
	r.Add(geom.New(math.MaxInt32-10, 0, 10, 10))

	assert.Len(t, r.Rectangles(), 2)
	assert.True(t, r.Contains(math.MinInt32, 0))
	assert.True(t, r.Contains(math.MaxInt32-1, 0))
}

func TestRegion_ConcurrentAdds(t *testing.T) {
	r := New(NextID())
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int32) {
			defer wg.Done()
			r.Add(geom.New(i*20, 0, 10, 10))
			_ = r.Rectangles()
		}(int32(i))
	}
	wg.Wait()

	rects := r.Rectangles()
	assert.Len(t, rects, n)
	assertDisjoint(t, rects)
	assert.Equal(t, int64(n*100), totalArea(rects))
}
