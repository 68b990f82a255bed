package region

import (
	"sync"
	"testing"

	"github.com/bnema/wlregion/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateGetDestroy(t *testing.T) {
	reg := NewRegistry()

	id, r := reg.Create()
	require.NotNil(t, r)
	assert.Equal(t, id, r.ID())

	got, ok := reg.Get(id)
	require.True(t, ok)
	assert.Same(t, r, got)
	assert.Empty(t, got.Rectangles())

	destroyed, ok := reg.Destroy(id)
	require.True(t, ok)
	assert.Same(t, r, destroyed)

	_, ok = reg.Get(id)
	assert.False(t, ok)

	_, ok = reg.Destroy(id)
	assert.False(t, ok)
}

func TestRegistry_DestroyedRegionOutlivesEntry(t *testing.T) {
	reg := NewRegistry()
	id, r := reg.Create()
	r.Add(geom.New(0, 0, 10, 10))

	handle, ok := reg.Destroy(id)
	require.True(t, ok)

	handle.Add(geom.New(10, 0, 10, 10))
	assert.Equal(t, []geom.Rect{geom.New(0, 0, 20, 10)}, r.Rectangles())
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_GetMissing(t *testing.T) {
	reg := NewRegistry()
	r, ok := reg.Get(ID(0))
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestRegistry_IDsAreMonotonic(t *testing.T) {
	reg := NewRegistry()
	const n = 100

	var prev ID
	for i := 0; i < n; i++ {
		id, _ := reg.Create()
		assert.Greater(t, id, prev)
		prev = id
	}

	ids := reg.IDs()
	assert.Len(t, ids, n)
	assert.IsIncreasing(t, ids)
}

func TestRegistry_IDsNotReusedAcrossRegistries(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	idA, _ := a.Create()
	a.Destroy(idA)
	idB, _ := b.Create()
	assert.NotEqual(t, idA, idB)
	assert.NotZero(t, idA)
}

func TestRegistry_ConcurrentCreate(t *testing.T) {
	reg := NewRegistry()
	const n = 500

	ids := make(chan ID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := reg.Create()
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[ID]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, reg.Len())

	for id := range seen {
		_, ok := reg.Get(id)
		assert.True(t, ok, "lost region %s", id)
	}
}

func TestRegistry_ConcurrentMixedAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int32) {
			defer wg.Done()
			id, r := reg.Create()
			r.Add(geom.New(i, i, 10, 10))
			if got, ok := reg.Get(id); ok {
				got.Subtract(geom.New(i, i, 5, 5))
			}
			_ = reg.IDs()
			reg.Destroy(id)
		}(int32(i))
	}
	wg.Wait()

	assert.Zero(t, reg.Len())
}

func TestRegistry_OptionsApplyToRegions(t *testing.T) {
	reg := NewRegistry(WithMaxRectangles(1))
	_, r := reg.Create()
	r.Add(geom.New(0, 0, 10, 10))
	r.Add(geom.New(20, 0, 10, 10))
	assert.Equal(t, []geom.Rect{geom.New(0, 0, 30, 10)}, r.Rectangles())
}

func TestRegistry_NewDetached(t *testing.T) {
	reg := NewRegistry(WithMaxRectangles(2))

	r := reg.NewDetached()
	_, ok := reg.Get(r.ID())
	assert.False(t, ok, "detached regions are not registered")
	assert.Equal(t, 0, reg.Len())

	for i := int32(0); i < 3; i++ {
		r.Add(geom.New(i*20, 0, 10, 10))
	}
	assert.Equal(t, []geom.Rect{geom.New(0, 0, 50, 10)}, r.Rectangles())
}
