package protocol

import (
	"sync"

	"github.com/bnema/wlregion/internal/geom"
	"github.com/bnema/wlregion/internal/logger"
	"github.com/bnema/wlregion/internal/region"
)

// SurfaceState is a snapshot of a surface's committed regions
type SurfaceState struct {
	// InfiniteInput is set when no input region was committed; the surface
	// then accepts input everywhere and Input is nil.
	InfiniteInput bool
	Input         []geom.Rect
	Opaque        []geom.Rect
	Damage        []geom.Rect
}

type surfaceRegions struct {
	input  *region.Region // nil means infinite
	opaque *region.Region
	damage *region.Region
}

// Surface holds the double-buffered region state of a wl_surface.
// Regions passed to set_input_region and set_opaque_region are copied at
// request time, so the client may destroy its wl_region right after.
type Surface struct {
	objectID  uint32
	newRegion func() *region.Region

	mu      sync.RWMutex
	pending surfaceRegions
	current surfaceRegions
}

// newSurface creates a surface whose regions come from newRegion, so they
// share the registry's options.
func newSurface(objectID uint32, newRegion func() *region.Region) *Surface {
	return &Surface{
		objectID:  objectID,
		newRegion: newRegion,
		pending: surfaceRegions{
			opaque: newRegion(),
			damage: newRegion(),
		},
		current: surfaceRegions{
			opaque: newRegion(),
			damage: newRegion(),
		},
	}
}

func (s *Surface) snapshot(src *region.Region) *region.Region {
	dst := s.newRegion()
	if src != nil {
		dst.CopyFrom(src)
	}
	return dst
}

func (s *Surface) setInputRegion(src *region.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if src == nil {
		s.pending.input = nil
		return
	}
	s.pending.input = s.snapshot(src)
}

func (s *Surface) setOpaqueRegion(src *region.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.opaque = s.snapshot(src)
}

func (s *Surface) damage(rect geom.Rect) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.pending.damage.Add(rect)
}

// commit latches pending state. Input and opaque regions stay pending for
// the next commit; damage starts over.
func (s *Surface) commit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.input = nil
	if s.pending.input != nil {
		s.current.input = s.snapshot(s.pending.input)
	}
	s.current.opaque = s.snapshot(s.pending.opaque)
	s.current.damage = s.pending.damage
	s.pending.damage = s.newRegion()
}

// State returns the committed regions
func (s *Surface) State() SurfaceState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := SurfaceState{
		InfiniteInput: s.current.input == nil,
		Opaque:        s.current.opaque.Rectangles(),
		Damage:        s.current.damage.Rectangles(),
	}
	if s.current.input != nil {
		state.Input = s.current.input.Rectangles()
	}
	return state
}

// AcceptsInput reports whether a surface-local point hits the committed
// input region
func (s *Surface) AcceptsInput(x, y int32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current.input == nil {
		return true
	}
	return s.current.input.Contains(x, y)
}

// CreateSurface handles wl_compositor.create_surface
func (cl *Client) CreateSurface(objectID uint32) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if err := cl.checkNewID(objectID); err != nil {
		return err
	}
	cl.surfaces[objectID] = newSurface(objectID, cl.compositor.registry.NewDetached)
	logger.Debugf("Client %d: wl_surface@%d created", cl.id, objectID)
	return nil
}

// SurfaceDestroy handles wl_surface.destroy
func (cl *Client) SurfaceDestroy(objectID uint32) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, err := cl.lookupSurface(objectID); err != nil {
		return err
	}
	delete(cl.surfaces, objectID)
	return nil
}

// SurfaceSetInputRegion handles wl_surface.set_input_region.
// A regionID of 0 is the null region and resets input to infinite.
func (cl *Client) SurfaceSetInputRegion(surfaceID, regionID uint32) error {
	s, src, err := cl.surfaceAndRegion(surfaceID, regionID)
	if err != nil {
		return err
	}
	s.setInputRegion(src)
	return nil
}

// SurfaceSetOpaqueRegion handles wl_surface.set_opaque_region.
// A regionID of 0 is the null region and clears the opaque area.
func (cl *Client) SurfaceSetOpaqueRegion(surfaceID, regionID uint32) error {
	s, src, err := cl.surfaceAndRegion(surfaceID, regionID)
	if err != nil {
		return err
	}
	s.setOpaqueRegion(src)
	return nil
}

// SurfaceDamage handles wl_surface.damage
func (cl *Client) SurfaceDamage(surfaceID uint32, rect geom.Rect) error {
	s, err := cl.surface(surfaceID)
	if err != nil {
		return err
	}
	s.damage(rect)
	return nil
}

// SurfaceCommit handles wl_surface.commit
func (cl *Client) SurfaceCommit(surfaceID uint32) error {
	s, err := cl.surface(surfaceID)
	if err != nil {
		return err
	}
	s.commit()
	return nil
}

// SurfaceState returns the committed state of a surface
func (cl *Client) SurfaceState(surfaceID uint32) (SurfaceState, error) {
	s, err := cl.surface(surfaceID)
	if err != nil {
		return SurfaceState{}, err
	}
	return s.State(), nil
}

// SurfaceAcceptsInput hit-tests a surface-local point against the committed
// input region
func (cl *Client) SurfaceAcceptsInput(surfaceID uint32, x, y int32) (bool, error) {
	s, err := cl.surface(surfaceID)
	if err != nil {
		return false, err
	}
	return s.AcceptsInput(x, y), nil
}

func (cl *Client) surface(objectID uint32) (*Surface, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.lookupSurface(objectID)
}

func (cl *Client) surfaceAndRegion(surfaceID, regionID uint32) (*Surface, *region.Region, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	s, err := cl.lookupSurface(surfaceID)
	if err != nil {
		return nil, nil, err
	}
	if regionID == 0 {
		return s, nil, nil
	}
	r, err := cl.lookupRegion(regionID)
	if err != nil {
		return nil, nil, err
	}
	return s, r, nil
}

// lookupSurface resolves a wl_surface object. Caller holds mu.
func (cl *Client) lookupSurface(objectID uint32) (*Surface, error) {
	if cl.closed {
		return nil, errClosed(objectID)
	}
	s, ok := cl.surfaces[objectID]
	if !ok {
		return nil, invalidObject(objectID, "no wl_surface with this id")
	}
	return s, nil
}
