package protocol

import (
	"cmp"
	"slices"
	"sync"

	"github.com/bnema/wlregion/internal/geom"
	"github.com/bnema/wlregion/internal/logger"
	"github.com/bnema/wlregion/internal/region"
)

// ClientID identifies a connected client
type ClientID uint32

// RegionInfo describes one live wl_region object
type RegionInfo struct {
	Client     ClientID
	ObjectID   uint32
	ID         region.ID
	Rectangles []geom.Rect
}

// Compositor is the server side of wl_compositor. It owns the region
// registry shared by all clients.
type Compositor struct {
	registry *region.Registry

	mu         sync.RWMutex
	clients    map[ClientID]*Client
	lastClient ClientID
}

// NewCompositor creates a compositor backed by registry
func NewCompositor(registry *region.Registry) *Compositor {
	return &Compositor{
		registry: registry,
		clients:  make(map[ClientID]*Client),
	}
}

// Registry returns the shared region registry
func (c *Compositor) Registry() *region.Registry {
	return c.registry
}

// NewClient registers a new client connection
func (c *Compositor) NewClient() *Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastClient++
	client := &Client{
		id:         c.lastClient,
		compositor: c,
		regions:    make(map[uint32]region.ID),
		surfaces:   make(map[uint32]*Surface),
	}
	c.clients[client.id] = client

	logger.Debugf("Client %d connected", client.id)
	return client
}

// Clients returns the connected clients ordered by id
func (c *Compositor) Clients() []*Client {
	c.mu.RLock()
	clients := make([]*Client, 0, len(c.clients))
	for _, client := range c.clients {
		clients = append(clients, client)
	}
	c.mu.RUnlock()

	slices.SortFunc(clients, func(a, b *Client) int {
		return cmp.Compare(a.id, b.id)
	})
	return clients
}

// Regions lists every live region object across clients
func (c *Compositor) Regions() []RegionInfo {
	var infos []RegionInfo
	for _, client := range c.Clients() {
		infos = append(infos, client.regionInfos()...)
	}
	return infos
}

func (c *Compositor) removeClient(id ClientID) {
	c.mu.Lock()
	delete(c.clients, id)
	c.mu.Unlock()
}

// Client holds one client's object table. Requests from a client are
// serialized, matching in-order delivery on a Wayland connection.
type Client struct {
	id         ClientID
	compositor *Compositor

	mu       sync.Mutex
	regions  map[uint32]region.ID
	surfaces map[uint32]*Surface
	closed   bool
}

// ID returns the client id
func (cl *Client) ID() ClientID {
	return cl.id
}

// CreateRegion handles wl_compositor.create_region
func (cl *Client) CreateRegion(objectID uint32) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if err := cl.checkNewID(objectID); err != nil {
		return err
	}

	id, _ := cl.compositor.registry.Create()
	cl.regions[objectID] = id
	logger.Debugf("Client %d: wl_region@%d -> region %s", cl.id, objectID, id)
	return nil
}

// RegionAdd handles wl_region.add
func (cl *Client) RegionAdd(objectID uint32, rect geom.Rect) error {
	r, err := cl.region(objectID)
	if err != nil {
		return err
	}
	r.Add(rect)
	return nil
}

// RegionSubtract handles wl_region.subtract
func (cl *Client) RegionSubtract(objectID uint32, rect geom.Rect) error {
	r, err := cl.region(objectID)
	if err != nil {
		return err
	}
	r.Subtract(rect)
	return nil
}

// RegionDestroy handles wl_region.destroy
func (cl *Client) RegionDestroy(objectID uint32) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.closed {
		return errClosed(objectID)
	}
	id, ok := cl.regions[objectID]
	if !ok {
		return invalidObject(objectID, "no wl_region with this id")
	}
	delete(cl.regions, objectID)
	cl.compositor.registry.Destroy(id)
	return nil
}

// RegionRectangles returns the current rectangles of a region object
func (cl *Client) RegionRectangles(objectID uint32) ([]geom.Rect, error) {
	r, err := cl.region(objectID)
	if err != nil {
		return nil, err
	}
	return r.Rectangles(), nil
}

// Disconnect destroys every object the client still owns
func (cl *Client) Disconnect() {
	cl.mu.Lock()
	if cl.closed {
		cl.mu.Unlock()
		return
	}
	cl.closed = true
	for objectID, id := range cl.regions {
		cl.compositor.registry.Destroy(id)
		delete(cl.regions, objectID)
	}
	clear(cl.surfaces)
	cl.mu.Unlock()

	cl.compositor.removeClient(cl.id)
	logger.Debugf("Client %d disconnected", cl.id)
}

func (cl *Client) region(objectID uint32) (*region.Region, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.lookupRegion(objectID)
}

// lookupRegion resolves a wl_region object. Caller holds mu.
func (cl *Client) lookupRegion(objectID uint32) (*region.Region, error) {
	if cl.closed {
		return nil, errClosed(objectID)
	}
	id, ok := cl.regions[objectID]
	if !ok {
		return nil, invalidObject(objectID, "no wl_region with this id")
	}
	r, ok := cl.compositor.registry.Get(id)
	if !ok {
		return nil, &ProtocolError{ObjectID: objectID, Code: ErrImplementation, Message: "region " + id.String() + " missing from registry"}
	}
	return r, nil
}

// checkNewID validates a new_id argument. Caller holds mu.
func (cl *Client) checkNewID(objectID uint32) error {
	if cl.closed {
		return errClosed(objectID)
	}
	if objectID == 0 {
		return invalidObject(objectID, "new id 0 is the null object")
	}
	if _, ok := cl.regions[objectID]; ok {
		return invalidObject(objectID, "id already in use")
	}
	if _, ok := cl.surfaces[objectID]; ok {
		return invalidObject(objectID, "id already in use")
	}
	return nil
}

func (cl *Client) regionInfos() []RegionInfo {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	infos := make([]RegionInfo, 0, len(cl.regions))
	for objectID, id := range cl.regions {
		r, ok := cl.compositor.registry.Get(id)
		if !ok {
			continue
		}
		infos = append(infos, RegionInfo{
			Client:     cl.id,
			ObjectID:   objectID,
			ID:         id,
			Rectangles: r.Rectangles(),
		})
	}
	slices.SortFunc(infos, func(a, b RegionInfo) int {
		return cmp.Compare(a.ObjectID, b.ObjectID)
	})
	return infos
}

func errClosed(objectID uint32) *ProtocolError {
	return &ProtocolError{ObjectID: objectID, Code: ErrImplementation, Message: "client disconnected"}
}
