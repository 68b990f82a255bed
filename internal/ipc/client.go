package ipc

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/bnema/wlregion/internal/geom"
	"github.com/bnema/wlregion/internal/logger"
	"github.com/bnema/wlregion/internal/protocol"
	"github.com/bnema/wlregion/internal/region"
	"google.golang.org/protobuf/types/known/structpb"
)

// Status summarizes the daemon state
type Status struct {
	Clients int
	Regions int
}

// Session is a persistent connection to the region daemon. The daemon
// treats it as one client: objects created through a session are destroyed
// when it closes.
type Session struct {
	mu      sync.Mutex
	conn    net.Conn
	timeout time.Duration
}

// Dial opens a session. An empty socketPath selects the per-user default.
func Dial(socketPath string, timeout time.Duration) (*Session, error) {
	if socketPath == "" {
		var err error
		socketPath, err = GetSocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get socket path: %w", err)
		}
	}

	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, fmt.Errorf("wlregion daemon is not running")
		}
		return nil, fmt.Errorf("failed to connect to wlregion daemon: %w", err)
	}

	return &Session{conn: conn, timeout: timeout}, nil
}

// IsRunning checks if a daemon answers on socketPath
func IsRunning(socketPath string, timeout time.Duration) bool {
	s, err := Dial(socketPath, timeout)
	if err != nil {
		return false
	}
	defer s.Close()

	_, err = s.Status()
	return err == nil
}

// Close closes the connection
func (s *Session) Close() error {
	return s.conn.Close()
}

// CreateRegion sends wl_compositor.create_region
func (s *Session) CreateRegion(id uint32) error {
	_, err := s.request(MsgCreateRegion, map[string]interface{}{"id": id})
	return err
}

// RegionAdd sends wl_region.add
func (s *Session) RegionAdd(id uint32, rect geom.Rect) error {
	_, err := s.request(MsgRegionAdd, map[string]interface{}{"id": id, "rect": RectValue(rect)})
	return err
}

// RegionSubtract sends wl_region.subtract
func (s *Session) RegionSubtract(id uint32, rect geom.Rect) error {
	_, err := s.request(MsgRegionSubtract, map[string]interface{}{"id": id, "rect": RectValue(rect)})
	return err
}

// RegionDestroy sends wl_region.destroy
func (s *Session) RegionDestroy(id uint32) error {
	_, err := s.request(MsgRegionDestroy, map[string]interface{}{"id": id})
	return err
}

// RegionRectangles reads the rectangles of a region object
func (s *Session) RegionRectangles(id uint32) ([]geom.Rect, error) {
	resp, err := s.request(MsgRegionGet, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	return GetRects(resp, "rects")
}

// CreateSurface sends wl_compositor.create_surface
func (s *Session) CreateSurface(id uint32) error {
	_, err := s.request(MsgCreateSurface, map[string]interface{}{"id": id})
	return err
}

// SurfaceSetInputRegion sends wl_surface.set_input_region
func (s *Session) SurfaceSetInputRegion(surfaceID, regionID uint32) error {
	_, err := s.request(MsgSurfaceSetInputRegion, map[string]interface{}{"surface": surfaceID, "region": regionID})
	return err
}

// SurfaceSetOpaqueRegion sends wl_surface.set_opaque_region
func (s *Session) SurfaceSetOpaqueRegion(surfaceID, regionID uint32) error {
	_, err := s.request(MsgSurfaceSetOpaqueRegion, map[string]interface{}{"surface": surfaceID, "region": regionID})
	return err
}

// SurfaceDamage sends wl_surface.damage
func (s *Session) SurfaceDamage(surfaceID uint32, rect geom.Rect) error {
	_, err := s.request(MsgSurfaceDamage, map[string]interface{}{"surface": surfaceID, "rect": RectValue(rect)})
	return err
}

// SurfaceCommit sends wl_surface.commit
func (s *Session) SurfaceCommit(surfaceID uint32) error {
	_, err := s.request(MsgSurfaceCommit, map[string]interface{}{"surface": surfaceID})
	return err
}

// SurfaceDestroy sends wl_surface.destroy
func (s *Session) SurfaceDestroy(surfaceID uint32) error {
	_, err := s.request(MsgSurfaceDestroy, map[string]interface{}{"surface": surfaceID})
	return err
}

// SurfaceState reads the committed state of a surface
func (s *Session) SurfaceState(surfaceID uint32) (protocol.SurfaceState, error) {
	resp, err := s.request(MsgSurfaceState, map[string]interface{}{"surface": surfaceID})
	if err != nil {
		return protocol.SurfaceState{}, err
	}
	return GetSurfaceState(resp)
}

// SurfaceAcceptsInput hit-tests a point against a surface's input region
func (s *Session) SurfaceAcceptsInput(surfaceID uint32, x, y int32) (bool, error) {
	resp, err := s.request(MsgSurfaceHit, map[string]interface{}{"surface": surfaceID, "x": x, "y": y})
	if err != nil {
		return false, err
	}
	return resp.GetFields()["hit"].GetBoolValue(), nil
}

// List returns every live region object on the daemon
func (s *Session) List() ([]protocol.RegionInfo, error) {
	resp, err := s.request(MsgList, nil)
	if err != nil {
		return nil, err
	}

	values := resp.GetFields()["regions"].GetListValue().GetValues()
	infos := make([]protocol.RegionInfo, 0, len(values))
	for _, v := range values {
		entry := v.GetStructValue()
		if entry == nil {
			return nil, fmt.Errorf("malformed list entry")
		}
		info, err := decodeRegionInfo(entry)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Status returns the daemon's client and region counts
func (s *Session) Status() (*Status, error) {
	resp, err := s.request(MsgStatus, nil)
	if err != nil {
		return nil, err
	}
	clients, err := GetUint32(resp, "clients")
	if err != nil {
		return nil, err
	}
	regions, err := GetUint32(resp, "regions")
	if err != nil {
		return nil, err
	}
	return &Status{Clients: int(clients), Regions: int(regions)}, nil
}

func decodeRegionInfo(entry *structpb.Struct) (protocol.RegionInfo, error) {
	clientID, err := GetUint32(entry, "client")
	if err != nil {
		return protocol.RegionInfo{}, err
	}
	objectID, err := GetUint32(entry, "object")
	if err != nil {
		return protocol.RegionInfo{}, err
	}
	regionID, err := getNumber(entry, "region")
	if err != nil {
		return protocol.RegionInfo{}, err
	}
	rects, err := GetRects(entry, "rects")
	if err != nil {
		return protocol.RegionInfo{}, err
	}
	return protocol.RegionInfo{
		Client:     protocol.ClientID(clientID),
		ObjectID:   objectID,
		ID:         region.ID(regionID),
		Rectangles: rects,
	}, nil
}

// request sends one message and waits for its response
func (s *Session) request(msgType string, fields map[string]interface{}) (*structpb.Struct, error) {
	msg, err := NewMessage(msgType, fields)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		logger.Warnf("Failed to set connection deadline: %v", err)
	}

	if err := writeMessage(s.conn, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	response, err := readMessage(s.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch MessageType(response) {
	case MsgOK:
		return response, nil
	case MsgError:
		return nil, GetErrorResponse(response)
	default:
		return nil, fmt.Errorf("unexpected response type: %q", MessageType(response))
	}
}

func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENOENT)
}
