package ipc

import (
	"fmt"

	"github.com/bnema/wlregion/internal/logger"
	"github.com/bnema/wlregion/internal/protocol"
	"google.golang.org/protobuf/types/known/structpb"
)

// CompositorHandler serves the region daemon: each connection becomes one
// protocol client of the compositor
type CompositorHandler struct {
	compositor *protocol.Compositor
}

// NewCompositorHandler creates a handler backed by compositor
func NewCompositorHandler(compositor *protocol.Compositor) *CompositorHandler {
	return &CompositorHandler{compositor: compositor}
}

// Open implements Handler
func (h *CompositorHandler) Open() ConnHandler {
	return &clientConn{
		compositor: h.compositor,
		client:     h.compositor.NewClient(),
	}
}

type clientConn struct {
	compositor *protocol.Compositor
	client     *protocol.Client
}

func (c *clientConn) Close() {
	c.client.Disconnect()
}

func (c *clientConn) HandleMessage(msg *structpb.Struct) *structpb.Struct {
	msgType := MessageType(msg)
	logger.Debugf("Client %d: %s", c.client.ID(), msgType)

	fields, err := c.dispatch(msgType, msg)
	if err != nil {
		return NewErrorMessage(err)
	}

	response, err := NewOKMessage(fields)
	if err != nil {
		return NewErrorMessage(err)
	}
	return response
}

func (c *clientConn) dispatch(msgType string, msg *structpb.Struct) (map[string]interface{}, error) {
	switch msgType {
	case MsgCreateRegion:
		id, err := GetUint32(msg, "id")
		if err != nil {
			return nil, err
		}
		return nil, c.client.CreateRegion(id)

	case MsgRegionAdd, MsgRegionSubtract:
		id, err := GetUint32(msg, "id")
		if err != nil {
			return nil, err
		}
		rect, err := GetRect(msg, "rect")
		if err != nil {
			return nil, err
		}
		if msgType == MsgRegionAdd {
			return nil, c.client.RegionAdd(id, rect)
		}
		return nil, c.client.RegionSubtract(id, rect)

	case MsgRegionDestroy:
		id, err := GetUint32(msg, "id")
		if err != nil {
			return nil, err
		}
		return nil, c.client.RegionDestroy(id)

	case MsgRegionGet:
		id, err := GetUint32(msg, "id")
		if err != nil {
			return nil, err
		}
		rects, err := c.client.RegionRectangles(id)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"rects": RectsValue(rects)}, nil

	case MsgCreateSurface:
		id, err := GetUint32(msg, "id")
		if err != nil {
			return nil, err
		}
		return nil, c.client.CreateSurface(id)

	case MsgSurfaceSetInputRegion, MsgSurfaceSetOpaqueRegion:
		surface, err := GetUint32(msg, "surface")
		if err != nil {
			return nil, err
		}
		region, err := GetUint32(msg, "region")
		if err != nil {
			return nil, err
		}
		if msgType == MsgSurfaceSetInputRegion {
			return nil, c.client.SurfaceSetInputRegion(surface, region)
		}
		return nil, c.client.SurfaceSetOpaqueRegion(surface, region)

	case MsgSurfaceDamage:
		surface, err := GetUint32(msg, "surface")
		if err != nil {
			return nil, err
		}
		rect, err := GetRect(msg, "rect")
		if err != nil {
			return nil, err
		}
		return nil, c.client.SurfaceDamage(surface, rect)

	case MsgSurfaceCommit, MsgSurfaceDestroy:
		surface, err := GetUint32(msg, "surface")
		if err != nil {
			return nil, err
		}
		if msgType == MsgSurfaceCommit {
			return nil, c.client.SurfaceCommit(surface)
		}
		return nil, c.client.SurfaceDestroy(surface)

	case MsgSurfaceState:
		surface, err := GetUint32(msg, "surface")
		if err != nil {
			return nil, err
		}
		state, err := c.client.SurfaceState(surface)
		if err != nil {
			return nil, err
		}
		return SurfaceStateValue(state), nil

	case MsgSurfaceHit:
		surface, err := GetUint32(msg, "surface")
		if err != nil {
			return nil, err
		}
		x, err := GetInt32(msg, "x")
		if err != nil {
			return nil, err
		}
		y, err := GetInt32(msg, "y")
		if err != nil {
			return nil, err
		}
		hit, err := c.client.SurfaceAcceptsInput(surface, x, y)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"hit": hit}, nil

	case MsgList:
		infos := c.compositor.Regions()
		regions := make([]interface{}, len(infos))
		for i, info := range infos {
			regions[i] = RegionInfoValue(info)
		}
		return map[string]interface{}{"regions": regions}, nil

	case MsgStatus:
		return map[string]interface{}{
			"clients": len(c.compositor.Clients()),
			"regions": c.compositor.Registry().Len(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown message type: %q", msgType)
	}
}
