package ipc

import (
	"errors"
	"fmt"
	"math"

	"github.com/bnema/wlregion/internal/geom"
	"github.com/bnema/wlregion/internal/protocol"
	"google.golang.org/protobuf/types/known/structpb"
)

// Message types. Every message is a google.protobuf.Struct whose "type"
// field holds one of these.
const (
	MsgCreateRegion           = "create_region"
	MsgRegionAdd              = "region_add"
	MsgRegionSubtract         = "region_subtract"
	MsgRegionDestroy          = "region_destroy"
	MsgRegionGet              = "region_get"
	MsgCreateSurface          = "create_surface"
	MsgSurfaceSetInputRegion  = "surface_set_input_region"
	MsgSurfaceSetOpaqueRegion = "surface_set_opaque_region"
	MsgSurfaceDamage          = "surface_damage"
	MsgSurfaceCommit          = "surface_commit"
	MsgSurfaceDestroy         = "surface_destroy"
	MsgSurfaceState           = "surface_state"
	MsgSurfaceHit             = "surface_hit"
	MsgList                   = "list"
	MsgStatus                 = "status"

	MsgOK    = "ok"
	MsgError = "error"
)

// NewMessage builds a message of the given type with extra fields
func NewMessage(msgType string, fields map[string]interface{}) (*structpb.Struct, error) {
	m := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		m[k] = v
	}
	m["type"] = msgType

	msg, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s message: %w", msgType, err)
	}
	return msg, nil
}

// NewOKMessage creates a success response
func NewOKMessage(fields map[string]interface{}) (*structpb.Struct, error) {
	return NewMessage(MsgOK, fields)
}

// NewErrorMessage creates an error response. Protocol errors keep their
// object id and code so the client can rebuild them.
func NewErrorMessage(err error) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"type":    structpb.NewStringValue(MsgError),
		"message": structpb.NewStringValue(err.Error()),
	}

	var perr *protocol.ProtocolError
	if errors.As(err, &perr) {
		fields["message"] = structpb.NewStringValue(perr.Message)
		fields["object"] = structpb.NewNumberValue(float64(perr.ObjectID))
		fields["code"] = structpb.NewNumberValue(float64(perr.Code))
	}
	return &structpb.Struct{Fields: fields}
}

// GetErrorResponse converts an error message back into an error
func GetErrorResponse(msg *structpb.Struct) error {
	message := msg.GetFields()["message"].GetStringValue()
	if _, ok := msg.GetFields()["code"]; !ok {
		return fmt.Errorf("server error: %s", message)
	}

	objectID, err := GetUint32(msg, "object")
	if err != nil {
		return fmt.Errorf("server error: %s", message)
	}
	code, err := GetUint32(msg, "code")
	if err != nil {
		return fmt.Errorf("server error: %s", message)
	}
	return &protocol.ProtocolError{ObjectID: objectID, Code: protocol.ErrorCode(code), Message: message}
}

// MessageType returns the "type" field of a message
func MessageType(msg *structpb.Struct) string {
	return msg.GetFields()["type"].GetStringValue()
}

func getNumber(msg *structpb.Struct, key string) (float64, error) {
	v, ok := msg.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	return v.GetNumberValue(), nil
}

// GetUint32 reads an integral field in uint32 range
func GetUint32(msg *structpb.Struct, key string) (uint32, error) {
	n, err := getNumber(msg, key)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || n < 0 || n > math.MaxUint32 {
		return 0, fmt.Errorf("field %q: %v is not a valid object id", key, n)
	}
	return uint32(n), nil
}

// GetInt32 reads an integral field in int32 range
func GetInt32(msg *structpb.Struct, key string) (int32, error) {
	n, err := getNumber(msg, key)
	if err != nil {
		return 0, err
	}
	return toInt32(key, n)
}

func toInt32(key string, n float64) (int32, error) {
	if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("field %q: %v is not a valid int32", key, n)
	}
	return int32(n), nil
}

// RectValue encodes a rectangle as [x, y, width, height]
func RectValue(r geom.Rect) []interface{} {
	return []interface{}{r.X, r.Y, r.Width, r.Height}
}

// RectsValue encodes a rectangle list
func RectsValue(rects []geom.Rect) []interface{} {
	out := make([]interface{}, len(rects))
	for i, r := range rects {
		out[i] = RectValue(r)
	}
	return out
}

func decodeRect(v *structpb.Value) (geom.Rect, error) {
	list := v.GetListValue()
	if list == nil || len(list.GetValues()) != 4 {
		return geom.Rect{}, fmt.Errorf("rectangle must be a list of 4 numbers")
	}

	var vals [4]int32
	for i, item := range list.GetValues() {
		if _, ok := item.GetKind().(*structpb.Value_NumberValue); !ok {
			return geom.Rect{}, fmt.Errorf("rectangle component %d is not a number", i)
		}
		n, err := toInt32("rect", item.GetNumberValue())
		if err != nil {
			return geom.Rect{}, err
		}
		vals[i] = n
	}
	return geom.New(vals[0], vals[1], vals[2], vals[3]), nil
}

// GetRect reads a rectangle field
func GetRect(msg *structpb.Struct, key string) (geom.Rect, error) {
	v, ok := msg.GetFields()[key]
	if !ok {
		return geom.Rect{}, fmt.Errorf("missing field %q", key)
	}
	r, err := decodeRect(v)
	if err != nil {
		return geom.Rect{}, fmt.Errorf("field %q: %w", key, err)
	}
	return r, nil
}

// GetRects reads a rectangle list field. A missing field is an empty list.
func GetRects(msg *structpb.Struct, key string) ([]geom.Rect, error) {
	v, ok := msg.GetFields()[key]
	if !ok {
		return nil, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("field %q is not a list", key)
	}

	rects := make([]geom.Rect, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		r, err := decodeRect(item)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		rects = append(rects, r)
	}
	return rects, nil
}

// RegionInfoValue encodes one entry of a list response
func RegionInfoValue(info protocol.RegionInfo) map[string]interface{} {
	return map[string]interface{}{
		"client": uint32(info.Client),
		"object": info.ObjectID,
		"region": uint64(info.ID),
		"rects":  RectsValue(info.Rectangles),
	}
}

// SurfaceStateValue encodes a surface state response payload
func SurfaceStateValue(state protocol.SurfaceState) map[string]interface{} {
	fields := map[string]interface{}{
		"infinite_input": state.InfiniteInput,
		"opaque":         RectsValue(state.Opaque),
		"damage":         RectsValue(state.Damage),
	}
	if !state.InfiniteInput {
		fields["input"] = RectsValue(state.Input)
	}
	return fields
}

// GetSurfaceState decodes a surface state response
func GetSurfaceState(msg *structpb.Struct) (protocol.SurfaceState, error) {
	var state protocol.SurfaceState
	var err error

	state.InfiniteInput = msg.GetFields()["infinite_input"].GetBoolValue()
	if !state.InfiniteInput {
		if state.Input, err = GetRects(msg, "input"); err != nil {
			return state, err
		}
		if state.Input == nil {
			state.Input = []geom.Rect{}
		}
	}
	if state.Opaque, err = GetRects(msg, "opaque"); err != nil {
		return state, err
	}
	if state.Damage, err = GetRects(msg, "damage"); err != nil {
		return state, err
	}
	return state, nil
}
