// Package protocol maps Wayland compositor requests onto the region registry.
//
// Object ids are per-client, as on the wire. The region code itself never
// fails; this layer is where missing or reused objects become protocol errors.
package protocol

import "fmt"

// ErrorCode mirrors the wl_display error enum
type ErrorCode uint32

const (
	ErrInvalidObject  ErrorCode = 0
	ErrInvalidMethod  ErrorCode = 1
	ErrNoMemory       ErrorCode = 2
	ErrImplementation ErrorCode = 3
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidObject:
		return "invalid_object"
	case ErrInvalidMethod:
		return "invalid_method"
	case ErrNoMemory:
		return "no_memory"
	case ErrImplementation:
		return "implementation"
	default:
		return fmt.Sprintf("error_%d", uint32(c))
	}
}

// ProtocolError is a fatal client error posted on wl_display
type ProtocolError struct {
	ObjectID uint32
	Code     ErrorCode
	Message  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("object %d: %s: %s", e.ObjectID, e.Code, e.Message)
}

func invalidObject(id uint32, format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{ObjectID: id, Code: ErrInvalidObject, Message: fmt.Sprintf(format, args...)}
}
