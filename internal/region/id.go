package region

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a region for the lifetime of the process
type ID uint64

var lastID atomic.Uint64

// NextID returns a fresh ID. IDs start at 1 and are never reused.
func NextID() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
