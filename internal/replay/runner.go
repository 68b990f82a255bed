package replay

import (
	"fmt"

	"github.com/bnema/wlregion/internal/geom"
	"github.com/bnema/wlregion/internal/logger"
	"github.com/bnema/wlregion/internal/protocol"
)

// Target receives the requests of a script. It is implemented by an
// in-process protocol.Client and by an ipc.Session talking to the daemon.
type Target interface {
	CreateRegion(id uint32) error
	RegionAdd(id uint32, rect geom.Rect) error
	RegionSubtract(id uint32, rect geom.Rect) error
	RegionDestroy(id uint32) error
	RegionRectangles(id uint32) ([]geom.Rect, error)
	CreateSurface(id uint32) error
	SurfaceSetInputRegion(surfaceID, regionID uint32) error
	SurfaceSetOpaqueRegion(surfaceID, regionID uint32) error
	SurfaceDamage(surfaceID uint32, rect geom.Rect) error
	SurfaceCommit(surfaceID uint32) error
	SurfaceDestroy(surfaceID uint32) error
	SurfaceState(surfaceID uint32) (protocol.SurfaceState, error)
	SurfaceAcceptsInput(surfaceID uint32, x, y int32) (bool, error)
}

var _ Target = (*protocol.Client)(nil)

// Result holds the output of a query command. Request commands produce a
// Result with only Command set.
type Result struct {
	Command Command
	Rects   []geom.Rect
	State   *protocol.SurfaceState
	Hit     *bool
}

// RunError reports the command that failed
type RunError struct {
	Command Command
	Err     error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Command.Line, e.Command, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Run applies cmds in order and stops at the first failure. The results of
// the commands that ran are returned either way.
func Run(target Target, cmds []Command) ([]Result, error) {
	results := make([]Result, 0, len(cmds))
	for _, cmd := range cmds {
		res, err := apply(target, cmd)
		if err != nil {
			logger.Debugf("Replay stopped at line %d: %v", cmd.Line, err)
			return results, &RunError{Command: cmd, Err: err}
		}
		results = append(results, res)
	}
	return results, nil
}

func apply(t Target, cmd Command) (Result, error) {
	res := Result{Command: cmd}
	var err error

	switch cmd.Op {
	case OpRegion:
		err = t.CreateRegion(cmd.Object)
	case OpAdd:
		err = t.RegionAdd(cmd.Object, cmd.Rect)
	case OpSubtract:
		err = t.RegionSubtract(cmd.Object, cmd.Rect)
	case OpDestroy:
		err = t.RegionDestroy(cmd.Object)
	case OpSurface:
		err = t.CreateSurface(cmd.Object)
	case OpInput:
		err = t.SurfaceSetInputRegion(cmd.Object, cmd.Arg)
	case OpOpaque:
		err = t.SurfaceSetOpaqueRegion(cmd.Object, cmd.Arg)
	case OpDamage:
		err = t.SurfaceDamage(cmd.Object, cmd.Rect)
	case OpCommit:
		err = t.SurfaceCommit(cmd.Object)
	case OpDestroySurface:
		err = t.SurfaceDestroy(cmd.Object)
	case OpGet:
		res.Rects, err = t.RegionRectangles(cmd.Object)
	case OpState:
		var state protocol.SurfaceState
		if state, err = t.SurfaceState(cmd.Object); err == nil {
			res.State = &state
		}
	case OpHit:
		var hit bool
		if hit, err = t.SurfaceAcceptsInput(cmd.Object, cmd.X, cmd.Y); err == nil {
			res.Hit = &hit
		}
	default:
		err = fmt.Errorf("unsupported operation %q", cmd.Op)
	}

	return res, err
}
