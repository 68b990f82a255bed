// Package replay parses and runs wl_region/wl_surface request scripts.
//
// A script has one request per line; blank lines and text after '#' are
// ignored:
//
//	region 1                 # wl_compositor.create_region
//	add 1 0,0,100,100        # wl_region.add
//	subtract 1 25,25,50,50   # wl_region.subtract
//	surface 2                # wl_compositor.create_surface
//	input 2 1                # wl_surface.set_input_region (0 = NULL)
//	opaque 2 1               # wl_surface.set_opaque_region (0 = NULL)
//	damage 2 0,0,10,10       # wl_surface.damage
//	commit 2                 # wl_surface.commit
//	destroy 1                # wl_region.destroy
//	destroy-surface 2        # wl_surface.destroy
//	get 1                    # print the rectangles of a region
//	state 2                  # print the committed surface state
//	hit 2 10 10              # hit-test a point against the input region
package replay

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/wlregion/internal/geom"
)

// Op is a script operation
type Op string

const (
	OpRegion         Op = "region"
	OpAdd            Op = "add"
	OpSubtract       Op = "subtract"
	OpDestroy        Op = "destroy"
	OpSurface        Op = "surface"
	OpInput          Op = "input"
	OpOpaque         Op = "opaque"
	OpDamage         Op = "damage"
	OpCommit         Op = "commit"
	OpDestroySurface Op = "destroy-surface"
	OpGet            Op = "get"
	OpState          Op = "state"
	OpHit            Op = "hit"
)

// Command is one parsed script line
type Command struct {
	Line   int
	Op     Op
	Object uint32
	Arg    uint32 // region object for input/opaque
	Rect   geom.Rect
	X, Y   int32
}

func (c Command) String() string {
	switch c.Op {
	case OpAdd, OpSubtract, OpDamage:
		return fmt.Sprintf("%s %d %d,%d,%d,%d", c.Op, c.Object, c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height)
	case OpInput, OpOpaque:
		return fmt.Sprintf("%s %d %d", c.Op, c.Object, c.Arg)
	case OpHit:
		return fmt.Sprintf("%s %d %d %d", c.Op, c.Object, c.X, c.Y)
	default:
		return fmt.Sprintf("%s %d", c.Op, c.Object)
	}
}

// SyntaxError reports a malformed script line
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// argument counts after the op and object id
var arity = map[Op]int{
	OpRegion:         0,
	OpAdd:            1,
	OpSubtract:       1,
	OpDestroy:        0,
	OpSurface:        0,
	OpInput:          1,
	OpOpaque:         1,
	OpDamage:         1,
	OpCommit:         0,
	OpDestroySurface: 0,
	OpGet:            0,
	OpState:          0,
	OpHit:            2,
}

// Parse reads a whole script
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		cmd, err := parseLine(line, fields)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return cmds, nil
}

func parseLine(line int, fields []string) (Command, error) {
	fail := func(format string, args ...interface{}) (Command, error) {
		return Command{}, &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
	}

	op := Op(strings.ToLower(fields[0]))
	n, ok := arity[op]
	if !ok {
		return fail("unknown operation %q", fields[0])
	}
	if len(fields) != n+2 {
		return fail("%s takes %d argument(s), got %d", op, n+1, len(fields)-1)
	}

	object, err := parseObject(fields[1])
	if err != nil {
		return fail("%v", err)
	}
	cmd := Command{Line: line, Op: op, Object: object}

	switch op {
	case OpAdd, OpSubtract, OpDamage:
		if cmd.Rect, err = geom.Parse(fields[2]); err != nil {
			return fail("%v", err)
		}
	case OpInput, OpOpaque:
		if cmd.Arg, err = parseObject(fields[2]); err != nil {
			return fail("%v", err)
		}
	case OpHit:
		if cmd.X, err = parseCoord(fields[2]); err != nil {
			return fail("%v", err)
		}
		if cmd.Y, err = parseCoord(fields[3]); err != nil {
			return fail("%v", err)
		}
	}

	return cmd, nil
}

func parseObject(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid object id %q", s)
	}
	return uint32(v), nil
}

func parseCoord(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}
	return int32(v), nil
}
