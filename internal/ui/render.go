package ui

import (
	"fmt"
	"strings"

	"github.com/bnema/wlregion/internal/geom"
)

const (
	cellFilled = '#'
	cellEmpty  = '.'
)

// RegionMap scales a rectangle set into at most cols x rows character cells
// covering the set's bounding box. A cell is filled when any rectangle
// overlaps it, so thin features never disappear. Returns nil for an empty set.
func RegionMap(rects []geom.Rect, cols, rows int) []string {
	cols, rows = max(cols, 1), max(rows, 1)

	var ext geom.Rect
	var live []geom.Rect
	for _, r := range rects {
		if r.IsEmpty() {
			continue
		}
		live = append(live, r)
		ext = ext.Union(r)
	}
	if len(live) == 0 {
		return nil
	}

	w, h := int64(ext.Width), int64(ext.Height)
	cellW := max(ceilDiv(w, int64(cols)), 1)
	cellH := max(ceilDiv(h, int64(rows)), 1)
	ncols, nrows := ceilDiv(w, cellW), ceilDiv(h, cellH)

	lines := make([]string, 0, nrows)
	row := make([]byte, ncols)
	for r := int64(0); r < nrows; r++ {
		y0 := int64(ext.Y) + r*cellH
		y1 := min(y0+cellH, int64(ext.Y)+h)
		for c := int64(0); c < ncols; c++ {
			x0 := int64(ext.X) + c*cellW
			x1 := min(x0+cellW, int64(ext.X)+w)
			row[c] = cellEmpty
			for _, rect := range live {
				if overlaps(rect, x0, y0, x1, y1) {
					row[c] = cellFilled
					break
				}
			}
		}
		lines = append(lines, string(row))
	}
	return lines
}

func overlaps(r geom.Rect, x0, y0, x1, y1 int64) bool {
	rx0, ry0 := int64(r.X), int64(r.Y)
	rx1, ry1 := rx0+int64(r.Width), ry0+int64(r.Height)
	return rx0 < x1 && x0 < rx1 && ry0 < y1 && y0 < ry1
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

// RenderRegion draws a styled region map with its extents as a caption
func RenderRegion(rects []geom.Rect, cols, rows int) string {
	lines := RegionMap(rects, cols, rows)
	if lines == nil {
		return SubtleStyle.Render("(empty region)")
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, ch := range []byte(line) {
			if ch == cellFilled {
				b.WriteString(FilledCellStyle.Render("█"))
			} else {
				b.WriteString(EmptyCellStyle.Render("·"))
			}
		}
	}

	var ext geom.Rect
	for _, r := range rects {
		ext = ext.Union(r)
	}
	caption := SubtleStyle.Render(fmt.Sprintf("extents %s", ext))
	return BoxStyle.Render(b.String()) + "\n" + caption
}

// FormatRectTable lists rectangles with their areas and the total area
func FormatRectTable(rects []geom.Rect) string {
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%4s %8s %8s %8s %8s %12s", "#", "x", "y", "width", "height", "area")))
	b.WriteByte('\n')

	var total int64
	for i, r := range rects {
		total += r.Area()
		b.WriteString(TextStyle.Render(fmt.Sprintf("%4d %8d %8d %8d %8d %12d", i, r.X, r.Y, r.Width, r.Height, r.Area())))
		b.WriteByte('\n')
	}

	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%s, total area %d", FormatCount(len(rects), "rectangle"), total)))
	return b.String()
}
