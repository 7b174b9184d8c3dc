package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel at (x, y). The canvas is (Width*2) x (Height*4)
// sub-pixels; anything outside is ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Frame maps a world rectangle onto a canvas, y growing upward.
type Frame struct {
	MinX, MaxX float64
	MinY, MaxY float64
	canvas     *Canvas
}

func NewFrame(c *Canvas, minX, maxX, minY, maxY float64) Frame {
	return Frame{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY, canvas: c}
}

// Project returns the sub-pixel for world point (x, y).
func (f Frame) Project(x, y float64) (int, int) {
	w := float64(f.canvas.Width*2 - 1)
	h := float64(f.canvas.Height*4 - 1)
	px := (x - f.MinX) / (f.MaxX - f.MinX) * w
	py := (f.MaxY - y) / (f.MaxY - f.MinY) * h
	return int(math.Round(px)), int(math.Round(py))
}

func (f Frame) Line(x0, y0, x1, y1 float64) {
	ax, ay := f.Project(x0, y0)
	bx, by := f.Project(x1, y1)
	f.canvas.DrawLine(ax, ay, bx, by)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
