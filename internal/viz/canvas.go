package viz

import (
	"strings"

	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/geom"
)

// Braille Patterns: 2x4 dots per cell
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot matrix. A canvas of Width x Height cells holds
// (Width*2) x (Height*4) addressable dots.
type Canvas struct {
	Width, Height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

// Set lights the dot at sub-pixel coordinates (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row*c.Width+col] |= dotBits[y%4][x%2]
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = 0x2800
	}
}

// Cell returns the braille rune at the given cell.
func (c *Canvas) Cell(col, row int) rune { return c.cells[row*c.Width+col] }

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps world coordinates to canvas dots. Scale is dots per world
// unit; Center is the world point shown at the middle of the canvas.
type Viewport struct {
	Center geom.Vec2
	Scale  float64
}

func (v Viewport) project(c *Canvas, p geom.Vec2) (int, int) {
	d := p.Sub(v.Center).Scale(v.Scale)
	// Terminal rows grow downward.
	return c.Width + int(d.X), 2*c.Height - int(d.Y)
}

// Plot draws each particle as a single dot through the viewport.
func (v Viewport) Plot(c *Canvas, particles []body.Particle) {
	for i := range particles {
		x, y := v.project(c, particles[i].Pos)
		c.Set(x, y)
	}
}
