package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
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

const blank = 0x2800

// NoInk marks a cell without color.
const NoInk = -1

// Canvas is a braille pixel grid with two glyph layers per cell. An
// underlay glyph shows only where no dot is set; an overlay glyph always
// wins. Inks index the style palette passed to Render.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]int

	under, over       [][]rune
	underInk, overInk [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.Grid = makeRunes(w, h)
	c.under = makeRunes(w, h)
	c.over = makeRunes(w, h)
	c.Ink = makeInks(w, h)
	c.underInk = makeInks(w, h)
	c.overInk = makeInks(w, h)
	c.Clear()
	return c
}

func makeRunes(w, h int) [][]rune {
	g := make([][]rune, h)
	for i := range g {
		g[i] = make([]rune, w)
	}
	return g
}

func makeInks(w, h int) [][]int {
	g := make([][]int, h)
	for i := range g {
		g[i] = make([]int, w)
	}
	return g
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	c.SetInk(x, y, NoInk)
}

// SetInk sets a pixel and colors its cell. The last ink drawn wins.
func (c *Canvas) SetInk(x, y, ink int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if ink != NoInk {
		c.Ink[row][col] = ink
	}
}

// IsSet reports whether the pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	col, row, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) cell(x, y int) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return col, row, true
}

// Underlay places a glyph in a cell, hidden by any dots drawn there.
func (c *Canvas) Underlay(col, row int, r rune, ink int) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	c.under[row][col] = r
	c.underInk[row][col] = ink
}

// Overlay places a glyph in a cell above everything else.
func (c *Canvas) Overlay(col, row int, r rune, ink int) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	c.over[row][col] = r
	c.overInk[row][col] = ink
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = NoInk
			c.under[i][j] = 0
			c.over[i][j] = 0
			c.underInk[i][j] = NoInk
			c.overInk[i][j] = NoInk
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1, ink int) {
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
		c.SetInk(x0, y0, ink)
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

// At resolves the layers of one cell to the rune shown and its ink.
func (c *Canvas) At(col, row int) (rune, int) {
	switch {
	case c.over[row][col] != 0:
		return c.over[row][col], c.overInk[row][col]
	case c.Grid[row][col] != blank:
		return c.Grid[row][col], c.Ink[row][col]
	case c.under[row][col] != 0:
		return c.under[row][col], c.underInk[row][col]
	}
	return blank, NoInk
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col := range c.Grid[row] {
			r, _ := c.At(col, row)
			b.WriteRune(r)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Render is String with each cell styled by palette[ink]. Runs of the same
// ink share one style call.
func (c *Canvas) Render(palette []lipgloss.Style) string {
	var b strings.Builder
	for row := range c.Grid {
		var run []rune
		runInk := NoInk
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runInk >= 0 && runInk < len(palette) {
				b.WriteString(palette[runInk].Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			run = run[:0]
		}
		for col := range c.Grid[row] {
			r, ink := c.At(col, row)
			if ink != runInk {
				flush()
				runInk = ink
			}
			run = append(run, r)
		}
		flush()
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
