package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) {
		t.Error("IsSet disagrees with Set")
	}
}

func TestCanvasOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(4, 0)
	c.Set(0, 8)
	c.Underlay(5, 0, 'x', 0)
	c.Overlay(0, -1, 'x', 0)

	if got := c.String(); got != strings.Repeat(string(rune(blank))+string(rune(blank))+"\n", 2) {
		t.Errorf("expected a blank canvas, got %q", got)
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7, 3)

	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("pixel (%d, %d) not set", i, i)
		}
	}
	if c.Ink[1][3] != 3 {
		t.Errorf("expected ink 3, got %d", c.Ink[1][3])
	}
}

func TestCanvasLayers(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Underlay(0, 0, '→', 0)
	c.Underlay(1, 0, '→', 0)
	c.Set(4, 0)
	c.Overlay(2, 0, '●', 1)

	if r, _ := c.At(0, 0); r != '→' {
		t.Errorf("underlay should show in an empty cell, got %q", r)
	}

	c.Set(2, 1) // cell 1
	if r, _ := c.At(1, 0); r == '→' {
		t.Error("dots should hide the underlay")
	}
	if r, ink := c.At(2, 0); r != '●' || ink != 1 {
		t.Errorf("overlay should win, got %q ink %d", r, ink)
	}

	c.Clear()
	if r, ink := c.At(2, 0); r != blank || ink != NoInk {
		t.Errorf("clear left %q ink %d", r, ink)
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Underlay(0, 0, '↑', 0)
	c.Underlay(1, 0, '↑', 0)

	plain := c.String()
	rendered := c.Render(nil)
	if plain != rendered {
		t.Errorf("render without a palette should match String:\n%q\n%q", plain, rendered)
	}
	if !strings.HasPrefix(plain, "↑↑") {
		t.Errorf("unexpected output %q", plain)
	}
}
