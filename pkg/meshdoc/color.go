package meshdoc

import "fmt"

// RGBA is an 8-bit-per-channel color, the storage form of both mesh
// formats' color extensions.
type RGBA struct {
	R, G, B, A uint8
}

// FloatRGBA converts [0,1] channels to storage form. Values outside
// [0,1] are clamped.
func FloatRGBA(r, g, b, a float64) RGBA {
	return RGBA{channel(r), channel(g), channel(b), channel(a)}
}

func channel(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

// Floats returns the color channels normalized to [0,1].
func (c RGBA) Floats() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

// Hex returns the #RRGGBBAA form used by the 3MF material extension.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseHex parses #RRGGBB or #RRGGBBAA; a missing alpha means opaque.
func ParseHex(s string) (RGBA, error) {
	var c RGBA
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return RGBA{}, fmt.Errorf("meshdoc: bad color %q: %w", s, err)
		}
		c.A = 255
	case 9:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return RGBA{}, fmt.Errorf("meshdoc: bad color %q: %w", s, err)
		}
	default:
		return RGBA{}, fmt.Errorf("meshdoc: bad color %q", s)
	}
	return c, nil
}

// ColorGroup is a palette resource: an indexed list of colors referenced
// by triangle and object-level properties.
type ColorGroup struct {
	id     uint32
	colors []RGBA
}

// ID returns the group's resource ID within its document.
func (g *ColorGroup) ID() uint32 { return g.id }

// AddColor appends a color and returns its index within the group.
func (g *ColorGroup) AddColor(c RGBA) uint32 {
	g.colors = append(g.colors, c)
	return uint32(len(g.colors) - 1)
}

// Color returns the color at the given index.
func (g *ColorGroup) Color(i uint32) (RGBA, bool) {
	if int(i) >= len(g.colors) {
		return RGBA{}, false
	}
	return g.colors[i], true
}

// Colors returns the group's colors in index order.
func (g *ColorGroup) Colors() []RGBA { return g.colors }

// IndexOf returns the index of an exactly matching color in the group.
func (g *ColorGroup) IndexOf(c RGBA) (uint32, bool) {
	for i, have := range g.colors {
		if have == c {
			return uint32(i), true
		}
	}
	return 0, false
}
