package babatext

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// FullAlpha is the alpha value of an opaque color.
const FullAlpha = 0xff

// Color is a non-premultiplied 8 bit RGBA value. It is comparable, so it can be
// used directly as a mask key or map key.
type Color struct {
	R, G, B, A uint8
}

var (
	Transparent = Color{0, 0, 0, 0}
	White       = Color{0xff, 0xff, 0xff, FullAlpha}
	Black       = Color{0, 0, 0, FullAlpha}
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, FullAlpha}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Opaque reports whether the color has full alpha.
func (c Color) Opaque() bool {
	return c.A == FullAlpha
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	if c.Opaque() {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) String() string {
	return c.Hex()
}

// ParseColor accepts "#rgb", "#rrggbb", "#rrggbbaa" or "transparent".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return Transparent, nil
	}
	alpha := uint8(FullAlpha)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{r, g, b, alpha}, nil
}

// UnmarshalYAML lets colors be written as strings in config files.
func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the color in the form ParseColor reads.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

// PaletteEntry is a named palette color.
type PaletteEntry struct {
	Name  string `yaml:"name"`
	Color Color  `yaml:"color"`
}

// Palette is an ordered list of colors. Order matters: words without a fixed
// color are assigned an entry by index.
type Palette []PaletteEntry

// Lookup finds a palette entry by name.
func (p Palette) Lookup(name string) (Color, bool) {
	for _, e := range p {
		if e.Name == name {
			return e.Color, true
		}
	}
	return Color{}, false
}

// Pick returns the entry at i modulo the palette length.
func (p Palette) Pick(i int) Color {
	return p[i%len(p)].Color
}
