// Package spritetest builds in-memory sprite directories for tests.
package spritetest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing/fstest"
)

// Size is the edge length of every fixture sprite.
const Size = 10

// Ink is the foreground color painted into fixture sprites.
var Ink = color.NRGBA{A: 0xff}

// Fills maps escaped glyph names to the number of foreground pixels of each of
// their variants. Letters A..Z get 2, 4, ... 52 so their ramp order is
// alphabetical; the others fall in between.
var Fills = func() map[string]int {
	fills := map[string]int{
		"_":   1, // underscore
		"%2F": 3, // slash
		"%21": 5, // exclamation mark
	}
	for i := 0; i < 26; i++ {
		fills[string(rune('A'+i))] = 2 * (i + 1)
	}
	return fills
}()

// Variants is the number of variants of every glyph and of the tile.
const Variants = 3

// PNG encodes a w x h sprite with filled Ink pixels starting at pixel offset,
// in row-major order. The rest is the white mask color.
func PNG(w, h, offset, filled int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{0xff, 0xff, 0xff, 0xff}
			if i >= offset && i < offset+filled {
				c = Ink
			}
			img.SetNRGBA(x, y, c)
			i++
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// FS returns a resource directory with every glyph of Fills, a half inked
// "sprite" tile and a two-variant object named "two". Variant v starts its ink
// v pixels into the sprite, so variants differ while covering the same area.
func FS() fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, filled := range Fills {
		for v := 0; v < Variants; v++ {
			fsys[fmt.Sprintf("%s_%d.png", name, v)] = &fstest.MapFile{Data: PNG(Size, Size, v, filled)}
		}
	}
	for v := 0; v < Variants; v++ {
		fsys[fmt.Sprintf("sprite_%d.png", v)] = &fstest.MapFile{Data: PNG(Size, Size, v, Size*Size/2)}
	}
	for v := 0; v < 2; v++ {
		fsys[fmt.Sprintf("two_%d.png", v)] = &fstest.MapFile{Data: PNG(Size, Size, v, 10)}
	}
	return fsys
}
