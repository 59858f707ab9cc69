package babatext

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source is the input of an ASCII render: a still image or the frames of an
// animation with their delays.
type Source struct {
	Frames []image.Image
	// Delays holds one delay per frame in 1/100s. It is nil for still images,
	// which are repeated for the configured frame count instead.
	Delays []int
}

// Still reports whether the source is a single image.
func (s *Source) Still() bool {
	return s.Delays == nil
}

// Bounds is the size of the first frame.
func (s *Source) Bounds() image.Rectangle {
	if len(s.Frames) == 0 {
		return image.Rectangle{}
	}
	return s.Frames[0].Bounds()
}

// StillSource wraps an already decoded image.
func StillSource(img image.Image) *Source {
	return &Source{Frames: []image.Image{img}}
}

var gifMagic = []byte("GIF8")

// DecodeSource reads any registered image format. Animated GIFs keep every
// frame, rebuilt to full canvases, together with their delays.
func DecodeSource(r io.Reader) (*Source, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(len(gifMagic))
	if bytes.Equal(magic, gifMagic) {
		g, err := gif.DecodeAll(br)
		if err != nil {
			return nil, fmt.Errorf("decoding gif: %w", err)
		}
		if len(g.Image) > 1 {
			frames := flattenGIF(g)
			src := &Source{Frames: make([]image.Image, len(frames)), Delays: make([]int, len(frames))}
			for i, f := range frames {
				src.Frames[i] = f
				src.Delays[i] = g.Delay[i]
			}
			return src, nil
		}
		return StillSource(g.Image[0]), nil
	}
	img, format, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	Logger().Debug("decoded still image", "format", format, "bounds", img.Bounds())
	return StillSource(img), nil
}

// Adjustment transforms a source frame before it is sampled.
type Adjustment func(image.Image) *image.NRGBA

// Gamma of 1.0 gives the original image. Less than 1.0 darkens it and
// greater than 1.0 lightens it.
func Gamma(gamma float64) Adjustment {
	return func(img image.Image) *image.NRGBA { return imaging.AdjustGamma(img, gamma) }
}

// Brightness in [-100, 100]; 0 gives the original image.
func Brightness(percent float64) Adjustment {
	return func(img image.Image) *image.NRGBA { return imaging.AdjustBrightness(img, percent) }
}

// Contrast in [-100, 100]; 0 gives the original image.
func Contrast(percent float64) Adjustment {
	return func(img image.Image) *image.NRGBA { return imaging.AdjustContrast(img, percent) }
}

// Sharpen with a gaussian of the given sigma.
func Sharpen(sigma float64) Adjustment {
	return func(img image.Image) *image.NRGBA { return imaging.Sharpen(img, sigma) }
}

// Sigmoid changes contrast non-linearly around midpoint in [0, 1].
func Sigmoid(midpoint, factor float64) Adjustment {
	return func(img image.Image) *image.NRGBA { return imaging.AdjustSigmoid(img, midpoint, factor) }
}

// Invert negates every color.
func Invert() Adjustment {
	return func(img image.Image) *image.NRGBA { return imaging.Invert(img) }
}

func applyAdjustments(img image.Image, adjust []Adjustment) image.Image {
	for _, a := range adjust {
		img = a(img)
	}
	return img
}
