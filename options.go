package babatext

import (
	"math/rand/v2"
)

type options struct {
	background         Color
	rng                *rand.Rand
	greyscale          bool
	pixelsPerCharacter int
	ramp               string
	adjust             []Adjustment
}

// Option configures a Text or an ASCIIArt render.
type Option func(*options)

// WithBackground sets the canvas color. The default is fully transparent.
func WithBackground(c Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithRand makes animation choices reproducible.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithGreyscale keeps every ASCII letter in one color instead of the color of
// the pixel it replaces.
func WithGreyscale() Option {
	return func(o *options) {
		o.greyscale = true
	}
}

// WithPixelsPerCharacter sets how many source pixels, per side, collapse into
// one ASCII character.
func WithPixelsPerCharacter(n int) Option {
	return func(o *options) {
		o.pixelsPerCharacter = n
	}
}

// WithColorRamp overrides the brightness ramp, darkest character first. Use it
// to reuse a ramp computed once by Assets.ColorRamp.
func WithColorRamp(ramp string) Option {
	return func(o *options) {
		o.ramp = ramp
	}
}

// WithAdjustments preprocesses every ASCII source frame before sampling.
func WithAdjustments(adjust ...Adjustment) Option {
	return func(o *options) {
		o.adjust = append(o.adjust, adjust...)
	}
}

func newOptions(cfg *Config, opts []Option) *options {
	o := &options{
		background:         Transparent,
		pixelsPerCharacter: cfg.ASCII.PixelsPerCharacter,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
