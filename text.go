package babatext

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	space   = " "
	newline = "\n"
	tab     = "\t"
)

// Text is a sentence laid out as a grid of animated word tiles.
type Text struct {
	cfg        *Config
	words      []*Word
	size       image.Point
	background Color
}

// NewText tokenizes text, assigns every word a sprite cell and loads its
// sprites. Newlines start a new row and tabs leave an empty cell.
func NewText(assets *Assets, text string, opts ...Option) (*Text, error) {
	cfg := assets.Config()
	o := newOptions(cfg, opts)
	if text == "" {
		return nil, ErrEmptyText
	}
	tokens := Tokenize(text)
	boxes := Layout(tokens, cfg.SpriteSize)
	if len(boxes) == 0 {
		return nil, ErrEmptyText
	}
	t := &Text{
		cfg:        cfg,
		size:       Union(boxes),
		background: o.background,
	}
	for i, word := range Words(tokens) {
		fg, bg := WordColors(cfg, word, o.background)
		w, err := NewWord(assets, word, boxes[i], fg, bg, o.rng)
		if err != nil {
			return nil, fmt.Errorf("word %q: %w", word, err)
		}
		t.words = append(t.words, w)
	}
	Logger().Debug("laid out text", "words", len(t.words), "width", t.size.X, "height", t.size.Y)
	return t, nil
}

// Tokenize splits text on single spaces after padding every newline and tab
// with spaces, so control characters always form tokens of their own. Empty
// tokens are dropped.
func Tokenize(text string) []string {
	text = strings.ReplaceAll(text, newline, space+newline+space)
	text = strings.ReplaceAll(text, tab, space+tab+space)
	var tokens []string
	for _, t := range strings.Split(text, space) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Words removes the newline and tab tokens, keeping the order Layout emits
// boxes in.
func Words(tokens []string) []string {
	var words []string
	for _, t := range tokens {
		if t != newline && t != tab {
			words = append(words, t)
		}
	}
	return words
}

// Layout walks tokens with a cursor in units of cellSize. A newline moves to
// the start of the next row, a tab skips a cell, and any other token takes
// the cell under the cursor.
func Layout(tokens []string, cellSize int) []Rect {
	var boxes []Rect
	x, y := 0, 0
	for _, t := range tokens {
		switch t {
		case newline:
			x = 0
			y++
			continue
		case tab:
			x++
			continue
		}
		boxes = append(boxes, NewRect(
			float64(x*cellSize), float64(y*cellSize), float64(cellSize), float64(cellSize)))
		x++
	}
	return boxes
}

// WordHash is the sum of the word's character codes.
func WordHash(word string) int {
	sum := 0
	for _, r := range word {
		sum += int(r)
	}
	return sum
}

// WordColor returns the fixed color of a known word (case-sensitive) or a
// palette entry chosen by WordHash.
func WordColor(cfg *Config, word string) Color {
	if value, ok := cfg.KnownWords[word]; ok {
		if c, err := cfg.ResolveColor(value); err == nil {
			return c
		}
	}
	return cfg.Palette.Pick(WordHash(word))
}

// WordColors returns the letter and plate colors of word. Capitalized words
// are drawn inverted: background-colored letters on a plate of the word color.
func WordColors(cfg *Config, word string, background Color) (fg, bg Color) {
	c := WordColor(cfg, word)
	first, _ := utf8.DecodeRuneInString(word)
	if unicode.IsUpper(first) {
		return background, c
	}
	return c, background
}

// Size is the canvas size, the tightest box around every word.
func (t *Text) Size() image.Point { return t.size }

func (t *Text) Words() []*Word { return t.words }

// Frames renders the configured number of animation frames.
func (t *Text) Frames() []*image.NRGBA {
	objects := make([]Animated, len(t.words))
	for i, w := range t.words {
		objects[i] = w
	}
	return Composite(t.size, t.background, t.cfg.FrameCount, objects)
}

// Animation renders the frames with a constant delay derived from the fps.
func (t *Text) Animation() *Animation {
	frames := t.Frames()
	delays := make([]int, len(frames))
	for i := range delays {
		delays[i] = t.cfg.FrameDelay()
	}
	return &Animation{Frames: frames, Delays: delays, Background: t.background}
}

// Encode writes the looping GIF to w.
func (t *Text) Encode(w io.Writer) error {
	return t.Animation().Encode(w)
}

// WriteFile writes the looping GIF to path.
func (t *Text) WriteFile(path string) error {
	return writeFile(path, t.Encode)
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
