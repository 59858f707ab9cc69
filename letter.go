package babatext

import (
	"fmt"
	"math/rand/v2"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Letter is an Object showing a single character. Letters are always drawn
// from the uppercase sprites.
type Letter struct {
	*Object
	glyph rune
}

// NewLetter loads the sprites for glyph. A glyph without sprites yields an
// error matching both ErrInvalidCharacter and ErrAssetMissing.
func NewLetter(assets *Assets, glyph rune, box Rect, fg, bg Color, rng *rand.Rand) (*Letter, error) {
	obj, err := NewObject(assets, LetterName(glyph), box, fg, bg, rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", &InvalidCharacterError{Char: glyph}, err)
	}
	return &Letter{Object: obj, glyph: glyph}, nil
}

// Glyph returns the character the letter was created for.
func (l *Letter) Glyph() rune {
	return l.glyph
}

// LetterName is the sprite name prefix used for glyph.
func LetterName(glyph rune) string {
	return EscapeGlyph(cases.Upper(language.Und).String(string(glyph)))
}
