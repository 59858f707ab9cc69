package babatext

import (
	"fmt"
	"image"
	"io/fs"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	spriteExt       = ".png"
	nameSeparator   = "_"
	underscoreGlyph = '_'
)

// Assets gives access to the sprite files of a resource directory. Sprites are
// named <escaped glyph>_<variant>.png. Nothing is cached: every object decodes
// its own copy of the files it needs.
type Assets struct {
	fsys fs.FS
	cfg  *Config
}

// NewAssets reads sprites from fsys using the settings in cfg.
func NewAssets(fsys fs.FS, cfg *Config) *Assets {
	return &Assets{fsys: fsys, cfg: cfg}
}

// OpenAssets reads sprites from cfg.ResourceDir.
func OpenAssets(cfg *Config) (*Assets, error) {
	info, err := os.Stat(cfg.ResourceDir)
	if err != nil {
		return nil, fmt.Errorf("opening resources: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resource dir %s is not a directory", cfg.ResourceDir)
	}
	return NewAssets(os.DirFS(cfg.ResourceDir), cfg), nil
}

// Config returns the configuration the assets were opened with.
func (a *Assets) Config() *Config {
	return a.cfg
}

// Sprites decodes every variant of name, resized with nearest neighbour
// sampling to size and masked against the configured mask color. It fails with
// an *AssetMissingError when there are no variants.
func (a *Assets) Sprites(name string, size image.Point) ([]*Sprite, error) {
	return a.load(name, &size)
}

// NativeSprites is Sprites without resizing.
func (a *Assets) NativeSprites(name string) ([]*Sprite, error) {
	return a.load(name, nil)
}

func (a *Assets) load(name string, size *image.Point) ([]*Sprite, error) {
	files, err := fs.Glob(a.fsys, globEscape(name)+nameSeparator+"*"+spriteExt)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &AssetMissingError{Name: name}
	}
	sprites := make([]*Sprite, 0, len(files))
	for _, file := range files {
		img, err := a.decode(file)
		if err != nil {
			return nil, err
		}
		if size != nil {
			img = resizeNearest(img, *size)
		}
		sprites = append(sprites, NewSprite(name, file, img, a.cfg.MaskColor))
	}
	return sprites, nil
}

func (a *Assets) decode(file string) (*image.NRGBA, error) {
	f, err := a.fsys.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding sprite %s: %w", file, err)
	}
	return imaging.Clone(img), nil
}

func resizeNearest(img *image.NRGBA, size image.Point) *image.NRGBA {
	if size.X <= 0 || size.Y <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, max(size.X, 0), max(size.Y, 0)))
	}
	if img.Rect.Size() == size {
		return img
	}
	return imaging.Resize(img, size.X, size.Y, imaging.NearestNeighbor)
}

// Glyphs lists the decoded glyph names that have sprites, in file order. The
// background tile is excluded. Underscore is reported when its sprites exist.
func (a *Assets) Glyphs() ([]string, error) {
	files, err := fs.Glob(a.fsys, "*"+nameSeparator+"*"+spriteExt)
	if err != nil {
		return nil, err
	}
	var glyphs []string
	seen := map[string]bool{}
	for _, file := range files {
		base := path.Base(file)
		var glyph string
		switch {
		case strings.HasPrefix(base, nameSeparator+nameSeparator):
			glyph = string(underscoreGlyph)
		case strings.HasPrefix(base, nameSeparator):
			continue
		case strings.HasPrefix(base, a.cfg.BackgroundSprite+nameSeparator):
			continue
		default:
			escaped, _, _ := strings.Cut(base, nameSeparator)
			glyph, err = url.PathUnescape(escaped)
			if err != nil {
				Logger().Debug("skipping sprite with malformed name", "file", file, "err", err)
				continue
			}
		}
		if !seen[glyph] {
			seen[glyph] = true
			glyphs = append(glyphs, glyph)
		}
	}
	return glyphs, nil
}

// CharacterSet is the set of characters that can be rendered.
type CharacterSet map[rune]struct{}

func (s CharacterSet) Contains(r rune) bool {
	_, ok := s[r]
	return ok
}

// Validate returns an *InvalidCharacterError for the first character of text
// not in the set.
func (s CharacterSet) Validate(text string) error {
	for _, r := range text {
		if !s.Contains(r) {
			return &InvalidCharacterError{Char: r}
		}
	}
	return nil
}

// AllowedCharacters derives the renderable characters from the sprite file
// names. Space, tab, newline and underscore are always allowed, and lowercase
// forms are added for every glyph whose case folding differs.
func (a *Assets) AllowedCharacters() (CharacterSet, error) {
	glyphs, err := a.Glyphs()
	if err != nil {
		return nil, err
	}
	set := CharacterSet{' ': {}, '\t': {}, '\n': {}, underscoreGlyph: {}}
	lower := cases.Lower(language.Und)
	upper := cases.Upper(language.Und)
	for _, g := range glyphs {
		if utf8.RuneCountInString(g) != 1 {
			Logger().Debug("ignoring multi-character glyph", "glyph", g)
			continue
		}
		r, _ := utf8.DecodeRuneInString(g)
		set[r] = struct{}{}
		if l := lower.String(g); l != upper.String(g) && utf8.RuneCountInString(l) == 1 {
			lr, _ := utf8.DecodeRuneInString(l)
			set[lr] = struct{}{}
		}
	}
	Logger().Info("loaded character inventory", "glyphs", len(glyphs), "allowed", len(set))
	return set, nil
}

// ColorRamp orders every glyph by the number of foreground pixels summed over
// all of its sprite variants, darkest first. A space is always the first,
// darkest, entry.
func (a *Assets) ColorRamp() (string, error) {
	glyphs, err := a.Glyphs()
	if err != nil {
		return "", err
	}
	type weighted struct {
		glyph    rune
		coverage int
	}
	var ramp []weighted
	for _, g := range glyphs {
		if utf8.RuneCountInString(g) != 1 {
			continue
		}
		sprites, err := a.NativeSprites(EscapeGlyph(g))
		if err != nil {
			return "", err
		}
		total := 0
		for _, s := range sprites {
			total += s.Coverage()
		}
		r, _ := utf8.DecodeRuneInString(g)
		ramp = append(ramp, weighted{r, total})
	}
	sort.SliceStable(ramp, func(i, j int) bool {
		if ramp[i].coverage != ramp[j].coverage {
			return ramp[i].coverage < ramp[j].coverage
		}
		return ramp[i].glyph < ramp[j].glyph
	})
	var b strings.Builder
	b.WriteRune(' ')
	for _, w := range ramp {
		b.WriteRune(w.glyph)
	}
	return b.String(), nil
}

// EscapeGlyph percent-encodes every byte outside A-Z, a-z, 0-9 and "_.-~",
// which makes any glyph safe to use as a file name prefix.
func EscapeGlyph(glyph string) string {
	var b strings.Builder
	for i := 0; i < len(glyph); i++ {
		c := glyph[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '_' || c == '.' || c == '-' || c == '~'
}

func globEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
