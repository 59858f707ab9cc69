package babatext

import (
	"errors"
	"fmt"
)

var (
	// ErrAssetMissing matches every *AssetMissingError.
	ErrAssetMissing = errors.New("sprite not found")
	// ErrInvalidCharacter matches every *InvalidCharacterError.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrEmptyText is returned when the input has no renderable words.
	ErrEmptyText = errors.New("text must contain at least one word")
	// ErrImageTooSmall is returned when downsampling leaves no character cells.
	ErrImageTooSmall = errors.New("image is smaller than one character cell")
)

// AssetMissingError reports an object name with zero sprite files.
type AssetMissingError struct {
	Name string
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("sprite not found for %s", e.Name)
}

func (e *AssetMissingError) Is(target error) bool {
	return target == ErrAssetMissing
}

// InvalidCharacterError names a glyph outside the allowed character set.
type InvalidCharacterError struct {
	Char rune
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("character %q is not allowed", e.Char)
}

func (e *InvalidCharacterError) Is(target error) bool {
	return target == ErrInvalidCharacter
}

// LayoutError is the panic value raised when a packing computation breaks one
// of its own invariants. It indicates a bug, not bad input.
type LayoutError struct {
	Word    string
	OffsetX int
	OffsetY int
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("negative centering offset (%d,%d) laying out %q", e.OffsetX, e.OffsetY, e.Word)
}
