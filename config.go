package babatext

import (
	"errors"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config holds every tunable of the renderer and the bot. It is loaded once at
// start up and treated as read-only afterwards.
type Config struct {
	ResourceDir string `yaml:"resource_dir"`
	// MaskColor marks background pixels in sprite art. Sprites must not use
	// this exact RGBA value for foreground content.
	MaskColor        Color   `yaml:"mask_color"`
	SpriteSize       int     `yaml:"sprite_size"`
	MaxLetterHeight  float64 `yaml:"max_letter_height"`
	LetterRatio      float64 `yaml:"letter_width_to_height_ratio"`
	FPS              int     `yaml:"fps"`
	FrameCount       int     `yaml:"frame_count"`
	BackgroundSprite string  `yaml:"background_sprite"`
	// TileBackground fills the mask area of the word background tile.
	TileBackground Color             `yaml:"tile_background"`
	Palette        Palette           `yaml:"palette"`
	KnownWords     map[string]string `yaml:"known_words"`
	ASCII          ASCIIConfig       `yaml:"ascii"`
	Bot            BotConfig         `yaml:"bot"`
}

type ASCIIConfig struct {
	LetterWidth        int    `yaml:"letter_width"`
	LetterHeight       int    `yaml:"letter_height"`
	PixelsPerCharacter int    `yaml:"pixels_per_character"`
	GreyscaleColor     string `yaml:"greyscale_color"`
}

type BotConfig struct {
	SayTimeout          time.Duration `yaml:"say_timeout"`
	DrawTimeout         time.Duration `yaml:"draw_timeout"`
	JoinTimeout         time.Duration `yaml:"join_timeout"`
	PreviewTimeout      time.Duration `yaml:"preview_timeout"`
	MaxDimension        int           `yaml:"ascii_max_dimension"`
	AlternateBackground Color         `yaml:"alternate_background"`
	MaxConcurrent       int           `yaml:"max_concurrent_renders"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		ResourceDir:      "./resources",
		MaskColor:        White,
		SpriteSize:       100,
		MaxLetterHeight:  55,
		LetterRatio:      0.8,
		FPS:              4,
		FrameCount:       6,
		BackgroundSprite: "sprite",
		TileBackground:   Transparent,
		Palette:          defaultPalette(),
		KnownWords:       defaultKnownWords(),
		ASCII: ASCIIConfig{
			LetterWidth:        16,
			LetterHeight:       20,
			PixelsPerCharacter: 30,
			GreyscaleColor:     "gray",
		},
		Bot: BotConfig{
			SayTimeout:          10 * time.Second,
			DrawTimeout:         30 * time.Second,
			JoinTimeout:         time.Second,
			PreviewTimeout:      180 * time.Second,
			MaxDimension:        64,
			AlternateBackground: RGB(49, 51, 56),
			MaxConcurrent:       4,
		},
	}
}

func defaultPalette() Palette {
	return Palette{
		{"gray", RGB(128, 128, 128)},
		{"yellow", RGB(255, 255, 60)},
		{"orange", RGB(250, 120, 60)},
		{"dark_red", RGB(255, 60, 60)},
		{"red", RGB(255, 50, 120)},
		{"pale_red", RGB(255, 120, 120)},
		{"dark_purple", RGB(160, 20, 160)},
		{"purple", RGB(120, 120, 255)},
		{"dark_blue", RGB(20, 20, 200)},
		{"blue", RGB(60, 60, 255)},
		{"black", RGB(0, 0, 0)},
		{"pink", RGB(255, 120, 255)},
		{"dark_pink", RGB(255, 60, 255)},
		{"dark_green", RGB(60, 160, 60)},
		{"green", RGB(60, 255, 60)},
		{"light_green", RGB(120, 255, 120)},
		{"brown", RGB(150, 100, 70)},
		{"light_blue", RGB(60, 160, 255)},
	}
}

// Known words map to a palette name or to a literal color.
func defaultKnownWords() map[string]string {
	return map[string]string{
		"baba": "red", "You": "red",
		"keke": "orange", "rock": "brown",
		"Sink": "light_blue", "Float": "light_blue",
		"is": "#ffffff", "and": "#ffffff", "or": "#ffffff", "on": "#ffffff",
		"can": "#ffffff", "the": "#ffffff", "has": "#ffffff",
		"not":  "red",
		"wall": "gray", "flag": "yellow",
		"Blue": "blue", "Red": "dark_red", "Green": "green", "Yellow": "yellow",
		"Pink": "pink", "Orange": "orange", "Purple": "purple",
		"White": "#ffffff", "Black": "black",
		"blue": "blue", "red": "red", "green": "green", "yellow": "yellow",
		"pink": "pink", "orange": "orange", "purple": "purple",
		"white": "#ffffff", "black": "black",
		"violet": "blue", "rose": "dark_red",
		"Win": "yellow",
	}
}

// LoadConfig overlays the YAML file at path onto DefaultConfig. An empty path
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the renderer cannot work with.
func (c *Config) Validate() error {
	switch {
	case len(c.Palette) == 0:
		return errors.New("palette must not be empty")
	case c.SpriteSize <= 0:
		return errors.New("sprite_size must be positive")
	case c.MaxLetterHeight <= 0 || c.LetterRatio <= 0:
		return errors.New("letter geometry must be positive")
	case c.FPS <= 0 || c.FrameCount <= 0:
		return errors.New("fps and frame_count must be positive")
	case c.ASCII.LetterWidth <= 0 || c.ASCII.LetterHeight <= 0:
		return errors.New("ascii letter size must be positive")
	case c.ASCII.PixelsPerCharacter <= 0:
		return errors.New("ascii pixels_per_character must be positive")
	}
	for word, value := range c.KnownWords {
		if _, err := c.ResolveColor(value); err != nil {
			return fmt.Errorf("known word %q: %w", word, err)
		}
	}
	if _, err := c.ResolveColor(c.ASCII.GreyscaleColor); err != nil {
		return fmt.Errorf("ascii greyscale_color: %w", err)
	}
	return nil
}

// ResolveColor accepts either a palette entry name or a color literal.
func (c *Config) ResolveColor(value string) (Color, error) {
	if col, ok := c.Palette.Lookup(value); ok {
		return col, nil
	}
	return ParseColor(value)
}

// FrameDelay is the GIF delay of one animation frame in 1/100s.
func (c *Config) FrameDelay() int {
	return 100 / c.FPS
}

// BotToken extracts the Discord token from the JSON document stored in env,
// e.g. {"DISCORD_BOT_TOKEN": "..."}.
func BotToken(env string) (string, error) {
	raw := os.Getenv(env)
	if raw == "" {
		return "", fmt.Errorf("set %s to '{\"%s\": \"yourtokengoeshere\"}'", env, env)
	}
	var secret map[string]string
	if err := yaml.Unmarshal([]byte(raw), &secret); err != nil {
		return "", fmt.Errorf("parsing %s: %w", env, err)
	}
	token := secret[env]
	if token == "" {
		return "", fmt.Errorf("%s was provided but holds no token", env)
	}
	return token, nil
}
