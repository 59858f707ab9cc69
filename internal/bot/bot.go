// Package bot implements the chat commands independently of any chat
// platform: input cleanup, validation, isolated rendering and the messages
// shown to users.
package bot

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"image"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/kevin-cantwell/babatext"
	"github.com/kevin-cantwell/babatext/internal/worker"
)

// Messages shown to users.
const (
	MsgTextTimeout   = "text is long. baba is sad."
	MsgTextFailed    = "text has error. baba is sad."
	MsgImageTimeout  = "image is big. baba is sad."
	MsgImageFailed   = "image has error. baba is sad. format is not supported."
	MsgConsidering   = "baba is considering..."
	MsgPreview       = "baba has preview. message is send?"
	MsgSent          = "message is send"
	MsgNotSent       = "message is not send"
	MsgExpired       = "preview is gone. baba is sad."
	MsgEnabled       = "baba is go"
	MsgDisabled      = "baba is stop"
	MsgEnableFailed  = "baba is not go. baba has error. you is wait."
	MsgDisableFailed = "baba is not stop. baba has error. you is wait."

	// ResultFilename is the attachment name of every rendered GIF.
	ResultFilename = "baba_text.gif"
)

// Chat clients deliver some sequences escaped or mangled. They are replaced
// in order before validation.
var unescapeSequences = []struct{ from, to string }{
	{`\n`, "\n"},
	{`\t`, "\t"},
	{`\:`, ":"},
	{"ðŸ™‚", ":)"},
	{"ðŸ˜¦", ":("},
}

// Preprocess undoes the escaping applied by chat clients.
func Preprocess(message string) string {
	for _, s := range unescapeSequences {
		message = strings.ReplaceAll(message, s.from, s.to)
	}
	return message
}

// UserError carries the message to show to the user. The cause is for logs.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Err }

// Service renders text and images for chat commands.
type Service struct {
	assets  *babatext.Assets
	cfg     *babatext.Config
	allowed babatext.CharacterSet
	ramp    string
	pool    *worker.Pool
	log     *slog.Logger
}

// New computes the character inventory and color ramp once.
func New(assets *babatext.Assets, pool *worker.Pool, log *slog.Logger) (*Service, error) {
	allowed, err := assets.AllowedCharacters()
	if err != nil {
		return nil, err
	}
	ramp, err := assets.ColorRamp()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		assets:  assets,
		cfg:     assets.Config(),
		allowed: allowed,
		ramp:    ramp,
		pool:    pool,
		log:     log,
	}, nil
}

// Fingerprint identifies user input in logs without logging the input.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:6])
}

func (s *Service) background(transparent bool) babatext.Color {
	if transparent {
		return babatext.Transparent
	}
	return s.cfg.Bot.AlternateBackground
}

// Say renders an already preprocessed message.
func (s *Service) Say(ctx context.Context, message string, transparent bool) ([]byte, error) {
	if err := s.allowed.Validate(message); err != nil {
		var ic *babatext.InvalidCharacterError
		errors.As(err, &ic)
		return nil, &UserError{Message: "message has error. '" + string(ic.Char) + "' is not allowed.", Err: err}
	}
	gif, err := worker.Run(ctx, s.pool, "baba_says", s.cfg.Bot.SayTimeout, func(context.Context) ([]byte, error) {
		text, err := babatext.NewText(s.assets, message, babatext.WithBackground(s.background(transparent)))
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := text.Encode(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	return gif, userFacing(err, MsgTextTimeout, MsgTextFailed)
}

// Draw renders an uploaded image as ASCII art. Large images are sampled so
// that the longer side has at most the configured number of characters.
func (s *Service) Draw(ctx context.Context, data []byte, transparent, greyscale bool) ([]byte, error) {
	gif, err := worker.Run(ctx, s.pool, "baba_draws", s.cfg.Bot.DrawTimeout, func(context.Context) ([]byte, error) {
		src, err := babatext.DecodeSource(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		ppc := PixelsPerCharacter(src.Bounds(), s.cfg.Bot.MaxDimension)
		s.log.Info("sampling image", "width", src.Bounds().Dx(), "height", src.Bounds().Dy(), "ppc", ppc)
		opts := []babatext.Option{
			babatext.WithPixelsPerCharacter(ppc),
			babatext.WithColorRamp(s.ramp),
			babatext.WithBackground(s.background(transparent)),
		}
		if greyscale {
			opts = append(opts, babatext.WithGreyscale())
		}
		art, err := babatext.NewASCIIArt(s.assets, src, opts...)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := art.Encode(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	return gif, userFacing(err, MsgImageTimeout, MsgImageFailed)
}

// PixelsPerCharacter is ceil(longer side / maxDimension), or 1 for images that
// already fit.
func PixelsPerCharacter(bounds image.Rectangle, maxDimension int) int {
	longer := max(bounds.Dx(), bounds.Dy())
	if longer <= maxDimension {
		return 1
	}
	return int(math.Ceil(float64(longer) / float64(maxDimension)))
}

func userFacing(err error, timeout, failed string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, worker.ErrTimeout):
		return &UserError{Message: timeout, Err: err}
	default:
		return &UserError{Message: failed, Err: err}
	}
}
