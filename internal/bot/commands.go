package bot

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"
)

// Interaction is one command invocation on a chat platform.
type Interaction interface {
	Guild() string
	// Defer acknowledges the command publicly while the result is computed.
	Defer(ctx context.Context) error
	// Fail removes the deferred response and shows message to the invoker only.
	Fail(ctx context.Context, message string) error
	// Preview shows gif to the invoker only and asks whether to post it.
	Preview(ctx context.Context, gif []byte) error
}

// HandleSay runs the text command end to end.
func (s *Service) HandleSay(ctx context.Context, in Interaction, text string, transparent bool) {
	log := s.log.With("command", "baba_says", "guild", in.Guild(),
		"length", utf8.RuneCountInString(text), "fingerprint", Fingerprint([]byte(text)))
	log.Info("processing message")
	defer log.Info("processed message")

	if err := in.Defer(ctx); err != nil {
		log.Error("deferring response", "err", err)
		return
	}
	gif, err := s.Say(ctx, Preprocess(text), transparent)
	s.respond(ctx, in, log, gif, err)
}

// HandleDraw runs the image command end to end. fetch downloads the upload.
func (s *Service) HandleDraw(ctx context.Context, in Interaction, filename string, fetch func(context.Context) ([]byte, error), transparent, greyscale bool) {
	log := s.log.With("command", "baba_draws", "guild", in.Guild(), "file", filename)
	log.Info("processing image")
	defer log.Info("processed image")

	if err := in.Defer(ctx); err != nil {
		log.Error("deferring response", "err", err)
		return
	}
	data, err := fetch(ctx)
	if err != nil {
		s.respond(ctx, in, log, nil, &UserError{Message: MsgImageFailed, Err: err})
		return
	}
	log.Info("downloaded image", "bytes", len(data), "fingerprint", Fingerprint(data))
	gif, err := s.Draw(ctx, data, transparent, greyscale)
	s.respond(ctx, in, log, gif, err)
}

func (s *Service) respond(ctx context.Context, in Interaction, log *slog.Logger, gif []byte, err error) {
	if err != nil {
		msg := MsgTextFailed
		var ue *UserError
		if errors.As(err, &ue) {
			msg = ue.Message
		}
		log.Error("render rejected", "reason", msg, "err", err)
		if ferr := in.Fail(ctx, msg); ferr != nil {
			log.Error("reporting failure", "err", ferr)
		}
		return
	}
	if perr := in.Preview(ctx, gif); perr != nil {
		log.Error("sending preview", "err", perr)
	}
}
