package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/codegangsta/cli"
	"github.com/kevin-cantwell/babatext"
	"github.com/kevin-cantwell/babatext/internal/bot"
	"github.com/kevin-cantwell/babatext/internal/discord"
	"github.com/kevin-cantwell/babatext/internal/worker"
)

const tokenEnv = "DISCORD_BOT_TOKEN"

func main() {
	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "baba-bot"
	app.Usage = "Serve baba_says and baba_draws as Discord slash commands."
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "`FILE` with YAML overrides of the default configuration",
			EnvVar: "BABA_CONFIG",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Log at debug level",
		},
	}
	app.Action = func(c *cli.Context) error {
		level := slog.LevelInfo
		if c.Bool("debug") {
			level = slog.LevelDebug
		}
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		babatext.SetLogger(log)

		cfg, err := babatext.LoadConfig(c.String("config"))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		token, err := babatext.BotToken(tokenEnv)
		if err != nil {
			return cli.NewExitError("failed to start: "+err.Error(), 1)
		}
		assets, err := babatext.OpenAssets(cfg)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		pool := worker.NewPool(cfg.Bot.MaxConcurrent, cfg.Bot.JoinTimeout, log)
		svc, err := bot.New(assets, pool, log)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		b, err := discord.New(token, svc, cfg.Bot.PreviewTimeout, log)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if err := b.Open(); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		defer b.Close()

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		s := <-signals
		log.Info("shutting down", "signal", s.String())
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
