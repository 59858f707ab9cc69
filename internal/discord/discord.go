// Package discord binds the bot commands to Discord slash commands.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kevin-cantwell/babatext/internal/bot"
)

const (
	maxUploadBytes = 25 << 20
	yesPrefix      = "baba_yes:"
	noPrefix       = "baba_no:"
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "baba_says",
		Description: "Converts your message to baba style gif. Use \\t for horizontal and \\n for vertical spacing.",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "text", Description: "Text to render", Required: true},
			{Type: discordgo.ApplicationCommandOptionBoolean, Name: "transparent_background", Description: "Keep the background transparent"},
		},
	},
	{
		Name:        "baba_draws",
		Description: "Converts your image to baba style ascii art gif.",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionAttachment, Name: "image", Description: "Image or gif to draw", Required: true},
			{Type: discordgo.ApplicationCommandOptionBoolean, Name: "transparent_background", Description: "Keep the background transparent"},
			{Type: discordgo.ApplicationCommandOptionBoolean, Name: "greyscale", Description: "Draw every letter in grey"},
		},
	},
}

// Bot serves the commands on a Discord session.
type Bot struct {
	session  *discordgo.Session
	svc      *bot.Service
	log      *slog.Logger
	http     *http.Client
	previews *bot.Previews[preview]
}

type preview struct {
	original *discordgo.Interaction
	gif      []byte
}

// New creates a bot for token. Previews not answered within expiry are dropped.
func New(token string, svc *bot.Service, expiry time.Duration, log *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	b := &Bot{
		session:  session,
		svc:      svc,
		log:      log,
		http:     &http.Client{Timeout: 30 * time.Second},
		previews: bot.NewPreviews[preview](expiry),
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onGuildCreate)
	session.AddHandler(b.onGuildDelete)
	session.AddHandler(b.onInteraction)
	session.AddHandler(b.onMessage)
	return b, nil
}

// Open connects to the gateway.
func (b *Bot) Open() error { return b.session.Open() }

// Close disconnects from the gateway.
func (b *Bot) Close() error { return b.session.Close() }

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("logged in", "user", r.User.String())
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	b.log.Info("setting up slash commands", "guild", g.Name)
	synced, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, g.ID, commands)
	if err != nil {
		b.log.Error("syncing commands", "guild", g.Name, "err", err)
		return
	}
	b.log.Info("synced commands", "guild", g.Name, "count", len(synced))
}

func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	b.log.Info("bot removed from guild", "guild", g.ID)
}

// onMessage handles the !enable_baba and !disable_baba admin commands.
func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}
	var enable bool
	switch strings.TrimSpace(m.Content) {
	case "!enable_baba":
		enable = true
	case "!disable_baba":
	default:
		return
	}
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || perms&discordgo.PermissionBanMembers == 0 {
		return
	}
	cmds := []*discordgo.ApplicationCommand{}
	ok, fail := bot.MsgDisabled, bot.MsgDisableFailed
	if enable {
		cmds = commands
		ok, fail = bot.MsgEnabled, bot.MsgEnableFailed
	}
	reply := ok
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, m.GuildID, cmds); err != nil {
		b.log.Error("updating commands", "guild", m.GuildID, "enable", enable, "err", err)
		reply = fail
	} else {
		b.log.Info("updated commands", "guild", m.GuildID, "enable", enable)
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		b.log.Error("replying", "err", err)
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		in := &interaction{bot: b, i: i.Interaction}
		switch data.Name {
		case "baba_says":
			text := ""
			transparent := true
			for _, opt := range data.Options {
				switch opt.Name {
				case "text":
					text = opt.StringValue()
				case "transparent_background":
					transparent = opt.BoolValue()
				}
			}
			b.svc.HandleSay(ctx, in, text, transparent)
		case "baba_draws":
			var attachment *discordgo.MessageAttachment
			transparent, greyscale := true, false
			for _, opt := range data.Options {
				switch opt.Name {
				case "image":
					if id, ok := opt.Value.(string); ok && data.Resolved != nil {
						attachment = data.Resolved.Attachments[id]
					}
				case "transparent_background":
					transparent = opt.BoolValue()
				case "greyscale":
					greyscale = opt.BoolValue()
				}
			}
			if attachment == nil {
				b.log.Error("baba_draws without attachment")
				return
			}
			fetch := func(ctx context.Context) ([]byte, error) { return b.download(ctx, attachment.URL) }
			b.svc.HandleDraw(ctx, in, attachment.Filename, fetch, transparent, greyscale)
		}
	case discordgo.InteractionMessageComponent:
		b.onButton(s, i)
	}
}

func (b *Bot) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading attachment: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxUploadBytes))
}

func (b *Bot) onButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	id := i.MessageComponentData().CustomID
	var key string
	var accept bool
	switch {
	case strings.HasPrefix(id, yesPrefix):
		key, accept = strings.TrimPrefix(id, yesPrefix), true
	case strings.HasPrefix(id, noPrefix):
		key = strings.TrimPrefix(id, noPrefix)
	default:
		return
	}
	p, held := b.previews.Take(key)
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:     bot.Answer(accept, held),
			Components:  []discordgo.MessageComponent{},
			Attachments: &[]*discordgo.MessageAttachment{},
		},
	})
	if err != nil {
		b.log.Error("answering button", "err", err)
	}
	if !held {
		b.log.Info("preview expired", "key", key)
		return
	}
	if !accept {
		if err := s.InteractionResponseDelete(p.original); err != nil {
			b.log.Error("deleting preview", "err", err)
		}
		return
	}
	empty := ""
	_, err = s.InteractionResponseEdit(p.original, &discordgo.WebhookEdit{
		Content: &empty,
		Files:   []*discordgo.File{gifFile(p.gif)},
	})
	if err != nil {
		b.log.Error("posting gif", "err", err)
	}
}

func gifFile(gif []byte) *discordgo.File {
	return &discordgo.File{Name: bot.ResultFilename, ContentType: "image/gif", Reader: bytes.NewReader(gif)}
}

// interaction adapts a Discord interaction to bot.Interaction.
type interaction struct {
	bot *Bot
	i   *discordgo.Interaction
}

func (in *interaction) Guild() string { return in.i.GuildID }

func (in *interaction) Defer(ctx context.Context) error {
	return in.bot.session.InteractionRespond(in.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
}

func (in *interaction) Fail(ctx context.Context, message string) error {
	s := in.bot.session
	if err := s.InteractionResponseDelete(in.i, discordgo.WithContext(ctx)); err != nil {
		return err
	}
	_, err := s.FollowupMessageCreate(in.i, true, &discordgo.WebhookParams{
		Content: message,
		Flags:   discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	return err
}

func (in *interaction) Preview(ctx context.Context, gif []byte) error {
	s := in.bot.session
	considering := bot.MsgConsidering
	if _, err := s.InteractionResponseEdit(in.i, &discordgo.WebhookEdit{Content: &considering}, discordgo.WithContext(ctx)); err != nil {
		return err
	}
	key := in.i.ID
	in.bot.previews.Put(key, preview{original: in.i, gif: gif})
	_, err := s.FollowupMessageCreate(in.i, true, &discordgo.WebhookParams{
		Content: bot.MsgPreview,
		Files:   []*discordgo.File{gifFile(gif)},
		Flags:   discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Yes", Style: discordgo.SuccessButton, CustomID: yesPrefix + key},
				discordgo.Button{Label: "No", Style: discordgo.DangerButton, CustomID: noPrefix + key},
			}},
		},
	}, discordgo.WithContext(ctx))
	return err
}
