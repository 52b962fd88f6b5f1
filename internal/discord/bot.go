// Package discord connects the speaking-mode handler to the Discord gateway.
package discord

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"pkt.systems/pslog"
	"pkt.systems/rolepost/core"
	"pkt.systems/rolepost/internal/command"
)

// Intents covers slash commands, message relay and member listing.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildMembers

// Config configures the gateway session.
type Config struct {
	Token string
	// DisableRelay turns off re-posting messages as persona embeds.
	DisableRelay bool
}

// Bot owns a gateway session and routes its events.
type Bot struct {
	session *discordgo.Session
	api     restAPI
	service core.Service
	handler *command.Handler
	relay   bool

	mu      sync.Mutex
	baseCtx context.Context
}

// NewSession creates an unopened session authenticated as a bot.
func NewSession(token string) (*discordgo.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("discord token is required")
	}
	token = strings.TrimPrefix(token, "Bot ")
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = Intents
	return session, nil
}

// New constructs a bot and registers its event handlers.
func New(cfg Config, service core.Service, handler *command.Handler) (*Bot, error) {
	if service == nil {
		return nil, errors.New("service is required")
	}
	if handler == nil {
		return nil, errors.New("command handler is required")
	}
	session, err := NewSession(cfg.Token)
	if err != nil {
		return nil, err
	}
	bot := newBot(session, service, handler, !cfg.DisableRelay)
	bot.session = session
	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		pslog.Ctx(bot.context()).Info("discord session ready", "user", r.User.Username, "guilds", len(r.Guilds))
	})
	session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		bot.onInteractionCreate(bot.context(), i)
	})
	session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		bot.onMessageCreate(bot.context(), m)
	})
	return bot, nil
}

func newBot(api restAPI, service core.Service, handler *command.Handler, relay bool) *Bot {
	return &Bot{
		api:     api,
		service: service,
		handler: handler,
		relay:   relay,
		baseCtx: context.Background(),
	}
}

// Session exposes the underlying session for REST helpers.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Run opens the gateway and blocks until ctx ends.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.baseCtx = ctx
	b.mu.Unlock()
	log := pslog.Ctx(ctx)
	if err := b.session.Open(); err != nil {
		return err
	}
	log.Info("discord gateway open")
	<-ctx.Done()
	if err := b.session.Close(); err != nil {
		log.Warn("discord gateway close failed", "err", err)
		return err
	}
	log.Info("discord gateway closed")
	return nil
}

func (b *Bot) context() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.baseCtx
}
