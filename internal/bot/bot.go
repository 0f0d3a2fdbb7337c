package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/config"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/internal/games"
	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/pkg/services/referral"
	"github.com/fadedpez/neonvegas/pkg/services/ticker"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
)

// Services are the casino back ends the bot fronts
type Services struct {
	Wallets   *wallet.Registry
	Referrals *referral.Service
	Feed      *ticker.Feed
	Games     *games.Registry
	Logger    *logging.Logger
}

// Bot represents the Discord bot and its dependencies
type Bot struct {
	config   *config.Config
	session  discord.SessionHandler
	commands []*discordgo.ApplicationCommand
	removers []func()

	wallets   *wallet.Registry
	referrals *referral.Service
	feed      *ticker.Feed
	games     *games.Registry
	log       *logging.Logger

	shutdownWg sync.WaitGroup
}

// New creates a bot on session and registers its handlers
func New(cfg *config.Config, session discord.SessionHandler, svc Services) *Bot {
	if svc.Logger == nil {
		svc.Logger = logging.Default
	}

	bot := &Bot{
		config:    cfg,
		session:   session,
		commands:  make([]*discordgo.ApplicationCommand, 0),
		wallets:   svc.Wallets,
		referrals: svc.Referrals,
		feed:      svc.Feed,
		games:     svc.Games,
		log:       svc.Logger,
	}

	bot.removers = append(bot.removers,
		session.AddHandler(bot.handleInteractionCreate),
		session.AddHandler(bot.handleReady),
	)
	return bot
}

// Start connects to Discord and registers the slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	return nil
}

// Shutdown stops taking interactions, closes every table and waits for
// in-flight handlers and commentary
func (b *Bot) Shutdown() {
	for _, remove := range b.removers {
		if remove != nil {
			remove()
		}
	}

	// Cleanup commands if in development
	if b.config.IsDevelopment() {
		b.cleanupCommands()
	}

	b.shutdownWg.Wait()
	if b.games != nil {
		b.games.CloseAll()
	}

	if err := b.session.Close(); err != nil {
		b.log.Error("[BOT] Error closing Discord session: %v", err)
	}
}

// handleInteractionCreate handles Discord interaction events
func (b *Bot) handleInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.shutdownWg.Add(1)
	defer b.shutdownWg.Done()

	b.dispatch(i)
}

func (b *Bot) handleReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("[BOT] Logged in as %s", r.User.String())
}

// dispatch routes an interaction to its handler
func (b *Bot) dispatch(i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlashCommand(i)
	case discordgo.InteractionMessageComponent:
		b.handleMessageComponent(i)
	}
}
