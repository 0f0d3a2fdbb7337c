package games

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/config"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/fadedpez/neonvegas/pkg/services/commentary"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
)

const commentaryTimeout = 10 * time.Second

// Manager routes a game's slash command and buttons to per-player controllers
type Manager interface {
	// Name is the slash command and the custom ID prefix of the game's buttons
	Name() string

	// Title is the display name of the game
	Title() string

	// Command describes the slash command that opens the game
	Command() *discordgo.ApplicationCommand

	// HandleStart handles the game's slash command
	HandleStart(s discord.SessionHandler, i *discordgo.InteractionCreate)

	// HandleButton handles button interactions for the game
	HandleButton(s discord.SessionHandler, i *discordgo.InteractionCreate)

	// Close closes every table, forfeiting rounds still in play
	Close()
}

// Deps are the services every manager plays against
type Deps struct {
	Wallets         *wallet.Registry
	Commentary      commentary.Adapter // nil disables commentary follow-ups
	Source          outcome.Source
	Delays          config.Delays
	StrategyTimeout time.Duration
	Logger          *logging.Logger

	pending sync.WaitGroup
}

// Wait blocks until queued commentary follow-ups have been posted
func (d *Deps) Wait() {
	d.pending.Wait()
}

func (d *Deps) log() *logging.Logger {
	if d.Logger == nil {
		return logging.Default
	}
	return d.Logger
}

// action runs one player request. It returns the message to show and, when a
// round resolved, its result.
type action func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error)

// respond acknowledges the interaction at once, runs act, then edits the
// acknowledged message with the outcome. Button presses (update) keep their
// message on failure and get a private error instead.
func (d *Deps) respond(s discord.SessionHandler, i *discordgo.InteractionCreate, game string, update bool, act action) {
	user := discord.UserOf(i)
	if user == nil || user.ID == "" {
		_ = discord.SendErrorResponse(s, i, types.NewGameError(types.ErrInvalidCommand, "Could not tell who you are"))
		return
	}

	var err error
	if update {
		err = discord.DeferUpdate(s, i)
	} else {
		err = discord.Defer(s, i, false)
	}
	if err != nil {
		d.log().Error("[%s] acknowledging interaction for %s: %v", game, user.ID, err)
		return
	}

	resp, res, err := act(context.Background(), user)
	if err != nil {
		d.log().LogError(err)
		if update {
			err = discord.SendErrorFollowup(s, i, err)
		} else {
			err = discord.EditResponse(s, i, discord.NewResponse(discord.ErrorText(err), nil))
		}
		if err != nil {
			d.log().Error("[%s] reporting error to %s: %v", game, user.ID, err)
		}
		return
	}

	if err := discord.EditResponse(s, i, resp); err != nil {
		d.log().Error("[%s] updating message for %s: %v", game, user.ID, err)
		return
	}

	if res != nil {
		d.comment(s, i, game, res)
	}
}

// comment posts dealer commentary on res as a follow-up without holding up
// the reply
func (d *Deps) comment(s discord.SessionHandler, i *discordgo.InteractionCreate, game string, res *entities.RoundResult) {
	if d.Commentary == nil {
		return
	}

	d.pending.Add(1)
	go func() {
		defer d.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), commentaryTimeout)
		defer cancel()

		text := d.Commentary.Commentary(ctx, game, res.Status, res.Amount)
		if err := discord.SendFollowup(s, i, "🎙️ "+text); err != nil {
			d.log().Warn("[%s] posting commentary: %v", game, err)
		}
	}()
}
