package games

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/services/ludo"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
)

type LudoManager struct {
	deps  *Deps
	seats *seats[*ludo.Game]
}

func NewLudoManager(deps *Deps) *LudoManager {
	return &LudoManager{
		deps: deps,
		seats: newSeats(func(l *wallet.Ledger) *ludo.Game {
			return ludo.NewGame(l, deps.Source, deps.Delays.Roll, deps.Delays.Turn)
		}),
	}
}

func (m *LudoManager) Name() string  { return "ludo" }
func (m *LudoManager) Title() string { return "Neon Ludo" }

func (m *LudoManager) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        m.Name(),
		Description: fmt.Sprintf("Race the house token for $%d", ludo.Bet),
	}
}

// HandleStart opens a race, or shows the board of the race already running
func (m *LudoManager) HandleStart(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.deps.respond(s, i, m.Name(), false, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		game, l, err := m.seats.get(ctx, m.deps.Wallets, user)
		if err != nil {
			return nil, nil, err
		}
		if game.State() != entities.StatePlaying {
			if err := game.Start(ctx); err != nil {
				return nil, nil, err
			}
		}
		return m.render(ctx, game, l, user.ID, nil), nil, nil
	})
}

func (m *LudoManager) HandleButton(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.deps.respond(s, i, m.Name(), true, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		act, err := parseCustomID(i, user)
		if err != nil {
			return nil, nil, err
		}
		game, l, err := m.seats.get(ctx, m.deps.Wallets, user)
		if err != nil {
			return nil, nil, err
		}

		switch act {
		case "start":
			if err := game.Start(ctx); err != nil {
				return nil, nil, err
			}
			return m.render(ctx, game, l, user.ID, nil), nil, nil
		case "roll":
			turn, err := game.Roll(ctx)
			if err != nil {
				return nil, nil, err
			}
			return m.render(ctx, game, l, user.ID, turn), turn.Result, nil
		default:
			return nil, nil, types.NewGameError(types.ErrInvalidAction, "Unknown button")
		}
	})
}

func (m *LudoManager) Close() {
	m.seats.closeAll()
}

func (m *LudoManager) render(ctx context.Context, game *ludo.Game, l *wallet.Ledger, owner string, turn *ludo.Turn) *discord.Response {
	board := game.Board()

	var res *entities.RoundResult
	fields := []*discordgo.MessageEmbedField{
		{Name: "You", Value: track(board.PlayerPosition, "🔵")},
		{Name: "House", Value: track(board.OpponentPosition, "🔴")},
	}
	if turn != nil {
		res = turn.Result
		rolls := fmt.Sprintf("You rolled 🎲 %d", turn.PlayerRoll)
		if turn.OpponentRoll > 0 {
			rolls += fmt.Sprintf(", the house rolled 🎲 %d", turn.OpponentRoll)
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Rolls", Value: rolls})
	}
	embed := gameEmbed(ctx, m.Title(), l, res, fields...)

	var buttons []discordgo.MessageComponent
	if board.State == entities.StatePlaying {
		buttons = row(button(m.Name(), "roll", owner, "🎲 Roll", discordgo.PrimaryButton, false))
	} else {
		buttons = row(button(m.Name(), "start", owner, fmt.Sprintf("Race again ($%d)", ludo.Bet), discordgo.SuccessButton, false))
	}
	return discord.NewEmbedResponse(embed, buttons)
}

// track draws a token's progress toward the finish flag
func track(pos int, token string) string {
	return strings.Repeat("▫️", pos) + token + strings.Repeat("▫️", ludo.TrackLength-pos) + "🏁"
}
