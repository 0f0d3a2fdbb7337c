package games

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/services/blackjack"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
)

type BlackjackManager struct {
	deps  *Deps
	seats *seats[*blackjack.Game]
}

func NewBlackjackManager(deps *Deps) *BlackjackManager {
	return &BlackjackManager{
		deps: deps,
		seats: newSeats(func(l *wallet.Ledger) *blackjack.Game {
			return blackjack.NewGame(l, deps.Source, deps.Delays.Dealer)
		}),
	}
}

func (m *BlackjackManager) Name() string  { return "blackjack" }
func (m *BlackjackManager) Title() string { return "Neon Blackjack" }

func (m *BlackjackManager) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        m.Name(),
		Description: "Sit down at the blackjack table",
	}
}

// HandleStart shows the player's table, mid-hand or not
func (m *BlackjackManager) HandleStart(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.deps.respond(s, i, m.Name(), false, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		game, l, err := m.seats.get(ctx, m.deps.Wallets, user)
		if err != nil {
			return nil, nil, err
		}
		return m.render(ctx, game, l, user.ID, nil), nil, nil
	})
}

func (m *BlackjackManager) HandleButton(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.deps.respond(s, i, m.Name(), true, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		act, err := parseCustomID(i, user)
		if err != nil {
			return nil, nil, err
		}
		game, l, err := m.seats.get(ctx, m.deps.Wallets, user)
		if err != nil {
			return nil, nil, err
		}

		var res *entities.RoundResult
		switch act {
		case "deal":
			res, err = game.Deal(ctx)
		case "hit":
			res, err = game.Hit(ctx)
		case "stand":
			res, err = game.Stand(ctx)
		case "betup":
			err = game.AdjustBet(blackjack.BetStep)
		case "betdown":
			err = game.AdjustBet(-blackjack.BetStep)
		default:
			err = types.NewGameError(types.ErrInvalidAction, "Unknown button")
		}
		if err != nil {
			return nil, nil, err
		}
		return m.render(ctx, game, l, user.ID, res), res, nil
	})
}

func (m *BlackjackManager) Close() {
	m.seats.closeAll()
}

// render draws the table. res is only shown when it was settled by this
// interaction so an old result does not linger on /blackjack.
func (m *BlackjackManager) render(ctx context.Context, game *blackjack.Game, l *wallet.Ledger, owner string, res *entities.RoundResult) *discord.Response {
	view := game.View()

	dealer := fmt.Sprintf("%s (%d)", view.Dealer.String(), view.Dealer.Value())
	if view.HoleHidden && len(view.Dealer.Cards) > 0 {
		up := view.Dealer.Cards[0]
		dealer = fmt.Sprintf("%s 🂠 (%d)", up.String(), blackjack.GetCardValue(up))
	}
	player := fmt.Sprintf("%s (%d)", view.Player.String(), view.Player.Value())
	if len(view.Player.Cards) == 0 {
		dealer, player = "-", "-"
	}

	embed := gameEmbed(ctx, m.Title(), l, res,
		&discordgo.MessageEmbedField{Name: "Dealer", Value: dealer},
		&discordgo.MessageEmbedField{Name: "You", Value: player},
		&discordgo.MessageEmbedField{Name: "Bet", Value: money(view.Bet), Inline: true},
	)

	var buttons []discordgo.MessageComponent
	if view.State == entities.StatePlaying {
		buttons = row(
			button(m.Name(), "hit", owner, "Hit", discordgo.PrimaryButton, false),
			button(m.Name(), "stand", owner, "Stand", discordgo.SecondaryButton, false),
		)
	} else {
		atMin := view.Bet.IntPart() <= blackjack.MinBet
		buttons = row(
			button(m.Name(), "betdown", owner, fmt.Sprintf("Bet -%d", blackjack.BetStep), discordgo.SecondaryButton, atMin),
			button(m.Name(), "deal", owner, "Deal "+money(view.Bet), discordgo.SuccessButton, false),
			button(m.Name(), "betup", owner, fmt.Sprintf("Bet +%d", blackjack.BetStep), discordgo.SecondaryButton, false),
		)
	}
	return discord.NewEmbedResponse(embed, buttons)
}
