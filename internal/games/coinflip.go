package games

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/services/coinflip"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
)

type CoinflipManager struct {
	deps  *Deps
	seats *seats[*coinflip.Game]
}

func NewCoinflipManager(deps *Deps) *CoinflipManager {
	return &CoinflipManager{
		deps: deps,
		seats: newSeats(func(l *wallet.Ledger) *coinflip.Game {
			return coinflip.NewGame(l, deps.Source, deps.Delays.Flip)
		}),
	}
}

func (m *CoinflipManager) Name() string  { return "coinflip" }
func (m *CoinflipManager) Title() string { return "Neon Coin Flip" }

func (m *CoinflipManager) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        m.Name(),
		Description: fmt.Sprintf("Call a coin flip for $%d", coinflip.Bet),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "side",
				Description: "Heads or tails, pays 2x",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Heads", Value: string(coinflip.Heads)},
					{Name: "Tails", Value: string(coinflip.Tails)},
				},
			},
		},
	}
}

func (m *CoinflipManager) HandleStart(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	side := stringOption(i, "side")
	m.deps.respond(s, i, m.Name(), false, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		return m.flip(ctx, user, side)
	})
}

func (m *CoinflipManager) HandleButton(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.deps.respond(s, i, m.Name(), true, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		side, err := parseCustomID(i, user)
		if err != nil {
			return nil, nil, err
		}
		return m.flip(ctx, user, side)
	})
}

func (m *CoinflipManager) Close() {
	m.seats.closeAll()
}

func (m *CoinflipManager) flip(ctx context.Context, user *discordgo.User, choice string) (*discord.Response, *entities.RoundResult, error) {
	call, err := coinflip.ParseSide(choice)
	if err != nil {
		return nil, nil, err
	}
	game, l, err := m.seats.get(ctx, m.deps.Wallets, user)
	if err != nil {
		return nil, nil, err
	}
	flip, err := game.Flip(ctx, call)
	if err != nil {
		return nil, nil, err
	}

	embed := gameEmbed(ctx, m.Title(), l, flip.Result,
		&discordgo.MessageEmbedField{Name: "Your call", Value: string(call), Inline: true},
		&discordgo.MessageEmbedField{Name: "Landed", Value: "🪙 " + string(flip.Landed), Inline: true},
	)
	buttons := row(
		button(m.Name(), string(coinflip.Heads), user.ID, "Heads", discordgo.PrimaryButton, false),
		button(m.Name(), string(coinflip.Tails), user.ID, "Tails", discordgo.PrimaryButton, false),
	)
	return discord.NewEmbedResponse(embed, buttons), flip.Result, nil
}
