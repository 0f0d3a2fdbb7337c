package games

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/services/roulette"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
)

var colorIcons = map[roulette.Color]string{
	roulette.Red:   "🔴",
	roulette.Black: "⚫",
	roulette.Green: "🟢",
}

type RouletteManager struct {
	deps  *Deps
	seats *seats[*roulette.Game]
}

func NewRouletteManager(deps *Deps) *RouletteManager {
	return &RouletteManager{
		deps: deps,
		seats: newSeats(func(l *wallet.Ledger) *roulette.Game {
			return roulette.NewGame(l, deps.Source, deps.Delays.Wheel)
		}),
	}
}

func (m *RouletteManager) Name() string  { return "roulette" }
func (m *RouletteManager) Title() string { return "Neon Roulette" }

func (m *RouletteManager) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        m.Name(),
		Description: fmt.Sprintf("Bet $%d on a color", roulette.Bet),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "color",
				Description: "Red or black, pays 2x",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Red", Value: string(roulette.Red)},
					{Name: "Black", Value: string(roulette.Black)},
				},
			},
		},
	}
}

func (m *RouletteManager) HandleStart(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	color := stringOption(i, "color")
	m.deps.respond(s, i, m.Name(), false, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		return m.spin(ctx, user, color)
	})
}

func (m *RouletteManager) HandleButton(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.deps.respond(s, i, m.Name(), true, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		color, err := parseCustomID(i, user)
		if err != nil {
			return nil, nil, err
		}
		return m.spin(ctx, user, color)
	})
}

func (m *RouletteManager) Close() {
	m.seats.closeAll()
}

func (m *RouletteManager) spin(ctx context.Context, user *discordgo.User, choice string) (*discord.Response, *entities.RoundResult, error) {
	color, err := roulette.ParseColor(choice)
	if err != nil {
		return nil, nil, err
	}
	game, l, err := m.seats.get(ctx, m.deps.Wallets, user)
	if err != nil {
		return nil, nil, err
	}
	spin, err := game.Spin(ctx, color)
	if err != nil {
		return nil, nil, err
	}

	embed := gameEmbed(ctx, m.Title(), l, spin.Result,
		&discordgo.MessageEmbedField{Name: "Your pick", Value: colorIcons[color] + " " + string(color), Inline: true},
		&discordgo.MessageEmbedField{Name: "Ball", Value: fmt.Sprintf("%s %d", colorIcons[spin.Color], spin.Number), Inline: true},
	)
	buttons := row(
		button(m.Name(), string(roulette.Red), user.ID, "🔴 Red", discordgo.DangerButton, false),
		button(m.Name(), string(roulette.Black), user.ID, "⚫ Black", discordgo.SecondaryButton, false),
	)
	return discord.NewEmbedResponse(embed, buttons), spin.Result, nil
}
