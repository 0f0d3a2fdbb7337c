package games

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/services/slots"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
)

type SlotsManager struct {
	deps  *Deps
	seats *seats[*slots.Game]
}

func NewSlotsManager(deps *Deps) *SlotsManager {
	return &SlotsManager{
		deps: deps,
		seats: newSeats(func(l *wallet.Ledger) *slots.Game {
			return slots.NewGame(l, deps.Source, deps.Delays.Spin)
		}),
	}
}

func (m *SlotsManager) Name() string  { return "slots" }
func (m *SlotsManager) Title() string { return "Neon Slots" }

func (m *SlotsManager) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        m.Name(),
		Description: fmt.Sprintf("Spin the reels for $%d", slots.Bet),
	}
}

func (m *SlotsManager) HandleStart(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.deps.respond(s, i, m.Name(), false, m.spin(nil))
}

func (m *SlotsManager) HandleButton(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.deps.respond(s, i, m.Name(), true, m.spin(i))
}

func (m *SlotsManager) Close() {
	m.seats.closeAll()
}

// spin checks a pressed button when there is one, then pulls the lever
func (m *SlotsManager) spin(pressed *discordgo.InteractionCreate) action {
	return func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		if pressed != nil {
			if _, err := parseCustomID(pressed, user); err != nil {
				return nil, nil, err
			}
		}

		game, l, err := m.seats.get(ctx, m.deps.Wallets, user)
		if err != nil {
			return nil, nil, err
		}
		spin, err := game.Spin(ctx)
		if err != nil {
			return nil, nil, err
		}

		embed := gameEmbed(ctx, m.Title(), l, spin.Result, &discordgo.MessageEmbedField{
			Name:  "Reels",
			Value: "[ " + spin.Reels.String() + " ]",
		})
		buttons := row(button(m.Name(), "spin", user.ID, fmt.Sprintf("Spin again ($%d)", slots.Bet), discordgo.PrimaryButton, false))
		return discord.NewEmbedResponse(embed, buttons), spin.Result, nil
	}
}
