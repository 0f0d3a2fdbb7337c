package games

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/services/rps"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
)

var moveIcons = map[rps.Move]string{
	rps.Rock:     "🪨",
	rps.Paper:    "📄",
	rps.Scissors: "✂️",
}

type RPSManager struct {
	deps  *Deps
	seats *seats[*rps.Game]
}

func NewRPSManager(deps *Deps) *RPSManager {
	var strategist rps.Strategist
	if deps.Commentary != nil {
		strategist = deps.Commentary
	}
	return &RPSManager{
		deps: deps,
		seats: newSeats(func(l *wallet.Ledger) *rps.Game {
			return rps.NewGame(l, strategist, deps.Source, deps.StrategyTimeout)
		}),
	}
}

func (m *RPSManager) Name() string  { return "rps" }
func (m *RPSManager) Title() string { return "Neon Rock Paper Scissors" }

func (m *RPSManager) Command() *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(rps.Moves))
	for _, mv := range rps.Moves {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: moveIcons[mv] + " " + string(mv), Value: string(mv)})
	}
	return &discordgo.ApplicationCommand{
		Name:        m.Name(),
		Description: fmt.Sprintf("Throw against the house for $%d", rps.Bet),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "move",
				Description: "Your throw",
				Required:    true,
				Choices:     choices,
			},
		},
	}
}

func (m *RPSManager) HandleStart(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	move := stringOption(i, "move")
	m.deps.respond(s, i, m.Name(), false, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		return m.play(ctx, user, move)
	})
}

func (m *RPSManager) HandleButton(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	m.deps.respond(s, i, m.Name(), true, func(ctx context.Context, user *discordgo.User) (*discord.Response, *entities.RoundResult, error) {
		move, err := parseCustomID(i, user)
		if err != nil {
			return nil, nil, err
		}
		return m.play(ctx, user, move)
	})
}

func (m *RPSManager) Close() {
	m.seats.closeAll()
}

func (m *RPSManager) play(ctx context.Context, user *discordgo.User, choice string) (*discord.Response, *entities.RoundResult, error) {
	move, err := rps.ParseMove(choice)
	if err != nil {
		return nil, nil, err
	}
	game, l, err := m.seats.get(ctx, m.deps.Wallets, user)
	if err != nil {
		return nil, nil, err
	}
	throw, err := game.Play(ctx, move)
	if err != nil {
		return nil, nil, err
	}

	embed := gameEmbed(ctx, m.Title(), l, throw.Result,
		&discordgo.MessageEmbedField{Name: "You", Value: moveIcons[throw.Player] + " " + string(throw.Player), Inline: true},
		&discordgo.MessageEmbedField{Name: "House", Value: moveIcons[throw.Opponent] + " " + string(throw.Opponent), Inline: true},
	)
	buttons := make([]discordgo.MessageComponent, 0, len(rps.Moves))
	for _, mv := range rps.Moves {
		buttons = append(buttons, button(m.Name(), string(mv), user.ID, moveIcons[mv]+" "+string(mv), discordgo.PrimaryButton, false))
	}
	return discord.NewEmbedResponse(embed, row(buttons...)), throw.Result, nil
}
