package games

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
)

// Embed colors
const (
	colorPlaying = 0x9B59B6
	colorWin     = 0x2ECC71
	colorLoss    = 0xE74C3C
	colorNeutral = 0xF1C40F
)

type closer interface {
	Close()
}

// seats keeps one controller per player, opened against the player's ledger
type seats[T closer] struct {
	mu     sync.Mutex
	byUser map[string]T
	open   func(l *wallet.Ledger) T
}

func newSeats[T closer](open func(l *wallet.Ledger) T) *seats[T] {
	return &seats[T]{
		byUser: make(map[string]T),
		open:   open,
	}
}

// get returns the player's controller and ledger, signing the player up on
// first use
func (st *seats[T]) get(ctx context.Context, wallets *wallet.Registry, user *discordgo.User) (T, *wallet.Ledger, error) {
	var zero T
	l, err := wallets.GetOrCreate(ctx, user.ID, user.Username)
	if err != nil {
		return zero, nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if t, ok := st.byUser[user.ID]; ok {
		return t, l, nil
	}
	t := st.open(l)
	st.byUser[user.ID] = t
	return t, l, nil
}

func (st *seats[T]) closeAll() {
	st.mu.Lock()
	defer st.mu.Unlock()

	for id, t := range st.byUser {
		t.Close()
		delete(st.byUser, id)
	}
}

// customID builds a button ID of the form <game>_<action>:<owner>
func customID(game, action, owner string) string {
	return game + "_" + action + ":" + owner
}

// parseCustomID splits a button ID and checks it belongs to the presser
func parseCustomID(i *discordgo.InteractionCreate, user *discordgo.User) (string, error) {
	id := i.MessageComponentData().CustomID
	rest, owner, _ := strings.Cut(id, ":")
	_, action, ok := strings.Cut(rest, "_")
	if !ok {
		return "", types.NewGameError(types.ErrInvalidAction, "Unknown button")
	}
	if owner != "" && owner != user.ID {
		return "", types.NewGameError(types.ErrInvalidAction, "This isn't your table. Start your own with a slash command!")
	}
	return action, nil
}

func button(game, action, owner, label string, style discordgo.ButtonStyle, disabled bool) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: customID(game, action, owner),
		Disabled: disabled,
	}
}

func row(buttons ...discordgo.MessageComponent) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

// stringOption returns the named option of a slash command, or ""
func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// resultField renders a settled round
func resultField(res *entities.RoundResult) *discordgo.MessageEmbedField {
	var value string
	switch res.Status {
	case entities.RoundWin:
		value = fmt.Sprintf("🏆 %s\nYou won **%s**", res.Message, money(res.Amount))
	case entities.RoundNeutral:
		value = fmt.Sprintf("🤝 %s\n**%s** back", res.Message, money(res.Amount))
	default:
		value = fmt.Sprintf("💀 %s\nYou lost **%s**", res.Message, money(res.Amount))
	}
	return &discordgo.MessageEmbedField{Name: "Result", Value: value}
}

func resultColor(res *entities.RoundResult) int {
	if res == nil {
		return colorPlaying
	}
	switch res.Status {
	case entities.RoundWin:
		return colorWin
	case entities.RoundNeutral:
		return colorNeutral
	default:
		return colorLoss
	}
}

// balanceFooter shows the player's total after the round
func balanceFooter(ctx context.Context, l *wallet.Ledger) *discordgo.MessageEmbedFooter {
	total, err := l.TotalBalance(ctx)
	if err != nil {
		return nil
	}
	return &discordgo.MessageEmbedFooter{Text: "Balance: " + money(total)}
}

// gameEmbed is the common frame of every table message
func gameEmbed(ctx context.Context, title string, l *wallet.Ledger, res *entities.RoundResult, fields ...*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  title,
		Color:  resultColor(res),
		Fields: fields,
		Footer: balanceFooter(ctx, l),
	}
	if res != nil {
		embed.Fields = append(embed.Fields, resultField(res))
	}
	return embed
}
