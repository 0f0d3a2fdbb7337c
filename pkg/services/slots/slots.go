package slots

import (
	"context"
	"time"

	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/games/common"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
)

const Bet = 20

type Symbol struct {
	Name  string
	Icon  string
	Value decimal.Decimal
}

// Symbols are the faces on every reel, each paying its value on a triple
var Symbols = []Symbol{
	{Name: "Cherry", Icon: "🍒", Value: decimal.NewFromInt(2)},
	{Name: "Zap", Icon: "⚡", Value: decimal.NewFromInt(5)},
	{Name: "Star", Icon: "⭐", Value: decimal.NewFromInt(10)},
	{Name: "Gem", Icon: "💎", Value: decimal.NewFromInt(20)},
	{Name: "Dollar", Icon: "💵", Value: decimal.NewFromInt(50)},
}

var pairMultiplier = common.Multiplier("1.5")

type Reels [3]Symbol

func (r Reels) String() string {
	return r[0].Icon + " " + r[1].Icon + " " + r[2].Icon
}

// Payout is the multiplier for a line: the symbol value for three of a kind,
// 1.5 when exactly two match, zero otherwise.
func Payout(r Reels) (decimal.Decimal, string) {
	switch {
	case r[0].Name == r[1].Name && r[1].Name == r[2].Name:
		return r[0].Value, "JACKPOT! Triple " + r[0].Name + "!"
	case r[0].Name == r[1].Name || r[1].Name == r[2].Name || r[0].Name == r[2].Name:
		return pairMultiplier, "Two of a kind!"
	default:
		return decimal.Zero, "No match."
	}
}

// Spin is one pull of the lever
type Spin struct {
	Reels  Reels
	Result *entities.RoundResult
}

type Game struct {
	bank  wallet.Bank
	src   outcome.Source
	delay time.Duration
	table *common.Table
}

func NewGame(bank wallet.Bank, src outcome.Source, spinDelay time.Duration) *Game {
	return &Game{
		bank:  bank,
		src:   src,
		delay: spinDelay,
		table: common.NewTable(),
	}
}

func (g *Game) Name() string {
	return "slots"
}

func (g *Game) State() entities.GameState {
	return g.table.State()
}

// Spin takes the bet, lets the reels run for the spin delay and pays the line
func (g *Game) Spin(ctx context.Context) (*Spin, error) {
	ctx, release, err := g.table.Begin(ctx, func(ctx context.Context) (common.Round, error) {
		return g.bank.OpenRound(ctx, decimal.NewFromInt(Bet))
	})
	if err != nil {
		return nil, err
	}
	defer release()

	if err := g.table.Wait(ctx, g.delay); err != nil {
		return nil, err
	}

	var reels Reels
	for i := range reels {
		reels[i] = Symbols[g.src.Intn(len(Symbols))]
	}

	multiplier, message := Payout(reels)
	res, err := g.table.Finish(ctx, multiplier, message)
	if err != nil {
		return nil, err
	}
	return &Spin{Reels: reels, Result: res}, nil
}

// Close stops a spin in progress; its bet is forfeited
func (g *Game) Close() {
	g.table.Close()
}
