package coinflip

import (
	"context"
	"strings"
	"time"

	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/games/common"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
)

const Bet = 100

type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

var sides = [2]Side{Heads, Tails}

func ParseSide(s string) (Side, error) {
	switch side := Side(strings.ToLower(strings.TrimSpace(s))); side {
	case Heads, Tails:
		return side, nil
	default:
		return "", types.NewGameError(types.ErrInvalidArgument, "Call heads or tails")
	}
}

type Flip struct {
	Landed Side
	Result *entities.RoundResult
}

type Game struct {
	bank  wallet.Bank
	src   outcome.Source
	delay time.Duration
	table *common.Table
}

func NewGame(bank wallet.Bank, src outcome.Source, flipDelay time.Duration) *Game {
	return &Game{
		bank:  bank,
		src:   src,
		delay: flipDelay,
		table: common.NewTable(),
	}
}

func (g *Game) Name() string {
	return "coinflip"
}

func (g *Game) State() entities.GameState {
	return g.table.State()
}

// Flip bets on a side and tosses a fair coin. A correct call pays 2x.
func (g *Game) Flip(ctx context.Context, call Side) (*Flip, error) {
	if call != Heads && call != Tails {
		return nil, types.NewGameError(types.ErrInvalidArgument, "Call heads or tails")
	}

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

	landed := sides[g.src.Intn(len(sides))]
	multiplier, message := decimal.Zero, "It landed "+string(landed)+". You lose."
	if landed == call {
		multiplier, message = common.Multiplier("2"), "It landed "+string(landed)+". You win!"
	}

	res, err := g.table.Finish(ctx, multiplier, message)
	if err != nil {
		return nil, err
	}
	return &Flip{Landed: landed, Result: res}, nil
}

func (g *Game) Close() {
	g.table.Close()
}
