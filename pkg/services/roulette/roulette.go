package roulette

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/games/common"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
)

const (
	Bet = 50
	// Slots on the wheel, numbered 0 through 12
	Slots = 13
)

type Color string

const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

// ParseColor accepts the colors a player may bet on
func ParseColor(s string) (Color, error) {
	switch c := Color(strings.ToLower(strings.TrimSpace(s))); c {
	case Red, Black:
		return c, nil
	default:
		return "", types.NewGameError(types.ErrInvalidArgument, "Pick red or black")
	}
}

// ColorOf returns the color of a pocket: 0 is green, even is black, odd is red
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return Green
	case n%2 == 0:
		return Black
	default:
		return Red
	}
}

type Spin struct {
	Number int
	Color  Color
	Result *entities.RoundResult
}

type Game struct {
	bank  wallet.Bank
	src   outcome.Source
	delay time.Duration
	table *common.Table
}

func NewGame(bank wallet.Bank, src outcome.Source, wheelDelay time.Duration) *Game {
	return &Game{
		bank:  bank,
		src:   src,
		delay: wheelDelay,
		table: common.NewTable(),
	}
}

func (g *Game) Name() string {
	return "roulette"
}

func (g *Game) State() entities.GameState {
	return g.table.State()
}

// Spin bets on color and spins the wheel. A matching color pays 2x.
func (g *Game) Spin(ctx context.Context, color Color) (*Spin, error) {
	if color != Red && color != Black {
		return nil, types.NewGameError(types.ErrInvalidArgument, "Pick red or black")
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

	n := g.src.Intn(Slots)
	landed := ColorOf(n)

	multiplier := decimal.Zero
	message := fmt.Sprintf("%d %s. You lose.", n, strings.ToUpper(string(landed)))
	if landed == color {
		multiplier = common.Multiplier("2")
		message = fmt.Sprintf("%d %s. You win!", n, strings.ToUpper(string(landed)))
	}

	res, err := g.table.Finish(ctx, multiplier, message)
	if err != nil {
		return nil, err
	}
	return &Spin{Number: n, Color: landed, Result: res}, nil
}

// Close stops the wheel; a bet in flight is forfeited
func (g *Game) Close() {
	g.table.Close()
}
