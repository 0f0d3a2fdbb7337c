package rps

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

const (
	Bet = 50

	strategyPrompt = "Rock Paper Scissors Game State"
)

type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

// Moves is the order the opponent's strategy value indexes into
var Moves = [3]Move{Rock, Paper, Scissors}

var beats = map[Move]Move{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

func ParseMove(s string) (Move, error) {
	m := Move(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := beats[m]; !ok {
		return "", types.NewGameError(types.ErrInvalidArgument, "Pick rock, paper or scissors")
	}
	return m, nil
}

func (m Move) Beats(other Move) bool {
	return beats[m] == other
}

// Strategist picks the opponent's move. Values are expected in 1..6.
//
//go:generate mockgen -destination=mock/mock.go -package=mock_rps github.com/fadedpez/neonvegas/pkg/services/rps Strategist
type Strategist interface {
	StrategyValue(ctx context.Context, description string) int
}

type Throw struct {
	Player   Move
	Opponent Move
	Result   *entities.RoundResult
}

type Game struct {
	bank       wallet.Bank
	strategist Strategist
	src        outcome.Source
	timeout    time.Duration
	table      *common.Table
}

// NewGame builds a table. src supplies the fallback die when the strategist
// does not answer within timeout.
func NewGame(bank wallet.Bank, strategist Strategist, src outcome.Source, timeout time.Duration) *Game {
	return &Game{
		bank:       bank,
		strategist: strategist,
		src:        src,
		timeout:    timeout,
		table:      common.NewTable(),
	}
}

func (g *Game) Name() string {
	return "rps"
}

func (g *Game) State() entities.GameState {
	return g.table.State()
}

// Play throws move against the opponent. A win pays 2x and a tie returns the
// bet less the house fee.
func (g *Game) Play(ctx context.Context, move Move) (*Throw, error) {
	if _, ok := beats[move]; !ok {
		return nil, types.NewGameError(types.ErrInvalidArgument, "Pick rock, paper or scissors")
	}

	ctx, release, err := g.table.Begin(ctx, func(ctx context.Context) (common.Round, error) {
		return g.bank.OpenRound(ctx, decimal.NewFromInt(Bet))
	})
	if err != nil {
		return nil, err
	}
	defer release()

	value := g.strategyValue(ctx)
	if err := ctx.Err(); err != nil {
		g.table.Abandon()
		return nil, err
	}
	opponent := Moves[((value%3)+3)%3]

	var multiplier decimal.Decimal
	var message string
	switch {
	case move == opponent:
		multiplier, message = common.Multiplier("1"), "It's a Tie!"
	case move.Beats(opponent):
		multiplier, message = common.Multiplier("2"), "You Win!"
	default:
		multiplier, message = decimal.Zero, "Opponent Wins!"
	}

	res, err := g.table.Finish(ctx, multiplier, message)
	if err != nil {
		return nil, err
	}
	return &Throw{Player: move, Opponent: opponent, Result: res}, nil
}

// strategyValue asks the strategist, falling back to a die roll when it does
// not answer in time
func (g *Game) strategyValue(ctx context.Context) int {
	if g.strategist == nil {
		return outcome.Between(g.src, 1, 6)
	}

	sctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	answer := make(chan int, 1)
	go func() {
		answer <- g.strategist.StrategyValue(sctx, strategyPrompt)
	}()

	select {
	case v := <-answer:
		if sctx.Err() == nil {
			return v
		}
	case <-sctx.Done():
	}
	return outcome.Between(g.src, 1, 6)
}

func (g *Game) Close() {
	g.table.Close()
}
