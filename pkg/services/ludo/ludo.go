package ludo

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/games/common"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
)

const (
	Bet         = 50
	TrackLength = 15
)

// Turn reports one exchange of rolls. OpponentRoll is zero when the player
// finished first.
type Turn struct {
	PlayerRoll       int
	OpponentRoll     int
	PlayerPosition   int
	OpponentPosition int
	Result           *entities.RoundResult
}

type Board struct {
	State            entities.GameState
	PlayerPosition   int
	OpponentPosition int
}

// Game is a two-token race to the end of the track against the house
type Game struct {
	bank      wallet.Bank
	src       outcome.Source
	rollDelay time.Duration
	turnDelay time.Duration
	table     *common.Table

	mu       sync.Mutex
	player   int
	opponent int
	rolling  bool
}

func NewGame(bank wallet.Bank, src outcome.Source, rollDelay, turnDelay time.Duration) *Game {
	return &Game{
		bank:      bank,
		src:       src,
		rollDelay: rollDelay,
		turnDelay: turnDelay,
		table:     common.NewTable(),
	}
}

func (g *Game) Name() string {
	return "ludo"
}

func (g *Game) State() entities.GameState {
	return g.table.State()
}

// Board reads the table state before the tokens. g.mu is never held while
// taking the table lock since Start resets the tokens under it.
func (g *Game) Board() Board {
	state := g.table.State()

	g.mu.Lock()
	defer g.mu.Unlock()
	return Board{
		State:            state,
		PlayerPosition:   g.player,
		OpponentPosition: g.opponent,
	}
}

// Start takes the bet and puts both tokens on the start square before the
// race opens to rolls
func (g *Game) Start(ctx context.Context) error {
	_, release, err := g.table.Begin(ctx, func(ctx context.Context) (common.Round, error) {
		round, err := g.bank.OpenRound(ctx, decimal.NewFromInt(Bet))
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.player, g.opponent = 0, 0
		g.mu.Unlock()
		return round, nil
	})
	if err != nil {
		return err
	}
	release()
	return nil
}

// Roll plays the player's turn and, unless the player reached the finish,
// the opponent's reply. First to the finish wins; a player win pays 2x.
func (g *Game) Roll(ctx context.Context) (*Turn, error) {
	ctx, release, err := g.table.Bind(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	g.mu.Lock()
	if g.rolling {
		g.mu.Unlock()
		return nil, types.NewGameError(types.ErrInvalidState, "Wait for your turn")
	}
	g.rolling = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.rolling = false
		g.mu.Unlock()
	}()

	turn := &Turn{}

	if err := g.table.Wait(ctx, g.rollDelay); err != nil {
		return nil, err
	}
	turn.PlayerRoll = outcome.Between(g.src, 1, 6)
	g.mu.Lock()
	g.player = advance(g.player, turn.PlayerRoll)
	turn.PlayerPosition, turn.OpponentPosition = g.player, g.opponent
	g.mu.Unlock()

	if turn.PlayerPosition == TrackLength {
		res, err := g.table.Finish(ctx, common.Multiplier("2"), "You reached the finish first!")
		if err != nil {
			return nil, err
		}
		turn.Result = res
		return turn, nil
	}

	if err := g.table.Wait(ctx, g.turnDelay); err != nil {
		return nil, err
	}
	if err := g.table.Wait(ctx, g.rollDelay); err != nil {
		return nil, err
	}
	turn.OpponentRoll = outcome.Between(g.src, 1, 6)
	g.mu.Lock()
	g.opponent = advance(g.opponent, turn.OpponentRoll)
	turn.OpponentPosition = g.opponent
	g.mu.Unlock()

	if turn.OpponentPosition == TrackLength {
		res, err := g.table.Finish(ctx, decimal.Zero, "The house token got there first.")
		if err != nil {
			return nil, err
		}
		turn.Result = res
	}
	return turn, nil
}

// Close abandons a race in progress; the bet is forfeited
func (g *Game) Close() {
	g.table.Close()
}

func advance(pos, roll int) int {
	if pos += roll; pos > TrackLength {
		return TrackLength
	}
	return pos
}
