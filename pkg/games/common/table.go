package common

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/shopspring/decimal"
)

// Opener opens a round against a wallet. Controllers adapt their bank to it.
type Opener func(ctx context.Context) (Round, error)

// Table tracks the phase, open round and last result of a controller. It is
// safe for concurrent use; the lock is never held across a delay.
type Table struct {
	mu    sync.Mutex
	life  *Lifetime
	state entities.GameState
	round Round
	last  *entities.RoundResult
}

func NewTable() *Table {
	return &Table{
		life:  NewLifetime(),
		state: entities.StateBetting,
	}
}

func (t *Table) State() entities.GameState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Last is the result of the most recent resolved round, nil while a round is in play
func (t *Table) Last() *entities.RoundResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Begin opens a round and moves the table to StatePlaying. The returned
// context ends when the table closes; release must be called once the caller
// is done with it.
func (t *Table) Begin(ctx context.Context, open Opener) (context.Context, context.CancelFunc, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.life.Done() {
		return nil, nil, types.NewGameError(types.ErrInvalidState, "This table is closed")
	}
	if t.state != entities.StateBetting && t.state != entities.StateComplete {
		return nil, nil, types.NewGameError(types.ErrInvalidState, "A round is already in play")
	}

	ctx, release := t.life.Bind(ctx)
	round, err := open(ctx)
	if err != nil {
		release()
		return nil, nil, err
	}

	t.round = round
	t.state = entities.StatePlaying
	t.last = nil
	return ctx, release, nil
}

// Bind returns a lifetime-bound context for a follow-up action on the round in play
func (t *Table) Bind(ctx context.Context) (context.Context, context.CancelFunc, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != entities.StatePlaying || t.round == nil {
		return nil, nil, types.NewGameError(types.ErrInvalidState, "There is no round in play")
	}
	ctx, release := t.life.Bind(ctx)
	return ctx, release, nil
}

// Wait pauses for d. If ctx ends first the open round is forfeited and the
// context error returned.
func (t *Table) Wait(ctx context.Context, d time.Duration) error {
	if err := Sleep(ctx, d); err != nil {
		t.Abandon()
		return err
	}
	return nil
}

// Finish settles the open round at multiplier and completes the table. Once
// the table is closing the round is forfeited instead.
func (t *Table) Finish(ctx context.Context, multiplier decimal.Decimal, message string) (*entities.RoundResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.round == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, types.NewGameError(types.ErrInvalidState, "There is no round in play")
	}

	if err := t.life.Err(ctx); err != nil {
		t.round.Forfeit()
		t.round = nil
		t.state = entities.StateComplete
		return nil, err
	}

	t.state = entities.StateResolving
	res, err := Resolve(ctx, t.round, multiplier, message)
	t.round = nil
	t.state = entities.StateComplete
	if err != nil {
		return nil, err
	}
	t.last = res
	return res, nil
}

// Abandon forfeits the open round, if any
func (t *Table) Abandon() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.round != nil {
		t.round.Forfeit()
		t.round = nil
	}
	if t.state != entities.StateBetting {
		t.state = entities.StateComplete
	}
}

// Close cancels in-flight delays and forfeits the open round. A closed table
// opens no more rounds.
func (t *Table) Close() {
	t.life.Close()
	t.Abandon()
}
