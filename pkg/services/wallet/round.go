package wallet

import (
	"context"
	"sync"

	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/shopspring/decimal"
)

// Round is one bet-outcome-settlement unit. A ledger has at most one open
// round, so two rounds never interleave their ledger mutations.
type Round struct {
	ledger *Ledger
	bet    decimal.Decimal

	mu     sync.Mutex
	closed bool
}

// OpenRound places bet and opens a round. It fails with ROUND_IN_PROGRESS,
// without touching the wallet, while another round is open.
func (l *Ledger) OpenRound(ctx context.Context, bet decimal.Decimal) (*Round, error) {
	select {
	case l.round <- struct{}{}:
	default:
		return nil, types.NewGameError(types.ErrRoundInProgress, "Finish your current round first")
	}

	if err := l.PlaceBet(ctx, bet); err != nil {
		<-l.round
		return nil, err
	}
	return &Round{ledger: l, bet: bet}, nil
}

// RoundOpen reports whether a round is in progress on this ledger
func (l *Ledger) RoundOpen() bool {
	return len(l.round) > 0
}

func (r *Round) Bet() decimal.Decimal {
	return r.bet
}

// Settle pays out bet*multiplier (less fee) and closes the round. A zero
// multiplier closes it as a loss. If the payout cannot be committed the round
// stays open so it can be retried or forfeited.
func (r *Round) Settle(ctx context.Context, multiplier decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return decimal.Zero, types.NewGameError(types.ErrInvalidState, "Round is already over")
	}

	net, err := r.ledger.SettleGame(ctx, r.bet, multiplier)
	if err != nil {
		return decimal.Zero, err
	}
	r.closeLocked()
	return net, nil
}

// Forfeit closes the round without a payout. Safe to call more than once.
func (r *Round) Forfeit() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.closed {
		r.ledger.log.Debug("[LEDGER] User %s forfeited a $%s round", r.ledger.userID, r.bet.StringFixed(2))
		r.closeLocked()
	}
}

func (r *Round) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Round) closeLocked() {
	r.closed = true
	<-r.ledger.round
}
