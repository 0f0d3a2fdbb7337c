package common

import (
	"context"

	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/shopspring/decimal"
)

// Round is the part of a wallet round a controller settles
type Round interface {
	Bet() decimal.Decimal
	Settle(ctx context.Context, multiplier decimal.Decimal) (decimal.Decimal, error)
	Forfeit()
}

// Resolve settles round at multiplier and classifies the result. If the payout
// fails the round is forfeited so the ledger is free for the next one.
func Resolve(ctx context.Context, round Round, multiplier decimal.Decimal, message string) (*entities.RoundResult, error) {
	net, err := round.Settle(ctx, multiplier)
	if err != nil {
		round.Forfeit()
		return nil, err
	}
	return entities.NewRoundResult(round.Bet(), multiplier, net, message), nil
}

// Multiplier is shorthand for a decimal payout multiplier
func Multiplier(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
