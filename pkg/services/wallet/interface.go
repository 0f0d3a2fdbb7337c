package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_wallet

// Bank is what a game controller needs from a wallet
type Bank interface {
	OpenRound(ctx context.Context, bet decimal.Decimal) (*Round, error)
}

var _ Bank = (*Ledger)(nil)
