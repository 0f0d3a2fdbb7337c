package commentary

import (
	"context"

	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_commentary

// Adapter supplies flavor text and opponent strategy values. It never fails;
// every error is replaced by a fallback.
type Adapter interface {
	Commentary(ctx context.Context, game string, status entities.RoundStatus, amount decimal.Decimal) string
	StrategyValue(ctx context.Context, description string) int
}

// Generator turns a prompt into text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
