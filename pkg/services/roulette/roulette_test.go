package roulette

import (
	"context"
	"testing"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/fadedpez/neonvegas/pkg/repositories/ledger"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type RouletteTestSuite struct {
	suite.Suite
	ctx    context.Context
	ledger *wallet.Ledger
}

func TestRouletteSuite(t *testing.T) {
	suite.Run(t, new(RouletteTestSuite))
}

func (s *RouletteTestSuite) SetupTest() {
	s.ctx = context.Background()
	repo := ledger.NewMemoryRepository()
	s.Require().NoError(repo.SaveUser(s.ctx, &entities.User{
		ID:     "p1",
		Wallet: entities.Wallet{Deposit: decimal.NewFromInt(100)},
	}))
	s.ledger = wallet.NewLedger("p1", repo, wallet.Delays{}, logging.Discard)
}

func (s *RouletteTestSuite) balance() decimal.Decimal {
	total, err := s.ledger.TotalBalance(s.ctx)
	s.Require().NoError(err)
	return total
}

func (s *RouletteTestSuite) TestMatchingColorPaysDouble() {
	g := NewGame(s.ledger, outcome.NewScripted(7), 0)

	spin, err := g.Spin(s.ctx, Red)

	s.Require().NoError(err)
	s.Equal(7, spin.Number)
	s.Equal(Red, spin.Color)
	s.Equal(entities.RoundWin, spin.Result.Status)
	s.True(decimal.NewFromInt(90).Equal(spin.Result.NetWin))
	s.True(decimal.NewFromInt(140).Equal(s.balance()))
}

func (s *RouletteTestSuite) TestOtherColorLoses() {
	g := NewGame(s.ledger, outcome.NewScripted(4), 0)

	spin, err := g.Spin(s.ctx, Red)

	s.Require().NoError(err)
	s.Equal(Black, spin.Color)
	s.Equal(entities.RoundLoss, spin.Result.Status)
	s.True(decimal.NewFromInt(50).Equal(s.balance()))
}

func (s *RouletteTestSuite) TestGreenLosesEveryBet() {
	for _, color := range []Color{Red, Black} {
		g := NewGame(s.ledger, outcome.NewScripted(0), 0)
		spin, err := g.Spin(s.ctx, color)
		s.Require().NoError(err)
		s.Equal(Green, spin.Color)
		s.Equal(entities.RoundLoss, spin.Result.Status)
	}
	s.True(decimal.Zero.Equal(s.balance()))
}

func (s *RouletteTestSuite) TestTopPocketReachable() {
	g := NewGame(s.ledger, outcome.NewScripted(12), 0)

	spin, err := g.Spin(s.ctx, Black)

	s.Require().NoError(err)
	s.Equal(12, spin.Number)
	s.Equal(entities.RoundWin, spin.Result.Status)
}

func (s *RouletteTestSuite) TestGreenIsNotABet() {
	g := NewGame(s.ledger, outcome.NewScripted(0), 0)

	_, err := g.Spin(s.ctx, Green)

	s.True(types.IsGameError(err, types.ErrInvalidArgument))
	s.True(decimal.NewFromInt(100).Equal(s.balance()), "no bet taken")
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, Green, ColorOf(0))
	for n := 1; n < Slots; n++ {
		if n%2 == 0 {
			assert.Equal(t, Black, ColorOf(n), n)
		} else {
			assert.Equal(t, Red, ColorOf(n), n)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor(" RED ")
	assert.NoError(t, err)
	assert.Equal(t, Red, c)

	_, err = ParseColor("green")
	assert.True(t, types.IsGameError(err, types.ErrInvalidArgument))
}
