package blackjack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/fadedpez/neonvegas/pkg/repositories/ledger"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	mock_wallet "github.com/fadedpez/neonvegas/pkg/services/wallet/mock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

func card(rank entities.Rank) *entities.Card {
	return entities.NewCard(entities.Spades, rank)
}

func cards(ranks ...entities.Rank) []*entities.Card {
	out := make([]*entities.Card, len(ranks))
	for i, r := range ranks {
		out[i] = card(r)
	}
	return out
}

type GameTestSuite struct {
	suite.Suite
	ctx    context.Context
	ledger *wallet.Ledger
	game   *Game
}

func TestGameSuite(t *testing.T) {
	suite.Run(t, new(GameTestSuite))
}

func (s *GameTestSuite) SetupTest() {
	s.ctx = context.Background()
	repo := ledger.NewMemoryRepository()
	s.Require().NoError(repo.SaveUser(s.ctx, &entities.User{
		ID:     "p1",
		Wallet: entities.Wallet{Deposit: decimal.NewFromInt(100)},
	}))
	s.ledger = wallet.NewLedger("p1", repo, wallet.Delays{}, logging.Discard)
	s.game = NewGame(s.ledger, outcome.NewScripted(), 0)
}

// stack makes the next deal come out as player, player, dealer, dealer, then extras
func (s *GameTestSuite) stack(ranks ...entities.Rank) {
	s.game.newDeck = func() *entities.Deck {
		return entities.NewDeckOf(cards(ranks...)...)
	}
}

func (s *GameTestSuite) balance() decimal.Decimal {
	total, err := s.ledger.TotalBalance(s.ctx)
	s.Require().NoError(err)
	return total
}

func (s *GameTestSuite) TestNaturalPaysTwoAndAHalf() {
	s.stack(entities.Ace, entities.King, entities.Five, entities.Six)

	res, err := s.game.Deal(s.ctx)

	s.Require().NoError(err)
	s.Require().NotNil(res)
	s.Equal(entities.RoundWin, res.Status)
	s.True(decimal.RequireFromString("2.5").Equal(res.Multiplier))
	s.True(decimal.RequireFromString("22.5").Equal(res.NetWin))
	s.True(decimal.RequireFromString("112.5").Equal(s.balance()))
	s.Equal(entities.StateComplete, s.game.State())
	s.False(s.ledger.RoundOpen())
}

func (s *GameTestSuite) TestHitToBust() {
	s.stack(entities.Ten, entities.Six, entities.Ten, entities.Seven, entities.King)

	res, err := s.game.Deal(s.ctx)
	s.Require().NoError(err)
	s.Nil(res)
	s.Equal(entities.StatePlaying, s.game.State())

	res, err = s.game.Hit(s.ctx)

	s.Require().NoError(err)
	s.Require().NotNil(res)
	s.Equal(entities.RoundLoss, res.Status)
	s.Equal(ResultBust.Message(), res.Message)
	s.True(decimal.NewFromInt(90).Equal(s.balance()))
	s.Equal(entities.StateComplete, s.game.State())
}

func (s *GameTestSuite) TestHitWithoutBust() {
	s.stack(entities.Two, entities.Three, entities.Ten, entities.Seven, entities.Four)
	_, err := s.game.Deal(s.ctx)
	s.Require().NoError(err)

	res, err := s.game.Hit(s.ctx)

	s.Require().NoError(err)
	s.Nil(res)
	s.Equal(9, s.game.View().Player.Value())
}

func (s *GameTestSuite) TestStandDealerDrawsToSeventeen() {
	s.stack(entities.Ten, entities.Nine, entities.Ten, entities.Six, entities.Five)
	_, err := s.game.Deal(s.ctx)
	s.Require().NoError(err)

	res, err := s.game.Stand(s.ctx)

	s.Require().NoError(err)
	s.Equal(entities.RoundLoss, res.Status, "dealer 21 beats player 19")
	s.Len(s.game.View().Dealer.Cards, 3)
	s.True(decimal.NewFromInt(90).Equal(s.balance()))
}

func (s *GameTestSuite) TestStandDealerBusts() {
	s.stack(entities.Ten, entities.Two, entities.Ten, entities.Six, entities.King)
	_, err := s.game.Deal(s.ctx)
	s.Require().NoError(err)

	res, err := s.game.Stand(s.ctx)

	s.Require().NoError(err)
	s.Equal(entities.RoundWin, res.Status)
	s.Equal(ResultDealerBust.Message(), res.Message)
	s.True(decimal.NewFromInt(18).Equal(res.NetWin))
	s.True(decimal.NewFromInt(108).Equal(s.balance()))
}

func (s *GameTestSuite) TestStandHigherScoreWins() {
	s.stack(entities.Ten, entities.Queen, entities.Ten, entities.Eight)
	_, err := s.game.Deal(s.ctx)
	s.Require().NoError(err)

	res, err := s.game.Stand(s.ctx)

	s.Require().NoError(err)
	s.Equal(ResultWin.Message(), res.Message)
	s.Len(s.game.View().Dealer.Cards, 2, "dealer stands on 18")
}

func (s *GameTestSuite) TestPushReturnsBetLessFee() {
	s.stack(entities.Ten, entities.Eight, entities.Ten, entities.Eight)
	_, err := s.game.Deal(s.ctx)
	s.Require().NoError(err)

	res, err := s.game.Stand(s.ctx)

	s.Require().NoError(err)
	s.Equal(entities.RoundNeutral, res.Status)
	s.True(decimal.NewFromInt(9).Equal(res.NetWin))
	s.True(decimal.NewFromInt(99).Equal(s.balance()))
}

func (s *GameTestSuite) TestActionsGuardedByState() {
	_, err := s.game.Hit(s.ctx)
	s.True(types.IsGameError(err, types.ErrInvalidState))

	_, err = s.game.Stand(s.ctx)
	s.True(types.IsGameError(err, types.ErrInvalidState))

	s.stack(entities.Ten, entities.Six, entities.Ten, entities.Seven)
	_, err = s.game.Deal(s.ctx)
	s.Require().NoError(err)

	_, err = s.game.Deal(s.ctx)
	s.True(types.IsGameError(err, types.ErrInvalidState), "no second deal mid-hand")
	s.True(decimal.NewFromInt(90).Equal(s.balance()), "the rejected deal took no bet")

	s.True(types.IsGameError(s.game.SetBet(20), types.ErrInvalidState))
}

func (s *GameTestSuite) TestInsufficientFundsLeavesTableIdle() {
	s.Require().NoError(s.game.SetBet(200))

	_, err := s.game.Deal(s.ctx)

	s.True(types.IsGameError(err, types.ErrInsufficientFunds))
	s.Equal(entities.StateBetting, s.game.State())
	s.True(decimal.NewFromInt(100).Equal(s.balance()))
}

func (s *GameTestSuite) TestHoleCardHiddenWhilePlaying() {
	s.stack(entities.Ten, entities.Six, entities.Ten, entities.Seven)
	_, err := s.game.Deal(s.ctx)
	s.Require().NoError(err)

	s.True(s.game.View().HoleHidden)

	_, err = s.game.Stand(s.ctx)
	s.Require().NoError(err)
	s.False(s.game.View().HoleHidden)
}

func (s *GameTestSuite) TestBetAdjustment() {
	s.True(types.IsGameError(s.game.SetBet(5), types.ErrInvalidArgument))
	s.True(types.IsGameError(s.game.SetBet(25), types.ErrInvalidArgument))

	s.Require().NoError(s.game.AdjustBet(BetStep))
	s.True(decimal.NewFromInt(20).Equal(s.game.View().Bet))

	s.Require().NoError(s.game.AdjustBet(-50))
	s.True(decimal.NewFromInt(MinBet).Equal(s.game.View().Bet), "bet never drops below the minimum")
}

func (s *GameTestSuite) TestCloseDuringDealerTurnForfeits() {
	s.game.dealerDelay = time.Hour
	s.stack(entities.Ten, entities.Nine, entities.Ten, entities.Two, entities.Five)
	_, err := s.game.Deal(s.ctx)
	s.Require().NoError(err)

	done := make(chan error, 1)
	go func() {
		_, err := s.game.Stand(s.ctx)
		done <- err
	}()

	s.Eventually(func() bool { return s.game.State() == entities.StateDealer }, time.Second, 5*time.Millisecond)
	s.game.Close()

	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("stand did not stop after close")
	}
	s.False(s.ledger.RoundOpen())
	s.True(decimal.NewFromInt(90).Equal(s.balance()), "a discarded hand never pays out")

	_, err = s.game.Deal(s.ctx)
	s.True(types.IsGameError(err, types.ErrInvalidState), "a closed table deals no more hands")
}

func (s *GameTestSuite) TestCloseAfterDealerDelayElapsed() {
	s.game.dealerDelay = 20 * time.Millisecond
	s.stack(entities.Ten, entities.Nine, entities.Two, entities.Two,
		entities.Two, entities.Two, entities.Two, entities.Two, entities.Two, entities.Two, entities.Two)
	_, err := s.game.Deal(s.ctx)
	s.Require().NoError(err)

	done := make(chan error, 1)
	go func() {
		_, err := s.game.Stand(s.ctx)
		done <- err
	}()
	s.Eventually(func() bool { return s.game.State() == entities.StateDealer }, time.Second, time.Millisecond)

	// Close lands while Stand is waiting to re-lock after a dealer delay
	s.game.mu.Lock()
	time.Sleep(50 * time.Millisecond)
	s.game.life.Close()
	s.game.abandonLocked()
	s.game.mu.Unlock()

	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("stand did not return after close")
	}
	s.False(s.ledger.RoundOpen())
	s.True(decimal.NewFromInt(90).Equal(s.balance()))
	s.Equal(entities.StateComplete, s.game.State())
}

func (s *GameTestSuite) TestBankFailureSurfaces() {
	ctrl := gomock.NewController(s.T())
	bank := mock_wallet.NewMockBank(ctrl)
	game := NewGame(bank, outcome.NewScripted(), 0)

	bank.EXPECT().OpenRound(gomock.Any(), decimal.NewFromInt(MinBet)).
		Return(nil, types.WrapError(types.ErrDatabaseError, "Wallet is unavailable", errors.New("locked")))

	_, err := game.Deal(s.ctx)

	s.True(types.IsGameError(err, types.ErrDatabaseError))
	s.Equal(entities.StateBetting, game.State())
}

func TestGetBestScore(t *testing.T) {
	testCases := []struct {
		name     string
		ranks    []entities.Rank
		expected int
	}{
		{"soft 21", []entities.Rank{entities.Ace, entities.King}, 21},
		{"two aces", []entities.Rank{entities.Ace, entities.Ace}, 12},
		{"two aces and nine", []entities.Rank{entities.Ace, entities.Ace, entities.Nine}, 21},
		{"ace demoted", []entities.Rank{entities.Ace, entities.King, entities.Five}, 16},
		{"face cards", []entities.Rank{entities.Jack, entities.Queen}, 20},
		{"bust", []entities.Rank{entities.King, entities.Queen, entities.Two}, 22},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetBestScore(cards(tc.ranks...)))
		})
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, ResultDealerBust, Compare(cards(entities.Ten, entities.Two), cards(entities.Ten, entities.Six, entities.King)))
	assert.Equal(t, ResultWin, Compare(cards(entities.Ten, entities.Nine), cards(entities.Ten, entities.Seven)))
	assert.Equal(t, ResultLose, Compare(cards(entities.Ten, entities.Seven), cards(entities.Ten, entities.Nine)))
	assert.Equal(t, ResultPush, Compare(cards(entities.Ten, entities.Eight), cards(entities.Nine, entities.Nine)))
}

func TestHandBustsPastTwentyOne(t *testing.T) {
	hand := NewHand()
	for _, c := range cards(entities.King, entities.Queen, entities.Two) {
		assert.NoError(t, hand.AddCard(c))
	}
	assert.True(t, hand.IsBust())
	assert.ErrorIs(t, hand.AddCard(card(entities.Two)), ErrHandBust)
	assert.Equal(t, "K♠ Q♠ 2♠", hand.String())
}
