package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/repositories/ledger"
	mock_ledger "github.com/fadedpez/neonvegas/pkg/repositories/ledger/mock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type LedgerTestSuite struct {
	suite.Suite
	ctx    context.Context
	repo   *ledger.MemoryRepository
	ledger *Ledger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = ledger.NewMemoryRepository()
	s.setWallet(entities.Wallet{})
	s.ledger = NewLedger("u1", s.repo, Delays{}, logging.Discard)
}

// setWallet resets u1 to the given buckets
func (s *LedgerTestSuite) setWallet(w entities.Wallet) {
	user, err := s.repo.GetUser(s.ctx, "u1")
	if errors.Is(err, ledger.ErrUserNotFound) {
		user = &entities.User{ID: "u1", Username: "tester", ReferralCode: "TESTER01"}
		s.Require().NoError(s.repo.SaveUser(s.ctx, user))
	}
	user.Wallet = w
	s.Require().NoError(s.repo.Commit(s.ctx, user, nil))
}

func (s *LedgerTestSuite) wallet() entities.Wallet {
	user, err := s.ledger.User(s.ctx)
	s.Require().NoError(err)
	return user.Wallet
}

func (s *LedgerTestSuite) transactions() []*entities.Transaction {
	txns, err := s.ledger.Transactions(s.ctx)
	s.Require().NoError(err)
	return txns
}

func (s *LedgerTestSuite) assertWallet(deposit, winnings, bonus string) {
	w := s.wallet()
	s.True(d(deposit).Equal(w.Deposit), "deposit: want %s got %s", deposit, w.Deposit)
	s.True(d(winnings).Equal(w.Winnings), "winnings: want %s got %s", winnings, w.Winnings)
	s.True(d(bonus).Equal(w.Bonus), "bonus: want %s got %s", bonus, w.Bonus)
}

func (s *LedgerTestSuite) TestTotalBalanceIsDerived() {
	s.setWallet(entities.Wallet{Deposit: d("10"), Winnings: d("20.5"), Bonus: d("5")})

	total, err := s.ledger.TotalBalance(s.ctx)
	s.Require().NoError(err)
	s.True(d("35.5").Equal(total))

	again, err := s.ledger.TotalBalance(s.ctx)
	s.Require().NoError(err)
	s.True(total.Equal(again), "repeated reads agree")
}

func (s *LedgerTestSuite) TestPlaceBetBucketOrder() {
	s.setWallet(entities.Wallet{Deposit: d("0"), Winnings: d("100"), Bonus: d("5")})

	s.Require().NoError(s.ledger.PlaceBet(s.ctx, d("100")))

	s.assertWallet("0", "5", "0")
	s.Empty(s.transactions(), "bets are not logged")
}

func (s *LedgerTestSuite) TestPlaceBetBonusCappedAtTenPercent() {
	s.setWallet(entities.Wallet{Deposit: d("100"), Winnings: d("0"), Bonus: d("100")})

	s.Require().NoError(s.ledger.PlaceBet(s.ctx, d("50")))

	s.assertWallet("55", "0", "95")
}

func (s *LedgerTestSuite) TestPlaceBetDrawsDepositBeforeWinnings() {
	s.setWallet(entities.Wallet{Deposit: d("30"), Winnings: d("50"), Bonus: d("0")})

	s.Require().NoError(s.ledger.PlaceBet(s.ctx, d("50")))

	s.assertWallet("0", "30", "0")
}

func (s *LedgerTestSuite) TestPlaceBetReducesTotalByAmount() {
	s.setWallet(entities.Wallet{Deposit: d("40"), Winnings: d("60"), Bonus: d("20")})
	before, _ := s.ledger.TotalBalance(s.ctx)

	s.Require().NoError(s.ledger.PlaceBet(s.ctx, d("75")))

	after, _ := s.ledger.TotalBalance(s.ctx)
	s.True(before.Sub(after).Equal(d("75")))
}

func (s *LedgerTestSuite) TestPlaceBetInsufficientFunds() {
	s.setWallet(entities.Wallet{Deposit: d("10"), Winnings: d("5"), Bonus: d("1")})

	err := s.ledger.PlaceBet(s.ctx, d("20"))

	s.True(types.IsGameError(err, types.ErrInsufficientFunds))
	s.assertWallet("10", "5", "1")
}

func (s *LedgerTestSuite) TestPlaceBetBonusOnlyWalletCannotCoverBet() {
	// Total covers the bet, but bonus may only pay 10% of it
	s.setWallet(entities.Wallet{Bonus: d("100")})

	err := s.ledger.PlaceBet(s.ctx, d("50"))

	s.True(types.IsGameError(err, types.ErrInsufficientFunds))
	s.assertWallet("0", "0", "100")
}

func (s *LedgerTestSuite) TestPlaceBetRejectsNonPositive() {
	s.setWallet(entities.Wallet{Deposit: d("10")})

	s.True(types.IsGameError(s.ledger.PlaceBet(s.ctx, d("0")), types.ErrInvalidArgument))
	s.True(types.IsGameError(s.ledger.PlaceBet(s.ctx, d("-5")), types.ErrInvalidArgument))
	s.assertWallet("10", "0", "0")
}

func (s *LedgerTestSuite) TestDeductResidualWithinEpsilon() {
	w, ok := Deduct(entities.Wallet{Deposit: d("9.995")}, d("10"))
	s.True(ok, "a residual of half a cent is tolerated")
	s.True(w.Deposit.IsZero())

	_, ok = Deduct(entities.Wallet{Deposit: d("9.98")}, d("10"))
	s.False(ok)
}

func (s *LedgerTestSuite) TestSettleGameWin() {
	net, err := s.ledger.SettleGame(s.ctx, d("100"), d("2"))

	s.Require().NoError(err)
	s.True(d("180").Equal(net))
	s.assertWallet("0", "180", "0")

	txns := s.transactions()
	s.Require().Len(txns, 1)
	s.Equal(entities.TransactionGameWin, txns[0].Type)
	s.Equal(entities.StatusSuccess, txns[0].Status)
	s.True(d("180").Equal(txns[0].Amount))
}

func (s *LedgerTestSuite) TestSettleGamePushKeepsFee() {
	net, err := s.ledger.SettleGame(s.ctx, d("100"), d("1"))

	s.Require().NoError(err)
	s.True(d("90").Equal(net), "a push returns the bet less the platform fee")
	s.assertWallet("0", "90", "0")
}

func (s *LedgerTestSuite) TestSettleGameLossLogsNothing() {
	s.setWallet(entities.Wallet{Winnings: d("7")})

	net, err := s.ledger.SettleGame(s.ctx, d("100"), decimal.Zero)

	s.Require().NoError(err)
	s.True(net.IsZero())
	s.assertWallet("0", "7", "0")
	s.Empty(s.transactions())
}

func (s *LedgerTestSuite) TestSettleGameFractionalMultiplier() {
	net, err := s.ledger.SettleGame(s.ctx, d("20"), d("1.5"))

	s.Require().NoError(err)
	s.True(d("27").Equal(net))
}

func (s *LedgerTestSuite) TestSettleGameRejectsNegative() {
	_, err := s.ledger.SettleGame(s.ctx, d("-1"), d("2"))
	s.True(types.IsGameError(err, types.ErrInvalidArgument))
}

func (s *LedgerTestSuite) TestDeposit() {
	s.Require().NoError(s.ledger.Deposit(s.ctx, d("100")))

	s.assertWallet("100", "0", "0")
	txns := s.transactions()
	s.Require().Len(txns, 1)
	s.Equal(entities.TransactionDeposit, txns[0].Type)
	s.True(d("100").Equal(txns[0].Amount))
}

func (s *LedgerTestSuite) TestDepositRejectsNonPositive() {
	err := s.ledger.Deposit(s.ctx, d("0"))
	s.True(types.IsGameError(err, types.ErrInvalidArgument))
	s.Empty(s.transactions())
}

func (s *LedgerTestSuite) TestDepositCancelledDuringDelayCreditsNothing() {
	slow := NewLedger("u1", s.repo, Delays{Deposit: time.Hour}, logging.Discard)
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	err := slow.Deposit(ctx, d("50"))

	s.ErrorIs(err, context.Canceled)
	s.assertWallet("0", "0", "0")
	s.Empty(s.transactions())
}

func (s *LedgerTestSuite) TestDepositDoesNotBlockBets() {
	s.setWallet(entities.Wallet{Deposit: d("50")})
	slow := NewLedger("u1", s.repo, Delays{Deposit: 200 * time.Millisecond}, logging.Discard)

	done := make(chan error, 1)
	go func() { done <- slow.Deposit(s.ctx, d("25")) }()

	s.Require().NoError(slow.PlaceBet(s.ctx, d("10")), "bet proceeds while the deposit is pending")
	s.Require().NoError(<-done)
	s.assertWallet("65", "0", "0")
}

func (s *LedgerTestSuite) TestDepositHook() {
	var got decimal.Decimal
	s.ledger.onDeposit = func(_ context.Context, userID string, amount decimal.Decimal) {
		s.Equal("u1", userID)
		got = amount
	}

	s.Require().NoError(s.ledger.Deposit(s.ctx, d("40")))
	s.True(d("40").Equal(got))
}

func (s *LedgerTestSuite) TestWithdrawRuleOrder() {
	testCases := []struct {
		name     string
		kyc      bool
		winnings string
		amount   string
		code     types.ErrorCode
		message  string
	}{
		{"kyc first even when amount is fine", false, "1000", "50", types.ErrKYCRequired, "KYC Verification Required"},
		{"kyc first even when amount is tiny", false, "0", "1", types.ErrKYCRequired, "KYC Verification Required"},
		{"winnings before minimum", true, "5", "8", types.ErrInsufficientWinnings, "Insufficient Winnings Balance"},
		{"exceeds winnings", true, "30", "50", types.ErrInsufficientWinnings, "Insufficient Winnings Balance"},
		{"below minimum", true, "100", "5", types.ErrBelowMinimum, "Minimum withdrawal is $10"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.setWallet(entities.Wallet{Winnings: d(tc.winnings)})
			s.setKYC(tc.kyc)

			err := s.ledger.Withdraw(s.ctx, d(tc.amount))

			s.True(types.IsGameError(err, tc.code), "got %v", err)
			s.Equal(tc.message, types.UserMessage(err))
			s.assertWallet("0", tc.winnings, "0")
			s.Empty(s.transactions())
		})
	}
}

func (s *LedgerTestSuite) TestWithdrawSuccess() {
	s.setWallet(entities.Wallet{Deposit: d("5"), Winnings: d("100"), Bonus: d("3")})
	s.setKYC(true)

	s.Require().NoError(s.ledger.Withdraw(s.ctx, d("10")))

	s.assertWallet("5", "90", "3")
	txns := s.transactions()
	s.Require().Len(txns, 1)
	s.Equal(entities.TransactionWithdraw, txns[0].Type)
	s.True(d("10").Equal(txns[0].Amount))
}

func (s *LedgerTestSuite) TestDepositedFundsAreNotWithdrawable() {
	s.setKYC(true)
	s.Require().NoError(s.ledger.Deposit(s.ctx, d("100")))

	err := s.ledger.Withdraw(s.ctx, d("50"))

	s.True(types.IsGameError(err, types.ErrInsufficientWinnings))
	s.assertWallet("100", "0", "0")
}

func (s *LedgerTestSuite) TestWithdrawRevalidatesAfterDelay() {
	s.setWallet(entities.Wallet{Winnings: d("50")})
	s.setKYC(true)
	slow := NewLedger("u1", s.repo, Delays{Withdraw: 200 * time.Millisecond}, logging.Discard)

	done := make(chan error, 1)
	go func() { done <- slow.Withdraw(s.ctx, d("40")) }()

	time.Sleep(50 * time.Millisecond)
	s.Require().NoError(slow.PlaceBet(s.ctx, d("30")))

	err := <-done
	s.True(types.IsGameError(err, types.ErrInsufficientWinnings))
	s.assertWallet("0", "20", "0")
}

func (s *LedgerTestSuite) TestVerifyKYC() {
	s.Require().NoError(s.ledger.VerifyKYC(s.ctx))

	user, err := s.ledger.User(s.ctx)
	s.Require().NoError(err)
	s.True(user.KYCVerified)
	s.Empty(s.transactions())
}

func (s *LedgerTestSuite) TestCreditReferral() {
	s.Require().NoError(s.ledger.CreditReferral(s.ctx, d("10")))

	s.assertWallet("0", "0", "10")
	txns := s.transactions()
	s.Require().Len(txns, 1)
	s.Equal(entities.TransactionReferral, txns[0].Type)
}

func (s *LedgerTestSuite) TestSetReferrerRules() {
	s.True(types.IsGameError(s.ledger.SetReferrer(s.ctx, "u1"), types.ErrReferralInvalid), "no self-referral")

	s.Require().NoError(s.ledger.SetReferrer(s.ctx, "friend"))
	s.True(types.IsGameError(s.ledger.SetReferrer(s.ctx, "other"), types.ErrReferralInvalid), "only once")

	referrer, claimed, err := s.ledger.ClaimReferralReward(s.ctx)
	s.Require().NoError(err)
	s.True(claimed)
	s.Equal("friend", referrer)

	_, claimed, err = s.ledger.ClaimReferralReward(s.ctx)
	s.Require().NoError(err)
	s.False(claimed, "the reward is paid once")
}

func (s *LedgerTestSuite) TestSetReferrerAfterDepositRejected() {
	s.Require().NoError(s.ledger.Deposit(s.ctx, d("20")))

	err := s.ledger.SetReferrer(s.ctx, "friend")
	s.True(types.IsGameError(err, types.ErrReferralInvalid))
}

func (s *LedgerTestSuite) TestSetReferrerSeesDepositCommittedWhileWaiting() {
	s.ledger.mu.Lock()
	done := make(chan error, 1)
	go func() { done <- s.ledger.SetReferrer(s.ctx, "friend") }()

	user, err := s.repo.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	user.Wallet.Deposit = d("20")
	s.Require().NoError(s.repo.Commit(s.ctx, user, s.ledger.newTransaction(entities.TransactionDeposit, d("20"))))
	s.ledger.mu.Unlock()

	s.True(types.IsGameError(<-done, types.ErrReferralInvalid))
	user, err = s.ledger.User(s.ctx)
	s.Require().NoError(err)
	s.Empty(user.ReferredBy)
}

func (s *LedgerTestSuite) TestTransactionsNewestFirst() {
	s.Require().NoError(s.ledger.Deposit(s.ctx, d("100")))
	_, err := s.ledger.SettleGame(s.ctx, d("10"), d("2"))
	s.Require().NoError(err)

	txns := s.transactions()
	s.Require().Len(txns, 2)
	s.Equal(entities.TransactionGameWin, txns[0].Type)
	s.Equal(entities.TransactionDeposit, txns[1].Type)
}

func (s *LedgerTestSuite) TestCommitFailureLeavesNoPartialState() {
	ctrl := gomock.NewController(s.T())
	repo := mock_ledger.NewMockRepository(ctrl)
	l := NewLedger("u1", repo, Delays{}, logging.Discard)

	repo.EXPECT().GetUser(gomock.Any(), "u1").Return(&entities.User{
		ID:     "u1",
		Wallet: entities.Wallet{Deposit: d("50")},
	}, nil)
	repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Nil()).Return(errors.New("disk full"))

	err := l.PlaceBet(s.ctx, d("10"))

	s.True(types.IsGameError(err, types.ErrDatabaseError))
}

func (s *LedgerTestSuite) TestMissingUser() {
	l := NewLedger("ghost", s.repo, Delays{}, logging.Discard)

	_, err := l.TotalBalance(s.ctx)
	s.True(types.IsGameError(err, types.ErrUserNotFound))
}

func (s *LedgerTestSuite) setKYC(verified bool) {
	user, err := s.repo.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	user.KYCVerified = verified
	s.Require().NoError(s.repo.Commit(s.ctx, user, nil))
}
