package wallet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/games/common"
	"github.com/fadedpez/neonvegas/pkg/repositories/ledger"
	"github.com/shopspring/decimal"
)

var (
	// FeeRate is the platform fee taken from every gross payout
	FeeRate = decimal.RequireFromString("0.10")
	// BonusCapRate caps how much of a single bet may be paid from bonus funds
	BonusCapRate = decimal.RequireFromString("0.10")
	// Epsilon is the largest unpaid residual a bet may leave
	Epsilon = decimal.RequireFromString("0.01")
	// MinWithdrawal is the smallest withdrawal accepted
	MinWithdrawal = decimal.NewFromInt(10)
)

// Delays are the simulated processing times of the payment flows
type Delays struct {
	Deposit  time.Duration
	Withdraw time.Duration
	KYC      time.Duration
}

// DepositHook runs after a deposit has been committed
type DepositHook func(ctx context.Context, userID string, amount decimal.Decimal)

// Ledger owns one user's wallet. Every mutation is a single read-modify-commit
// under mu, so no two mutations interleave. Simulated delays run outside mu.
type Ledger struct {
	userID    string
	repo      ledger.Repository
	delays    Delays
	log       *logging.Logger
	onDeposit DepositHook

	mu    sync.Mutex
	round chan struct{} // holds a token while a round is open
}

// NewLedger creates a ledger for an existing user
func NewLedger(userID string, repo ledger.Repository, delays Delays, logger *logging.Logger) *Ledger {
	if logger == nil {
		logger = logging.Default
	}
	return &Ledger{
		userID: userID,
		repo:   repo,
		delays: delays,
		log:    logger,
		round:  make(chan struct{}, 1),
	}
}

// UserID returns the owner of the ledger
func (l *Ledger) UserID() string {
	return l.userID
}

// User returns a snapshot of the user and wallet
func (l *Ledger) User(ctx context.Context) (*entities.User, error) {
	user, err := l.repo.GetUser(ctx, l.userID)
	if err != nil {
		return nil, repoError(err)
	}
	return user, nil
}

// TotalBalance returns deposit + winnings + bonus, computed fresh
func (l *Ledger) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	user, err := l.User(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Wallet.Total(), nil
}

// Transactions returns the full log, newest first
func (l *Ledger) Transactions(ctx context.Context) ([]*entities.Transaction, error) {
	txns, err := l.repo.GetTransactions(ctx, l.userID, 0)
	if err != nil {
		return nil, repoError(err)
	}
	return txns, nil
}

// Deduct applies the bet deduction order to w: bonus first (capped at 10% of
// the bet), then deposit, then winnings. It returns the new wallet and false if
// more than Epsilon would be left unpaid; w itself is never modified.
func Deduct(w entities.Wallet, amount decimal.Decimal) (entities.Wallet, bool) {
	remaining := amount

	bonusUse := decimal.Min(w.Bonus, amount.Mul(BonusCapRate))
	w.Bonus = w.Bonus.Sub(bonusUse)
	remaining = remaining.Sub(bonusUse)

	if remaining.IsPositive() {
		depositUse := decimal.Min(w.Deposit, remaining)
		w.Deposit = w.Deposit.Sub(depositUse)
		remaining = remaining.Sub(depositUse)
	}

	if remaining.IsPositive() {
		winningsUse := decimal.Min(w.Winnings, remaining)
		w.Winnings = w.Winnings.Sub(winningsUse)
		remaining = remaining.Sub(winningsUse)
	}

	return w, remaining.LessThanOrEqual(Epsilon)
}

// PlaceBet deducts amount from the wallet. Bets are not logged.
func (l *Ledger) PlaceBet(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return types.NewGameError(types.ErrInvalidArgument, "Bet must be greater than zero")
	}

	return l.mutate(ctx, func(user *entities.User) (*entities.Transaction, error) {
		if user.Wallet.Total().LessThan(amount) {
			return nil, insufficientFunds()
		}
		next, ok := Deduct(user.Wallet, amount)
		if !ok {
			l.log.Warn("[LEDGER] Bet of $%s for user %s left an unpaid residual", amount.StringFixed(2), l.userID)
			return nil, insufficientFunds()
		}
		user.Wallet = next
		l.log.Debug("[LEDGER] User %s bet $%s", l.userID, amount.StringFixed(2))
		return nil, nil
	})
}

// SettleGame credits bet*multiplier less the platform fee to winnings and
// returns the net amount. A zero gross win changes nothing.
func (l *Ledger) SettleGame(ctx context.Context, bet, multiplier decimal.Decimal) (decimal.Decimal, error) {
	if bet.IsNegative() || multiplier.IsNegative() {
		return decimal.Zero, types.NewGameError(types.ErrInvalidArgument, "Bet and multiplier cannot be negative")
	}

	gross := bet.Mul(multiplier)
	if gross.IsZero() {
		return decimal.Zero, nil
	}
	net := gross.Sub(gross.Mul(FeeRate))

	err := l.mutate(ctx, func(user *entities.User) (*entities.Transaction, error) {
		user.Wallet.Winnings = user.Wallet.Winnings.Add(net)
		return l.newTransaction(entities.TransactionGameWin, net), nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	l.log.Info("[LEDGER] User %s won $%s (gross $%s, x%s)", l.userID, net.StringFixed(2), gross.StringFixed(2), multiplier.String())
	return net, nil
}

// Deposit waits for the simulated payment, then credits the deposit bucket.
// A cancelled wait credits nothing.
func (l *Ledger) Deposit(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return types.NewGameError(types.ErrInvalidArgument, "Deposit must be greater than zero")
	}

	if err := common.Sleep(ctx, l.delays.Deposit); err != nil {
		return err
	}

	err := l.mutate(ctx, func(user *entities.User) (*entities.Transaction, error) {
		user.Wallet.Deposit = user.Wallet.Deposit.Add(amount)
		return l.newTransaction(entities.TransactionDeposit, amount), nil
	})
	if err != nil {
		return err
	}

	l.log.Info("[LEDGER] User %s deposited $%s", l.userID, amount.StringFixed(2))
	if l.onDeposit != nil {
		l.onDeposit(ctx, l.userID, amount)
	}
	return nil
}

// ValidateWithdrawal applies the withdrawal rules in order; the first failing
// rule wins.
func ValidateWithdrawal(user *entities.User, amount decimal.Decimal) error {
	if !user.KYCVerified {
		return types.NewGameError(types.ErrKYCRequired, types.MsgKYCRequired)
	}
	if amount.GreaterThan(user.Wallet.Winnings) {
		return types.NewGameError(types.ErrInsufficientWinnings, types.MsgInsufficientWinnings)
	}
	if amount.LessThan(MinWithdrawal) {
		return types.NewGameError(types.ErrBelowMinimum, types.MsgBelowMinimum)
	}
	return nil
}

// Withdraw validates, waits for the simulated payout, then debits winnings.
// The rules are checked again after the wait since a bet may have drawn
// winnings down in the meantime.
func (l *Ledger) Withdraw(ctx context.Context, amount decimal.Decimal) error {
	user, err := l.User(ctx)
	if err != nil {
		return err
	}
	if err := ValidateWithdrawal(user, amount); err != nil {
		return err
	}

	if err := common.Sleep(ctx, l.delays.Withdraw); err != nil {
		return err
	}

	err = l.mutate(ctx, func(user *entities.User) (*entities.Transaction, error) {
		if err := ValidateWithdrawal(user, amount); err != nil {
			return nil, err
		}
		user.Wallet.Winnings = user.Wallet.Winnings.Sub(amount)
		return l.newTransaction(entities.TransactionWithdraw, amount), nil
	})
	if err != nil {
		return err
	}

	l.log.Info("[LEDGER] User %s withdrew $%s", l.userID, amount.StringFixed(2))
	return nil
}

// VerifyKYC waits for the simulated check, then marks the user verified
func (l *Ledger) VerifyKYC(ctx context.Context) error {
	if err := common.Sleep(ctx, l.delays.KYC); err != nil {
		return err
	}

	err := l.mutate(ctx, func(user *entities.User) (*entities.Transaction, error) {
		user.KYCVerified = true
		return nil, nil
	})
	if err != nil {
		return err
	}

	l.log.Info("[LEDGER] User %s passed KYC", l.userID)
	return nil
}

// CreditReferral pays referral bonus cash into the bonus bucket
func (l *Ledger) CreditReferral(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return types.NewGameError(types.ErrInvalidArgument, "Referral reward must be greater than zero")
	}

	err := l.mutate(ctx, func(user *entities.User) (*entities.Transaction, error) {
		user.Wallet.Bonus = user.Wallet.Bonus.Add(amount)
		return l.newTransaction(entities.TransactionReferral, amount), nil
	})
	if err != nil {
		return err
	}

	l.log.Info("[LEDGER] User %s earned referral bonus $%s", l.userID, amount.StringFixed(2))
	return nil
}

// SetReferrer links this user to the user who referred them. It may only be
// done once, and only before the first deposit.
func (l *Ledger) SetReferrer(ctx context.Context, referrerID string) error {
	if referrerID == l.userID {
		return types.NewGameError(types.ErrReferralInvalid, "You cannot use your own referral code")
	}

	return l.mutate(ctx, func(user *entities.User) (*entities.Transaction, error) {
		if user.ReferredBy != "" {
			return nil, types.NewGameError(types.ErrReferralInvalid, "You have already used a referral code")
		}
		// checked under the ledger lock so a deposit cannot commit in between
		deposits, err := l.repo.GetTransactionsByType(ctx, l.userID, entities.TransactionDeposit, 1)
		if err != nil {
			return nil, repoError(err)
		}
		if len(deposits) > 0 {
			return nil, types.NewGameError(types.ErrReferralInvalid, "Referral codes can only be used before your first deposit")
		}
		user.ReferredBy = referrerID
		return nil, nil
	})
}

// ClaimReferralReward marks the referral reward as paid and returns the
// referrer. claimed is false if there is no referrer or it was already paid.
func (l *Ledger) ClaimReferralReward(ctx context.Context) (referrerID string, claimed bool, err error) {
	err = l.mutate(ctx, func(user *entities.User) (*entities.Transaction, error) {
		if user.ReferredBy == "" || user.ReferralRewarded {
			return nil, nil
		}
		user.ReferralRewarded = true
		referrerID, claimed = user.ReferredBy, true
		return nil, nil
	})
	if err != nil {
		return "", false, err
	}
	return referrerID, claimed, nil
}

// mutate loads the user, applies fn and commits the result with fn's
// transaction, all under the ledger lock. Nothing is written if fn fails.
func (l *Ledger) mutate(ctx context.Context, fn func(user *entities.User) (*entities.Transaction, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.repo.GetUser(ctx, l.userID)
	if err != nil {
		return repoError(err)
	}

	txn, err := fn(user)
	if err != nil {
		return err
	}

	if err := l.repo.Commit(ctx, user, txn); err != nil {
		l.log.Error("[LEDGER] Commit failed for user %s: %v", l.userID, err)
		return repoError(err)
	}
	return nil
}

func (l *Ledger) newTransaction(kind entities.TransactionType, amount decimal.Decimal) *entities.Transaction {
	return &entities.Transaction{
		UserID:    l.userID,
		Type:      kind,
		Amount:    amount,
		Status:    entities.StatusSuccess,
		Timestamp: time.Now(),
	}
}

func insufficientFunds() error {
	return types.NewGameError(types.ErrInsufficientFunds, "Insufficient balance for this bet")
}

func repoError(err error) error {
	if errors.Is(err, ledger.ErrUserNotFound) {
		return types.WrapError(types.ErrUserNotFound, "Wallet not found", err)
	}
	return types.WrapError(types.ErrDatabaseError, "Wallet is unavailable, please try again", err)
}
