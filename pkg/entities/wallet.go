package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the three balance buckets. Every bucket is non-negative.
type Wallet struct {
	Deposit  decimal.Decimal // funds added via deposit
	Winnings decimal.Decimal // net game winnings, the only withdrawable bucket
	Bonus    decimal.Decimal // promotional credit
}

// Total is the spendable balance, always derived from the buckets
func (w Wallet) Total() decimal.Decimal {
	return w.Deposit.Add(w.Winnings).Add(w.Bonus)
}

// User is a player and their wallet
type User struct {
	ID               string
	Username         string
	Wallet           Wallet
	KYCVerified      bool
	ReferralCode     string
	ReferredBy       string // user ID of the referrer, empty if none
	ReferralRewarded bool   // referrer already paid for this user's first deposit
	UpdatedAt        time.Time
}

// Clone returns a copy of the user
func (u *User) Clone() *User {
	c := *u
	return &c
}

// TransactionType represents the type of wallet transaction
type TransactionType string

const (
	TransactionDeposit  TransactionType = "deposit"
	TransactionWithdraw TransactionType = "withdraw"
	TransactionGameFee  TransactionType = "game_fee"
	TransactionGameWin  TransactionType = "game_win"
	TransactionReferral TransactionType = "referral"
)

// IsCredit reports whether the type adds to the wallet
func (t TransactionType) IsCredit() bool {
	switch t {
	case TransactionDeposit, TransactionGameWin, TransactionReferral:
		return true
	}
	return false
}

// TransactionStatus is the processing state of a transaction
type TransactionStatus string

const (
	StatusSuccess TransactionStatus = "success"
	StatusPending TransactionStatus = "pending"
	StatusFailed  TransactionStatus = "failed"
)

// Transaction is an immutable ledger entry
type Transaction struct {
	ID        string
	UserID    string
	Type      TransactionType
	Amount    decimal.Decimal // always positive; direction comes from Type
	Status    TransactionStatus
	Timestamp time.Time
}
