package ledger

import (
	"context"
	"errors"

	"github.com/fadedpez/neonvegas/pkg/entities"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_ledger

// Repository stores users and their transaction log
type Repository interface {
	// GetUser retrieves a user by ID, or ErrUserNotFound
	GetUser(ctx context.Context, userID string) (*entities.User, error)

	// SaveUser creates a user, or ErrDuplicateUser if the ID or referral code is taken
	SaveUser(ctx context.Context, user *entities.User) error

	// Commit writes the user's new state and, if txn is non-nil, appends txn,
	// as one atomic step
	Commit(ctx context.Context, user *entities.User, txn *entities.Transaction) error

	// GetTransactions returns a user's transactions newest first. limit <= 0 returns all.
	GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error)

	// GetTransactionsByType returns a user's transactions of one type, newest first
	GetTransactionsByType(ctx context.Context, userID string, transactionType entities.TransactionType, limit int) ([]*entities.Transaction, error)

	// FindByReferralCode resolves a referral code to its owner, or ErrUserNotFound
	FindByReferralCode(ctx context.Context, code string) (*entities.User, error)

	Close() error
}
