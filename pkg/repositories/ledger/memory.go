package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/google/uuid"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	users        map[string]*entities.User
	transactions map[string][]*entities.Transaction // oldest first
	mu           sync.RWMutex
}

// NewMemoryRepository creates a new in-memory ledger repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:        make(map[string]*entities.User),
		transactions: make(map[string][]*entities.Transaction),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[userID]
	if !exists {
		return nil, ErrUserNotFound
	}
	return user.Clone(), nil
}

func (r *MemoryRepository) SaveUser(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return ErrDuplicateUser
	}
	for _, u := range r.users {
		if user.ReferralCode != "" && strings.EqualFold(u.ReferralCode, user.ReferralCode) {
			return ErrDuplicateUser
		}
	}

	user.UpdatedAt = time.Now()
	r.users[user.ID] = user.Clone()
	return nil
}

func (r *MemoryRepository) Commit(ctx context.Context, user *entities.User, txn *entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return ErrUserNotFound
	}

	user.UpdatedAt = time.Now()
	r.users[user.ID] = user.Clone()

	if txn != nil {
		if txn.ID == "" {
			txn.ID = uuid.New().String()
		}
		if txn.Timestamp.IsZero() {
			txn.Timestamp = time.Now()
		}
		txCopy := *txn
		r.transactions[user.ID] = append(r.transactions[user.ID], &txCopy)
	}
	return nil
}

func (r *MemoryRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	return r.collect(userID, limit, func(*entities.Transaction) bool { return true }), nil
}

func (r *MemoryRepository) GetTransactionsByType(ctx context.Context, userID string, transactionType entities.TransactionType, limit int) ([]*entities.Transaction, error) {
	return r.collect(userID, limit, func(t *entities.Transaction) bool { return t.Type == transactionType }), nil
}

// collect walks the log backwards so results come out newest first
func (r *MemoryRepository) collect(userID string, limit int, keep func(*entities.Transaction) bool) []*entities.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions := r.transactions[userID]
	result := make([]*entities.Transaction, 0, len(transactions))
	for i := len(transactions) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		if keep(transactions[i]) {
			txCopy := *transactions[i]
			result = append(result, &txCopy)
		}
	}
	return result
}

func (r *MemoryRepository) FindByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ReferralCode != "" && strings.EqualFold(u.ReferralCode, code) {
			return u.Clone(), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) Close() error {
	return nil
}
