package wallet

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/repositories/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SignUpBonus is credited to the bonus bucket of every new user
var SignUpBonus = decimal.NewFromInt(100)

// DefaultUser is the house guest account
var DefaultUser = entities.User{
	ID:           "user-123",
	Username:     "Guest_Player",
	ReferralCode: "NEON2024",
	Wallet:       entities.Wallet{Bonus: SignUpBonus},
}

const referralCodeAttempts = 5

// Registry hands out exactly one Ledger per user
type Registry struct {
	repo      ledger.Repository
	delays    Delays
	log       *logging.Logger
	onDeposit DepositHook

	mu      sync.Mutex
	ledgers map[string]*Ledger
}

// NewRegistry creates a registry over repo
func NewRegistry(repo ledger.Repository, delays Delays, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Default
	}
	return &Registry{
		repo:    repo,
		delays:  delays,
		log:     logger,
		ledgers: make(map[string]*Ledger),
	}
}

// SetDepositHook installs a hook run after every committed deposit. Call it
// during startup, before ledgers are handed out.
func (r *Registry) SetDepositHook(hook DepositHook) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onDeposit = hook
	for _, l := range r.ledgers {
		l.onDeposit = hook
	}
}

// GetOrCreate returns the user's ledger, creating the user with the sign-up
// bonus and a fresh referral code if they are new
func (r *Registry) GetOrCreate(ctx context.Context, userID, username string) (*Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.ledgers[userID]; ok {
		return l, nil
	}

	_, err := r.repo.GetUser(ctx, userID)
	if errors.Is(err, ledger.ErrUserNotFound) {
		err = r.createUser(ctx, userID, username)
	}
	if err != nil {
		return nil, repoError(err)
	}

	return r.ledgerLocked(userID), nil
}

// Get returns the ledger of an existing user
func (r *Registry) Get(ctx context.Context, userID string) (*Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.ledgers[userID]; ok {
		return l, nil
	}
	if _, err := r.repo.GetUser(ctx, userID); err != nil {
		return nil, repoError(err)
	}
	return r.ledgerLocked(userID), nil
}

// Ensure stores user if no user with its ID exists yet
func (r *Registry) Ensure(ctx context.Context, user entities.User) (*Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.repo.GetUser(ctx, user.ID)
	if errors.Is(err, ledger.ErrUserNotFound) {
		err = r.repo.SaveUser(ctx, &user)
	}
	if err != nil {
		return nil, repoError(err)
	}
	return r.ledgerLocked(user.ID), nil
}

// FindByReferralCode resolves a referral code to its owner
func (r *Registry) FindByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	user, err := r.repo.FindByReferralCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, ledger.ErrUserNotFound) {
		return nil, types.WrapError(types.ErrReferralInvalid, "That referral code does not exist", err)
	}
	if err != nil {
		return nil, repoError(err)
	}
	return user, nil
}

func (r *Registry) createUser(ctx context.Context, userID, username string) error {
	var err error
	for i := 0; i < referralCodeAttempts; i++ {
		user := &entities.User{
			ID:           userID,
			Username:     username,
			Wallet:       entities.Wallet{Bonus: SignUpBonus},
			ReferralCode: NewReferralCode(),
		}
		err = r.repo.SaveUser(ctx, user)
		if !errors.Is(err, ledger.ErrDuplicateUser) {
			break
		}
	}
	if err != nil {
		return err
	}

	r.log.Info("[LEDGER] Created wallet for %s (%s) with $%s bonus", userID, username, SignUpBonus.StringFixed(2))
	return nil
}

func (r *Registry) ledgerLocked(userID string) *Ledger {
	if l, ok := r.ledgers[userID]; ok {
		return l
	}
	l := NewLedger(userID, r.repo, r.delays, r.log)
	l.onDeposit = r.onDeposit
	r.ledgers[userID] = l
	return l
}

// NewReferralCode returns an 8 character uppercase code
func NewReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
