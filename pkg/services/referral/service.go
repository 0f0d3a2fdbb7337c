package referral

import (
	"context"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
)

// RewardRate is the share of a referred friend's first deposit paid to the referrer
var RewardRate = decimal.RequireFromString("0.10")

// Service links referred users to their referrer and pays the reward
type Service struct {
	registry *wallet.Registry
	log      *logging.Logger
}

func NewService(registry *wallet.Registry, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default
	}
	return &Service{registry: registry, log: logger}
}

// Redeem links userID to the owner of code and returns the referrer
func (s *Service) Redeem(ctx context.Context, userID, username, code string) (*entities.User, error) {
	l, err := s.registry.GetOrCreate(ctx, userID, username)
	if err != nil {
		return nil, err
	}

	referrer, err := s.registry.FindByReferralCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := l.SetReferrer(ctx, referrer.ID); err != nil {
		return nil, err
	}

	s.log.Info("[REFERRAL] %s was referred by %s", userID, referrer.ID)
	return referrer, nil
}

// OnDeposit pays the referrer once, on the referred user's first deposit.
// It is installed as the registry's deposit hook.
func (s *Service) OnDeposit(ctx context.Context, userID string, amount decimal.Decimal) {
	l, err := s.registry.Get(ctx, userID)
	if err != nil {
		s.log.LogError(err)
		return
	}

	referrerID, claimed, err := l.ClaimReferralReward(ctx)
	if err != nil {
		s.log.LogError(err)
		return
	}
	if !claimed {
		return
	}

	referrer, err := s.registry.Get(ctx, referrerID)
	if err != nil {
		s.log.LogError(err)
		return
	}

	reward := amount.Mul(RewardRate)
	if err := referrer.CreditReferral(ctx, reward); err != nil {
		s.log.LogError(err)
		return
	}
	s.log.Info("[REFERRAL] Paid %s $%s for referring %s", referrerID, reward.StringFixed(2), userID)
}
