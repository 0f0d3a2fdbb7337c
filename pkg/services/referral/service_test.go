package referral

import (
	"context"
	"testing"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/internal/types"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/repositories/ledger"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReferralTestSuite struct {
	suite.Suite
	ctx      context.Context
	registry *wallet.Registry
	service  *Service
	house    *wallet.Ledger
}

func TestReferralSuite(t *testing.T) {
	suite.Run(t, new(ReferralTestSuite))
}

func (s *ReferralTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.registry = wallet.NewRegistry(ledger.NewMemoryRepository(), wallet.Delays{}, logging.Discard)
	s.service = NewService(s.registry, logging.Discard)
	s.registry.SetDepositHook(s.service.OnDeposit)

	var err error
	s.house, err = s.registry.Ensure(s.ctx, wallet.DefaultUser)
	s.Require().NoError(err)
}

func (s *ReferralTestSuite) bonus(l *wallet.Ledger) decimal.Decimal {
	user, err := l.User(s.ctx)
	s.Require().NoError(err)
	return user.Wallet.Bonus
}

func (s *ReferralTestSuite) TestFirstDepositRewardsReferrer() {
	referrer, err := s.service.Redeem(s.ctx, "friend", "Friend", "neon2024")
	s.Require().NoError(err)
	s.Equal(wallet.DefaultUser.ID, referrer.ID)

	friend, err := s.registry.Get(s.ctx, "friend")
	s.Require().NoError(err)
	s.Require().NoError(friend.Deposit(s.ctx, decimal.NewFromInt(200)))

	s.True(decimal.NewFromInt(120).Equal(s.bonus(s.house)))
	txns, err := s.house.Transactions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	s.Equal(entities.TransactionReferral, txns[0].Type)
	s.True(decimal.NewFromInt(20).Equal(txns[0].Amount))

	s.Require().NoError(friend.Deposit(s.ctx, decimal.NewFromInt(500)))
	s.True(decimal.NewFromInt(120).Equal(s.bonus(s.house)), "only the first deposit is rewarded")
	s.True(wallet.SignUpBonus.Equal(s.bonus(friend)))
}

func (s *ReferralTestSuite) TestDepositWithoutReferrerPaysNobody() {
	l, err := s.registry.GetOrCreate(s.ctx, "solo", "Solo")
	s.Require().NoError(err)

	s.Require().NoError(l.Deposit(s.ctx, decimal.NewFromInt(100)))

	s.True(wallet.SignUpBonus.Equal(s.bonus(s.house)))
}

func (s *ReferralTestSuite) TestUnknownCode() {
	_, err := s.service.Redeem(s.ctx, "friend", "Friend", "NOPE1234")

	s.True(types.IsGameError(err, types.ErrReferralInvalid))
}

func (s *ReferralTestSuite) TestOwnCodeRejected() {
	_, err := s.service.Redeem(s.ctx, wallet.DefaultUser.ID, wallet.DefaultUser.Username, "NEON2024")

	s.True(types.IsGameError(err, types.ErrReferralInvalid))
}

func (s *ReferralTestSuite) TestCodeOnlyOnce() {
	_, err := s.service.Redeem(s.ctx, "friend", "Friend", "NEON2024")
	s.Require().NoError(err)

	other, err := s.registry.GetOrCreate(s.ctx, "other", "Other")
	s.Require().NoError(err)
	user, err := other.User(s.ctx)
	s.Require().NoError(err)

	_, err = s.service.Redeem(s.ctx, "friend", "Friend", user.ReferralCode)

	s.True(types.IsGameError(err, types.ErrReferralInvalid))
}

func (s *ReferralTestSuite) TestCodeAfterDepositRejected() {
	l, err := s.registry.GetOrCreate(s.ctx, "late", "Late")
	s.Require().NoError(err)
	s.Require().NoError(l.Deposit(s.ctx, decimal.NewFromInt(50)))

	_, err = s.service.Redeem(s.ctx, "late", "Late", "NEON2024")

	s.True(types.IsGameError(err, types.ErrReferralInvalid))
}
