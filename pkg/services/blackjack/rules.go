package blackjack

import (
	"strconv"

	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/fadedpez/neonvegas/pkg/games/common"
	"github.com/shopspring/decimal"
)

const (
	// DealerStandsOn is the score at which the dealer stops drawing
	DealerStandsOn = 17
	MinBet         = 10
	BetStep        = 10
)

// Result represents the outcome of a blackjack hand
type Result string

const (
	ResultBlackjack  Result = "BLACKJACK"
	ResultDealerBust Result = "DEALER_BUST"
	ResultWin        Result = "WIN"
	ResultPush       Result = "PUSH"
	ResultLose       Result = "LOSE"
	ResultBust       Result = "BUST"
)

var multipliers = map[Result]decimal.Decimal{
	ResultBlackjack:  common.Multiplier("2.5"),
	ResultDealerBust: common.Multiplier("2"),
	ResultWin:        common.Multiplier("2"),
	ResultPush:       common.Multiplier("1"),
	ResultLose:       decimal.Zero,
	ResultBust:       decimal.Zero,
}

var messages = map[Result]string{
	ResultBlackjack:  "Blackjack! You win 2.5x!",
	ResultDealerBust: "Dealer Busts! You Win!",
	ResultWin:        "You Win!",
	ResultPush:       "Push.",
	ResultLose:       "Dealer Wins.",
	ResultBust:       "Bust! You lose.",
}

func (r Result) String() string {
	return string(r)
}

// Multiplier returns the payout multiplier for the result
func (r Result) Multiplier() decimal.Decimal {
	return multipliers[r]
}

// Message returns the line shown to the player
func (r Result) Message() string {
	return messages[r]
}

func GetCardValue(card *entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 11
	case entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

// GetBestScore counts aces as 11, demoting one at a time to 1 while the
// total is over 21
func GetBestScore(cards []*entities.Card) int {
	score := 0
	aces := 0
	for _, card := range cards {
		score += GetCardValue(card)
		if card.Rank == entities.Ace {
			aces++
		}
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

// IsNatural reports 21 on the first two cards
func IsNatural(cards []*entities.Card) bool {
	return len(cards) == 2 && GetBestScore(cards) == 21
}

// Compare settles a stood player hand against the finished dealer hand
func Compare(player, dealer []*entities.Card) Result {
	playerScore := GetBestScore(player)
	dealerScore := GetBestScore(dealer)

	switch {
	case dealerScore > 21:
		return ResultDealerBust
	case playerScore > dealerScore:
		return ResultWin
	case dealerScore > playerScore:
		return ResultLose
	default:
		return ResultPush
	}
}
