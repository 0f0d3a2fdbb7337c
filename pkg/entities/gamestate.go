package entities

import "github.com/shopspring/decimal"

// GameState is the phase a game controller is in
type GameState string

const (
	StateBetting   GameState = "BETTING"
	StatePlaying   GameState = "PLAYING"
	StateDealer    GameState = "DEALER"
	StateResolving GameState = "RESOLVING"
	StateComplete  GameState = "COMPLETE"
)

// RoundStatus classifies a finished round for display and commentary
type RoundStatus string

const (
	RoundWin     RoundStatus = "win"
	RoundLoss    RoundStatus = "loss"
	RoundNeutral RoundStatus = "neutral"
)

// RoundResult is what a controller reports when a round resolves
type RoundResult struct {
	Status     RoundStatus
	Bet        decimal.Decimal
	Multiplier decimal.Decimal
	// NetWin is what settlement credited to winnings
	NetWin decimal.Decimal
	// Amount is the figure shown to the player: NetWin for win/neutral, Bet for a loss
	Amount  decimal.Decimal
	Message string
}

// NewRoundResult classifies a settled round. A multiplier above 1 is a win,
// exactly 1 is neutral and 0 is a loss.
func NewRoundResult(bet, multiplier, netWin decimal.Decimal, message string) *RoundResult {
	r := &RoundResult{
		Bet:        bet,
		Multiplier: multiplier,
		NetWin:     netWin,
		Amount:     netWin,
		Message:    message,
	}
	switch {
	case multiplier.GreaterThan(decimal.NewFromInt(1)):
		r.Status = RoundWin
	case multiplier.Equal(decimal.NewFromInt(1)):
		r.Status = RoundNeutral
	default:
		r.Status = RoundLoss
		r.Amount = bet
	}
	return r
}
