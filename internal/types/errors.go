package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Wallet errors
	ErrInsufficientFunds    ErrorCode = "INSUFFICIENT_FUNDS"
	ErrKYCRequired          ErrorCode = "KYC_REQUIRED"
	ErrInsufficientWinnings ErrorCode = "INSUFFICIENT_WINNINGS"
	ErrBelowMinimum         ErrorCode = "BELOW_MINIMUM"
	ErrUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrReferralInvalid      ErrorCode = "REFERRAL_INVALID"

	// Game state errors
	ErrGameNotFound     ErrorCode = "GAME_NOT_FOUND"
	ErrRoundInProgress  ErrorCode = "ROUND_IN_PROGRESS"
	ErrInvalidState     ErrorCode = "INVALID_STATE"

	// Action errors
	ErrInvalidAction   ErrorCode = "INVALID_ACTION"
	ErrInvalidCommand  ErrorCode = "INVALID_COMMAND"
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrNetworkError  ErrorCode = "NETWORK_ERROR"
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
)

// Messages shown to players for withdrawal failures.
const (
	MsgKYCRequired          = "KYC Verification Required"
	MsgInsufficientWinnings = "Insufficient Winnings Balance"
	MsgBelowMinimum         = "Minimum withdrawal is $10"
)

// GameError represents a game or wallet error with a code and a player-facing message
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError checks if an error is a GameError and has a specific code
func IsGameError(err error, code ErrorCode) bool {
	var gameErr *GameError
	if err == nil {
		return false
	}
	if ok := As(err, &gameErr); !ok {
		return false
	}
	return gameErr.Code == code
}

// As finds the first GameError in err's chain
func As(err error, target **GameError) bool {
	if target == nil || err == nil {
		return false
	}
	return errors.As(err, target)
}

// UserMessage returns the text a player should see for err
func UserMessage(err error) string {
	var gameErr *GameError
	if As(err, &gameErr) {
		return gameErr.Message
	}
	return "Something went wrong, please try again."
}
