package engine

import "errors"

// Conjunto fixo de condições de falha do engine. Toda operação que
// encontra uma dessas condições aborta por inteiro, sem efeito parcial.
var (
	ErrBetTooSmall             = errors.New("bet amount below minimum")
	ErrBetTooLarge             = errors.New("bet amount above maximum")
	ErrEmptyPool               = errors.New("jackpot pool is empty")
	ErrRequestNotFound         = errors.New("randomness request not found")
	ErrRequestNotFulfilled     = errors.New("randomness request not fulfilled yet")
	ErrRequestAlreadyFulfilled = errors.New("randomness request already fulfilled")
	ErrInvalidOracleAuthority  = errors.New("randomness request does not match bet")
	ErrNoWin                   = errors.New("no win condition met")
	ErrInsufficientFunds       = errors.New("insufficient funds for payout")
	ErrUnauthorized            = errors.New("caller is not the house authority")
	ErrInvalidConfig           = errors.New("invalid configuration parameters")
	ErrReserveNotInitialized   = errors.New("yield reserve not initialized")
	ErrNoRewardsAvailable      = errors.New("no rewards available to claim")
	ErrClaimPeriodNotStarted   = errors.New("reward claim period not started")
	ErrMathOverflow            = errors.New("math overflow in calculation")
	ErrRequestTimeout          = errors.New("randomness request timed out")
	ErrRequestNotExpired       = errors.New("randomness request still inside fulfillment window")
	ErrInvalidWinThreshold     = errors.New("invalid win probability threshold")
	ErrResetThresholdNotMet    = errors.New("pool reset threshold not met")
)
