package domain

import "errors"

var (
	// ErrZeroAmount is returned by any operation receiving a null amount.
	ErrZeroAmount = errors.New("amount must not be zero")
	// ErrSameTokens is returned when creating an order with tokenIn equal to tokenOut.
	ErrSameTokens = errors.New("input and output tokens must differ")
	// ErrDurationTooLong is returned when an order duration exceeds the configured maximum.
	ErrDurationTooLong = errors.New("duration exceeds the maximum allowed")
	// ErrTokenNotAllowed is returned when a token is not registered or not
	// accepted for the requested operation.
	ErrTokenNotAllowed = errors.New("token is not allowed")
	// ErrTokenNotFound ...
	ErrTokenNotFound = errors.New("token not found in registry")
	// ErrAmountBelowMinimum is returned when an order amount is below the
	// registered minimum for its input token.
	ErrAmountBelowMinimum = errors.New("amount is below the token minimum")
	// ErrInsufficientBalance ...
	ErrInsufficientBalance = errors.New("not enough tokens on the balance")
	// ErrTransferFailed is returned when moving funds from the depositor to
	// custody does not succeed.
	ErrTransferFailed = errors.New("transfer into custody failed")
	// ErrOrderNotFound ...
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotCompleted is returned when claiming an order that is neither
	// completed nor past its settlement window.
	ErrOrderNotCompleted = errors.New("order not completed")
	// ErrOrderAlreadyCompleted ...
	ErrOrderAlreadyCompleted = errors.New("order already completed")
	// ErrOrderAlreadyClaimed ...
	ErrOrderAlreadyClaimed = errors.New("order already claimed")
	// ErrOrderNotClaimed is returned by the emergency path when a balance is
	// still retained by an unclaimed order.
	ErrOrderNotClaimed = errors.New("order not claimed")
	// ErrIsNotUsdToken is returned when a USD-class token is required and the
	// given one does not hold the designation.
	ErrIsNotUsdToken = errors.New("is not a usd token")
	// ErrUsdTokenAlreadySet is returned when registering a second token with
	// the reference currency designation.
	ErrUsdTokenAlreadySet = errors.New("usd token already designated")
	// ErrNotTheOwners is returned when an administrative call does not come
	// from one of the two owners.
	ErrNotTheOwners = errors.New("not the owners")
	// ErrNotAllowedAddress is returned when batch execution is requested by an
	// identity that is not an authorized executor.
	ErrNotAllowedAddress = errors.New("not the allowed address")
	// ErrAvailableOnlyOwner is returned when a restricted call is made on
	// behalf of somebody else.
	ErrAvailableOnlyOwner = errors.New("available only to the owner")
	// ErrWrongExpirationTime is returned when a batch references an order
	// outside of its settlement window.
	ErrWrongExpirationTime = errors.New("wrong expiration time")
	// ErrDifferentLength is returned when the parallel slices of a batch
	// request differ in length.
	ErrDifferentLength = errors.New("request slices have different lengths")
	// ErrIncorrectAmountOut is returned when a caller-supplied minimum output
	// is below the bound the engine computes from live quotes.
	ErrIncorrectAmountOut = errors.New("incorrect minimum amount out")
	// ErrWrongAdditionalAmount is returned when a caller-supplied additional
	// amount does not match the engine's own computation.
	ErrWrongAdditionalAmount = errors.New("wrong additional amount")
	// ErrEmergencyLocked is returned by the emergency path before the full
	// access time lock has elapsed.
	ErrEmergencyLocked = errors.New("emergency access is time locked")
	// ErrSettingsNotInitialized ...
	ErrSettingsNotInitialized = errors.New("settings not initialized")
)
