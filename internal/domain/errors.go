package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrStoreWrite            = errors.New("store write failed")
	ErrRateSourceUnavailable = errors.New("rate source unavailable")
	ErrJobRetryExhausted     = errors.New("job retries exhausted")
	ErrJobTimeout            = errors.New("job wait timed out")
	ErrInvalidCurrency       = errors.New("invalid currency code")
	ErrUnknownCurrency       = errors.New("unknown currency")
	ErrInvalidInput          = errors.New("invalid input")
)
