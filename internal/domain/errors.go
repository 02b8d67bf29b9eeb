package domain

import "errors"

var (
	ErrAlreadyActive        = errors.New("session already active, logout first")
	ErrLoginFailed          = errors.New("login failed")
	ErrConnectionDenied     = errors.New("connection request denied")
	ErrUnknownProvider      = errors.New("unknown provider")
	ErrNotConnected         = errors.New("no active session")
	ErrInvalidDepositAmount = errors.New("deposit amount must be a positive integer")
	ErrDepositRejected      = errors.New("deposit rejected by backend")
	ErrSecretNotFound       = errors.New("secret not found")
	ErrWalletUnavailable    = errors.New("wallet extension unavailable")
)
