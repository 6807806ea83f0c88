package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrNoLegs         = errors.New("signal requires at least one leg")
	ErrEmptyMarket    = errors.New("leg market is empty")
	ErrEmptyTeams     = errors.New("leg teams are empty")
	ErrInvalidOdd     = errors.New("odd must be a finite number greater than 1.0")
	ErrBankrollTooLow = errors.New("bankroll below minimum")
	ErrMissingProfile = errors.New("risk profile not selected")
	ErrAlreadySettled = errors.New("signal already settled")
	ErrInvalidStatus  = errors.New("invalid signal status")
)
