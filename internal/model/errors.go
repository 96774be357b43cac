package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameTaken   = errors.New("username already taken")

	// Identity errors
	ErrUnauthorized        = errors.New("unauthorized")
	ErrIdentityUnavailable = errors.New("identity provider unavailable")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")

	// Game engine errors
	ErrManagerStopped = errors.New("room manager stopped")
)
