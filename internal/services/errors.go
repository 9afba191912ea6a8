package services

import "errors"

// Service errors
var (
	// ErrInvalidInput is the cause of every request validation failure
	ErrInvalidInput = errors.New("invalid input")
)
