package services

import "errors"

// Sentinel errors surfaced by the services so HTTP handlers can map them
// to status codes without string matching.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("item not found")
	ErrDuplicateName      = errors.New("item already exists")
	ErrInsufficientStock  = errors.New("insufficient quantity available")
	ErrValidation         = errors.New("invalid request data")
)
