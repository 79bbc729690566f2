package store

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrDuplicate          = errors.New("duplicate record")
	ErrNoActiveSeason     = errors.New("no active application season")
)
