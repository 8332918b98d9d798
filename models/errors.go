package models

import "errors"

// Sentinel errors shared by stores, services and handlers. Stores wrap
// them with context; callers match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotMember          = errors.New("user is not a member of the competition")
	ErrBettingClosed      = errors.New("betting is closed for this game")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidResult      = errors.New("invalid game result")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
