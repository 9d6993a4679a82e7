package services

import "errors"

// Typed failures surfaced to callers. Handlers map these to HTTP statuses;
// nothing in this package panics or exits on them.
var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrInvalidSlotValue    = errors.New("slot value must be a non-negative integer")
	ErrEmailTaken          = errors.New("a participant with this email is already registered")
	ErrNoActiveWindow      = errors.New("no active draw window")
	ErrGamePaused          = errors.New("game is paused")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
