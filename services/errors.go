package services

import "errors"

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameEnded          = errors.New("game has ended, updates are disabled")
	ErrNotParticipant     = errors.New("user is not a participant in this game")
	ErrNoGameUpdates      = errors.New("no game updates found for this game")
	ErrInvariantViolation = errors.New("invalid cups left value")
	ErrValidation         = errors.New("invalid game update")
)
