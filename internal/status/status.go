package status

import "errors"

var (
	ErrEventNotFound     = errors.New("event: event not found")
	ErrPlayerNotFound    = errors.New("player: player not found")
	ErrAlreadyRegistered = errors.New("roster: player already registered for this event")
	ErrEventFull         = errors.New("roster: active roster is at capacity")
	ErrNotOnWaitlist     = errors.New("roster: player is not on the waitlist")
	ErrNotOnRoster       = errors.New("roster: player is not on the active roster")
	ErrStoreUnavailable  = errors.New("store: record store unavailable")
)
