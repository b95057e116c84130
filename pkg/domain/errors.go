package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrMachineNotFound is returned when a library has no machine with the requested name.
var ErrMachineNotFound = errors.New("machine not found")

// ErrStepLimit is returned when a run exhausts its step budget before the machine halts.
var ErrStepLimit = errors.New("step limit reached before halt")

// ErrSessionHalted is returned when trying to advance a session whose machine already halted.
var ErrSessionHalted = errors.New("session already halted")

// ErrInvalidSessionID is returned for session IDs that are empty or could escape a storage namespace.
var ErrInvalidSessionID = errors.New("invalid session id")

// ErrSessionExists is returned when starting a session under an ID that is already stored.
var ErrSessionExists = errors.New("session already exists")
