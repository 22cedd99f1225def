package model

import "errors"

// Common errors used across the application
var (
	// Input errors
	ErrInvalidRounds       = errors.New("total rounds must be at least 1")
	ErrInvalidTournamentID = errors.New("tournament id is required")
	ErrInvalidCompetitor   = errors.New("competitor id and display name are required")

	// Registry errors
	ErrCompetitorNotFound = errors.New("competitor not found")

	// Schedule errors
	ErrScheduleNotFound = errors.New("schedule not found")

	// Locking errors
	ErrLockTimeout = errors.New("timed out waiting for tournament lock")
)
