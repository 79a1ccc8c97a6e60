package game

import "errors"

var (
	// ErrWrongPhase is returned when an action arrives while the session is
	// not in the phase that expects it. Session state is left untouched.
	ErrWrongPhase = errors.New("wrong phase")

	ErrBlankClue         = errors.New("clue must not be blank")
	ErrInvalidCode       = errors.New("code must be 3 distinct numbers from 1 to 4")
	ErrNotEnoughKeywords = errors.New("keyword source returned too few distinct words")
)
