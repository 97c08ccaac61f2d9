package service

import "errors"

// Failure taxonomy surfaced to handlers. Every sentinel maps to one HTTP
// status category; anything else is an internal error and is not shown
// to clients.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("only commissioners can do that")
	ErrNotMember       = errors.New("you are not a member of this group")
	ErrNotYourTurn     = errors.New("it's not your turn to select a movie")
	ErrAlreadySelected = errors.New("a movie has already been selected for this period")
	ErrAlreadyMember   = errors.New("you are already a member of this group")
	ErrSelfRemoval     = errors.New("you cannot remove yourself")
	// ErrLastCommissioner guards the invariant that a group always keeps
	// at least one commissioner.
	ErrLastCommissioner = errors.New("a group must keep at least one commissioner")
	ErrInvalidRating    = errors.New("rating must be between 0.5 and 5.0 in half-point steps")
	ErrRatingClosed     = errors.New("movie is not open for rating")
	// ErrNotFoundOrForbidden deliberately conflates "absent" with "owned
	// by someone else" so existence is never leaked.
	ErrNotFoundOrForbidden = errors.New("rating not found")
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidSettings     = errors.New("invalid settings value")
)
