package domain

import "errors"

// Catalog errors
var (
	ErrCardNotFound         = errors.New("card not found")
	ErrInvestigatorNotFound = errors.New("investigator not found")
)

// Deck errors
var (
	ErrDeckNotFound  = errors.New("deck not found")
	ErrNotDeckOwner  = errors.New("only the deck owner can perform this action")
	ErrUnknownAction = errors.New("unknown deck action")
)
