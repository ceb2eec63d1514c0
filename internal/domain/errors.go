package domain

import "errors"

var (
	// ErrNotFound is returned when a lead, message or other record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner is returned when a seller attempts an action that requires
	// holding the conversation's send rights.
	ErrNotOwner = errors.New("conversation not owned by caller")

	// ErrAlreadyOwned is returned when a take-over targets a conversation
	// already held by another seller. Seller-to-seller transfer requires an
	// intermediate return-to-AI.
	ErrAlreadyOwned = errors.New("conversation owned by another seller")

	// ErrEmptyMessage is returned when a send carries no content after trimming.
	ErrEmptyMessage = errors.New("message content is empty")
)
