package shared

import "errors"

var (
	// ErrInvalidArgument reports malformed construction input or an
	// out-of-range draw count. It indicates a caller bug.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIllegalState reports an operation invoked out of protocol
	// order or against the current rules. The operation leaves the
	// game state unchanged.
	ErrIllegalState = errors.New("illegal state")

	// ErrEmptyDeck reports a draw from an exhausted deck.
	ErrEmptyDeck = errors.New("deck is empty")
)
