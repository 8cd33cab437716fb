package domain

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is the root of every rejected action. Rejections never mutate state.
var ErrIllegalMove = errors.New("illegal move")

var (
	ErrMalformedAction = fmt.Errorf("%w: malformed action", ErrIllegalMove)
	ErrCardNotInHand   = fmt.Errorf("%w: card not in hand", ErrIllegalMove)
	ErrOpeningPhase    = fmt.Errorf("%w: not allowed during the opening phase", ErrIllegalMove)
	ErrNotOwnCaravan   = fmt.Errorf("%w: caravan belongs to the opponent", ErrIllegalMove)
	ErrEmptyCaravan    = fmt.Errorf("%w: caravan is empty", ErrIllegalMove)
	ErrCaravanFull     = fmt.Errorf("%w: caravan is full", ErrIllegalMove)
	ErrWrongDirection  = fmt.Errorf("%w: card breaks the caravan direction", ErrIllegalMove)
	ErrNoAnchor        = fmt.Errorf("%w: face cards need an anchor to attach to", ErrIllegalMove)
)

var (
	ErrInvalidDeck        = errors.New("invalid deck")
	ErrDrawPileExhausted  = errors.New("draw pile exhausted")
	ErrInvariantViolation = errors.New("invariant violation")
)
