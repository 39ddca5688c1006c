package engine

import "errors"

// Rule violations. Operations returning one of these leave the state untouched.
var (
	ErrGameOver           = errors.New("game is already over")
	ErrWrongPhase         = errors.New("operation not allowed in current phase")
	ErrNotYourTurn        = errors.New("action out of turn")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrIllegalPlay        = errors.New("card may not be played on this trick")
	ErrAnimationPending   = errors.New("waiting for animation acknowledgment")
	ErrNothingPending     = errors.New("no animation pending")
	ErrCanteNotAllowed    = errors.New("cante not allowed")
	ErrExchangeNotAllowed = errors.New("trump exchange not allowed")
	ErrInvalidSeat        = errors.New("invalid seat")
	ErrMatchOver          = errors.New("match is over")
)

// ErrDesync reports a remote snapshot that cannot describe a legal deal.
// The local view must be refetched rather than patched.
var ErrDesync = errors.New("state desync")
