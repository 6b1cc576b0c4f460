package hulth

import "errors"

// Error kinds per the game-state core's failure-mode taxonomy. All of these
// are programming errors or corrupt-input errors: the tree never retries,
// swallows, or logs around them.
var (
	// ErrInvalidHistory means a node was constructed from a history that
	// violates the chance/move node invariants (e.g. a double-call
	// terminator appearing mid-stage, or a chance node not preceded by one).
	ErrInvalidHistory = errors.New("hulth: invalid history")

	// ErrIllegalAction means Play was called with an action outside the
	// node's legal-action set.
	ErrIllegalAction = errors.New("hulth: illegal action")

	// ErrUtilityOnNonTerminal means Utility was called on a node that is
	// not terminal.
	ErrUtilityOnNonTerminal = errors.New("hulth: utility requested on non-terminal node")

	// ErrAbstractionError means the hand evaluator or bucket mapper
	// returned an impossible value (out-of-range bucket, impossible rank).
	ErrAbstractionError = errors.New("hulth: abstraction error")
)
