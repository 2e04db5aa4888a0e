package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrRejected marks an action whose preconditions do not hold. The state
	// returned alongside it is the unchanged input state.
	ErrRejected = errors.New("action rejected")

	// ErrInvalidRequest marks malformed input: an unknown card id, an unknown
	// action type or a missing payload field.
	ErrInvalidRequest = errors.New("invalid request")

	ErrGameOver    = fmt.Errorf("%w: game is over", ErrRejected)
	ErrNotYourTurn = fmt.Errorf("%w: not your turn", ErrRejected)
)

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// IsRejected reports whether err is a rule rejection.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}

// IsInvalidRequest reports whether err is a malformed request.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
