package errors

import "errors"

var (
	ErrNotImplemented = errors.New("booking action is not supported by the marketplace yet")

	ErrUnknownAction = errors.New("unknown booking action")

	ErrActionNotAllowed = errors.New("booking action not available for this role")

	ErrInvalidTransition = errors.New("booking action not available in the current status")

	ErrNoSuggestedAmount = errors.New("no amount given and none can be suggested")
)
