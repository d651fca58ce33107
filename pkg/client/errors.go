package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "assetshare/pkg/errors"
)

const (
	networkMessage        = "Unable to reach the marketplace API"
	sessionExpiredMessage = "Your session has expired. Please sign in again."
)

// APIError is returned for every non-2xx answer and for transport failures,
// which carry StatusCode 0.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("marketplace API returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) IsNetwork() bool {
	return e.StatusCode == 0
}

// ToAppError classifies a client error for the dashboard. Errors that are
// already AppErrors pass through.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout("The marketplace API did not answer in time")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return apperrors.Upstream("", err)
	}

	if apiErr.IsNetwork() {
		return apperrors.Unavailable("Marketplace API").WithCause(apiErr)
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		msg := apiErr.Message
		if msg == http.StatusText(http.StatusUnauthorized) {
			msg = sessionExpiredMessage
		}
		return apperrors.Unauthorized(msg).WithCause(apiErr)
	case http.StatusForbidden:
		return apperrors.Forbidden(apiErr.Message).WithCause(apiErr)
	case http.StatusNotFound:
		if apiErr.Message == http.StatusText(http.StatusNotFound) {
			return apperrors.NotFound("Resource").WithCause(apiErr)
		}
		return apperrors.New(apperrors.CodeNotFound, apiErr.Message, http.StatusNotFound).WithCause(apiErr)
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return apperrors.Validation(apiErr.Message, nil).WithCause(apiErr)
	default:
		msg := apiErr.Message
		if msg == http.StatusText(apiErr.StatusCode) {
			msg = ""
		}
		return apperrors.Upstream(msg, apiErr)
	}
}
