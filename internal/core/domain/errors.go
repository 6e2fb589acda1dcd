package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrUserExists         = errors.New("user already exists")
	ErrPartnerExists      = errors.New("partner already exists")
	ErrInvalidPartnerName = errors.New("partner name must be a DNS label")
)

// UpstreamError reports a failed call to the record store or the edge provider.
// Details holds the provider's response body verbatim when one was returned.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Details    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Details != "":
		return e.Details
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }
