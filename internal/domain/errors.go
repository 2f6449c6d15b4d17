package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation is returned for requests a provider cannot serve,
	// such as IP address geolocation.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvalidServerResponse matches any *InvalidServerResponseError.
	ErrInvalidServerResponse = errors.New("invalid server response")
)

// InvalidServerResponseError reports a body that could not be decoded as a
// JSON object. URL is the request that produced it.
type InvalidServerResponseError struct {
	URL string
	Err error
}

func (e *InvalidServerResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid server response from %q: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("invalid server response from %q", e.URL)
}

func (e *InvalidServerResponseError) Is(target error) bool {
	return target == ErrInvalidServerResponse
}

func (e *InvalidServerResponseError) Unwrap() error {
	return e.Err
}
