package clients

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when a search is attempted with an empty query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrEmptyText is returned when sentiment analysis is attempted on text
	// that is empty after trimming.
	ErrEmptyText = errors.New("text must not be empty")

	// ErrUnexpectedShape is returned when the inference endpoint responds with
	// a payload that cannot be normalized into a label/score pair.
	ErrUnexpectedShape = errors.New("unexpected sentiment response shape")
)

// UpstreamError carries the status and body of a non-2xx upstream response.
// The caller decides whether to retry, skip, or abort.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s error: status %d: %s", e.Service, e.StatusCode, e.Body)
}
