package audit

import (
	"errors"
	"fmt"
)

var (
	// ErrWebhookURLEmpty indicates the webhook URL is not configured
	ErrWebhookURLEmpty = errors.New("audit webhook URL not configured")

	// ErrMarshalMessage indicates message serialization failed
	ErrMarshalMessage = errors.New("failed to serialize audit message")

	// ErrSendRequest indicates the HTTP request could not be sent
	ErrSendRequest = errors.New("failed to send audit request")
)

// HTTPError represents a non-2xx webhook response
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("audit webhook failed: %d %s, response: %s", e.StatusCode, e.Status, e.Body)
}

// RetryError is returned once all attempts are exhausted
type RetryError struct {
	Attempts int
	LastErr  error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("failed to deliver audit message after %d attempts: %v", e.Attempts, e.LastErr)
}

// Unwrap supports errors.Unwrap
func (e *RetryError) Unwrap() error {
	return e.LastErr
}
