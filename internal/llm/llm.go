/*
Package llm contains the upstream language-model clients. Both providers
expose the same TextGenerator interface and classify failures into the shared
error taxonomy so the plan proxy can map them to HTTP codes without knowing
which provider is configured.
*/
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TextGenerator generates free text from a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrNotConfigured means no API key is set for the selected provider.
	ErrNotConfigured = errors.New("llm: api key not configured")

	// ErrUnavailable covers transport-level failures: connection refused,
	// DNS failure, reset mid-response.
	ErrUnavailable = errors.New("llm: upstream unavailable")

	// ErrTimeout means the bounded upstream call deadline elapsed.
	ErrTimeout = errors.New("llm: upstream timeout")

	// ErrProtocol means the upstream envelope could not be deserialized.
	ErrProtocol = errors.New("llm: malformed upstream response")

	// ErrEmpty means the envelope deserialized fine but carried no text.
	// Success-with-garbage is a failure, never surfaced as a valid plan.
	ErrEmpty = errors.New("llm: empty generation")
)

// UpstreamStatusError propagates a non-2xx upstream status to the caller.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("llm: upstream returned status %d: %s", e.StatusCode, e.Body)
}

// classifyTransportErr folds a failed http.Client.Do error into the taxonomy.
func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		// Caller went away; propagate as-is so nothing is logged as a failure.
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
