package completion

import (
	"errors"
	"fmt"

	"personawriter-backend/application/ports"
)

var (
	// ErrUnreachable indicates a transport-level failure: the provider was
	// never reached or the response never arrived.
	ErrUnreachable = errors.New("completion provider unreachable")

	// ErrMalformedResponse indicates the provider answered with a body that
	// did not decode as a completion envelope.
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrEmptyResult indicates a well-formed response with no choice or no
	// message text. It wraps ports.ErrNoContent, the variant the workflow
	// treats as a soft outcome rather than a provider failure.
	ErrEmptyResult = fmt.Errorf("completion returned no content: %w", ports.ErrNoContent)
)

// ProviderError is an explicit rejection by the provider: a non-success HTTP
// status with whatever body it sent. Distinguishing this from ErrUnreachable
// lets callers choose differentiated user messaging and future retry policy.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider rejected request: status %d", e.Status)
}
