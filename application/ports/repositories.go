// Package ports declares the interfaces the application layer depends on.
// Infrastructure provides the implementations; handlers and services only see
// these contracts.
package ports

import (
	"context"
	"errors"
	"io"

	"personawriter-backend/domain/core/entities"
)

// ErrNoContent reports that the completion provider answered successfully but
// produced no text. It is not a hard provider failure; the workflow decides
// how to surface it.
var ErrNoContent = errors.New("completion produced no content")

// PersonaRepository persists persona profiles. Every operation is scoped to
// the owning user: a caller can only read, list, or delete personas they own.
type PersonaRepository interface {
	// Save stores a new persona. Personas are immutable; Save is never an
	// update.
	Save(ctx context.Context, persona *entities.Persona) error

	// FindByOwner lists the owner's personas, most recently created first.
	FindByOwner(ctx context.Context, ownerID string) ([]*entities.Persona, error)

	// FindByID looks a persona up by its identifier regardless of owner.
	// Returns a NOT_FOUND error when no such persona exists.
	FindByID(ctx context.Context, personaID string) (*entities.Persona, error)

	// DeleteOwned removes a persona after verifying it belongs to ownerID.
	// Returns NOT_FOUND when the persona does not exist and FORBIDDEN when it
	// belongs to someone else.
	DeleteOwned(ctx context.Context, ownerID, personaID string) error
}

// ArtifactRepository persists generation results.
type ArtifactRepository interface {
	// Save stores a new artifact.
	Save(ctx context.Context, artifact *entities.Artifact) error

	// FindRecentByOwner returns up to limit of the owner's artifacts, newest
	// first by stored creation timestamp.
	FindRecentByOwner(ctx context.Context, ownerID string, limit int) ([]*entities.Artifact, error)

	// DeleteAllByOwner removes every artifact belonging to ownerID and
	// returns the number deleted. There is no per-item delete.
	DeleteAllByOwner(ctx context.Context, ownerID string) (int, error)
}

// CompletionProvider is the external chat-completion service. A single
// synchronous attempt per invocation: no retry, no streaming. Failures are
// the typed variants declared by the implementing package so callers can
// distinguish "provider rejected" from "provider unreachable".
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	ExtractText(r io.ReaderAt, size int64) (string, error)
}
