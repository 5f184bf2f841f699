// Package fixtures provides in-memory doubles for the application's ports.
package fixtures

import (
	"context"
	"io"
	"sort"
	"sync"

	"personawriter-backend/domain/core/entities"
	apperrors "personawriter-backend/pkg/errors"
)

// InMemoryPersonaRepository is a map-backed ports.PersonaRepository with the
// same ownership and ordering semantics as the DynamoDB implementation.
type InMemoryPersonaRepository struct {
	mu       sync.Mutex
	personas map[string]*entities.Persona

	// SaveErr, when set, is returned by Save.
	SaveErr error
}

// NewInMemoryPersonaRepository creates an empty repository.
func NewInMemoryPersonaRepository() *InMemoryPersonaRepository {
	return &InMemoryPersonaRepository{personas: make(map[string]*entities.Persona)}
}

func (r *InMemoryPersonaRepository) Save(ctx context.Context, persona *entities.Persona) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *persona
	r.personas[persona.ID] = &copied
	return nil
}

func (r *InMemoryPersonaRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entities.Persona, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Persona
	for _, p := range r.personas {
		if p.UserID == ownerID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryPersonaRepository) FindByID(ctx context.Context, personaID string) (*entities.Persona, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.personas[personaID]
	if !ok {
		return nil, apperrors.NewNotFound("persona not found")
	}
	copied := *p
	return &copied, nil
}

func (r *InMemoryPersonaRepository) DeleteOwned(ctx context.Context, ownerID, personaID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.personas[personaID]
	if !ok {
		return apperrors.NewNotFound("persona not found")
	}
	if p.UserID != ownerID {
		return apperrors.NewForbidden("persona belongs to another user")
	}
	delete(r.personas, personaID)
	return nil
}

// InMemoryArtifactRepository is a slice-backed ports.ArtifactRepository.
type InMemoryArtifactRepository struct {
	mu        sync.Mutex
	artifacts []*entities.Artifact

	// SaveErr, when set, is returned by Save.
	SaveErr error
}

// NewInMemoryArtifactRepository creates an empty repository.
func NewInMemoryArtifactRepository() *InMemoryArtifactRepository {
	return &InMemoryArtifactRepository{}
}

func (r *InMemoryArtifactRepository) Save(ctx context.Context, artifact *entities.Artifact) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *artifact
	r.artifacts = append(r.artifacts, &copied)
	return nil
}

func (r *InMemoryArtifactRepository) FindRecentByOwner(ctx context.Context, ownerID string, limit int) ([]*entities.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Artifact
	for _, a := range r.artifacts {
		if a.UserID == ownerID {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryArtifactRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entities.Artifact
	deleted := 0
	for _, a := range r.artifacts {
		if a.UserID == ownerID {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.artifacts = kept
	return deleted, nil
}

// Count returns the number of stored artifacts across all owners.
func (r *InMemoryArtifactRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.artifacts)
}

// StubProvider is a canned ports.CompletionProvider.
type StubProvider struct {
	Response string
	Err      error

	mu      sync.Mutex
	prompts []string
}

func (p *StubProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()
	if p.Err != nil {
		return "", p.Err
	}
	return p.Response, nil
}

// Prompts returns every prompt the stub received.
func (p *StubProvider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

// StubExtractor is a canned ports.TextExtractor.
type StubExtractor struct {
	Text string
	Err  error
}

func (e *StubExtractor) ExtractText(r io.ReaderAt, size int64) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return e.Text, nil
}
