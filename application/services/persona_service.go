package services

import (
	"context"

	"go.uber.org/zap"

	"personawriter-backend/application/ports"
	"personawriter-backend/domain/core/entities"
	"personawriter-backend/domain/core/valueobjects"
)

// PersonaService implements persona lifecycle operations. Ownership is
// enforced here and in the repository: the authenticated identity is an
// explicit parameter of every operation, never a client-supplied field.
type PersonaService struct {
	personas ports.PersonaRepository
	logger   *zap.Logger
}

// NewPersonaService creates a persona service.
func NewPersonaService(personas ports.PersonaRepository, logger *zap.Logger) *PersonaService {
	return &PersonaService{personas: personas, logger: logger}
}

// Create stores a new persona owned by ownerID.
func (s *PersonaService) Create(ctx context.Context, ownerID string, profile valueobjects.VoiceProfile) (*entities.Persona, error) {
	persona := entities.NewPersona(ownerID, profile)
	if err := s.personas.Save(ctx, persona); err != nil {
		return nil, err
	}

	s.logger.Info("Persona created",
		zap.String("personaID", persona.ID),
		zap.String("userID", ownerID),
	)
	return persona, nil
}

// List returns the owner's personas, most recently created first.
func (s *PersonaService) List(ctx context.Context, ownerID string) ([]*entities.Persona, error) {
	return s.personas.FindByOwner(ctx, ownerID)
}

// Delete removes a persona by id. Both delete routes funnel into this single
// capability; the repository rejects deletion of a persona the caller does
// not own.
func (s *PersonaService) Delete(ctx context.Context, ownerID, personaID string) error {
	if err := s.personas.DeleteOwned(ctx, ownerID, personaID); err != nil {
		return err
	}

	s.logger.Info("Persona deleted",
		zap.String("personaID", personaID),
		zap.String("userID", ownerID),
	)
	return nil
}
