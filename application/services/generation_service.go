package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"personawriter-backend/application/ports"
	"personawriter-backend/domain/core/entities"
	"personawriter-backend/domain/core/valueobjects"
	"personawriter-backend/domain/prompt"
	apperrors "personawriter-backend/pkg/errors"
	"personawriter-backend/pkg/observability"
)

// DefaultHistoryLimit bounds the history listing.
const DefaultHistoryLimit = 10

// NoContentResult is returned in place of generated text when the provider
// answers successfully but produces nothing. An empty answer is a normal
// outcome for the caller, not a failure.
const NoContentResult = "❌ No content returned."

// GenerateRequest carries one generation invocation. The persona is passed by
// value: the workflow never reads it back from storage, so a caller may
// generate from a persona snapshot that was since deleted.
type GenerateRequest struct {
	Persona  valueobjects.VoiceProfile
	Template valueobjects.TemplateKind
	Topic    string
}

// GenerationService orchestrates prompt compilation, the completion provider
// call, and artifact persistence. Generation success and save success are
// deliberately decoupled: a caller that wants durability confirmation must
// inspect the history listing separately.
type GenerationService struct {
	provider  ports.CompletionProvider
	artifacts ports.ArtifactRepository
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewGenerationService creates a generation service.
func NewGenerationService(
	provider ports.CompletionProvider,
	artifacts ports.ArtifactRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		provider:  provider,
		artifacts: artifacts,
		metrics:   metrics,
		logger:    logger,
	}
}

// Generate compiles the prompt and invokes the completion provider, without
// persisting anything. An empty provider answer yields NoContentResult with
// no error; every other failure variant collapses to one EXTERNAL error at
// this boundary, with the variant logged for diagnosis.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	compiled := prompt.Compile(req.Persona, req.Template, req.Topic)

	start := time.Now()
	content, err := s.provider.Complete(ctx, compiled)
	s.metrics.RecordLatency(ctx, "CompletionLatency", time.Since(start), nil)

	if err != nil {
		if errors.Is(err, ports.ErrNoContent) {
			s.metrics.IncrementCounter(ctx, "GenerationEmpty", nil)
			s.logger.Warn("Completion provider returned no content",
				zap.String("template", req.Template.String()),
				zap.String("topic", req.Topic),
			)
			return NoContentResult, nil
		}

		s.metrics.IncrementCounter(ctx, "GenerationFailed", nil)
		s.logger.Error("Completion provider call failed",
			zap.Error(err),
			zap.String("template", req.Template.String()),
			zap.String("topic", req.Topic),
		)
		return "", apperrors.NewExternal("content generation failed", err)
	}

	s.metrics.IncrementCounter(ctx, "GenerationSucceeded", nil)
	return content, nil
}

// GenerateAndRecord runs the full workflow: compile, complete, then persist an
// artifact for ownerID. Persistence failure is logged and swallowed — the
// generated content is returned regardless, so a provider success never turns
// into a caller-visible failure because of a storage hiccup. No artifact is
// written when generation itself fails.
func (s *GenerationService) GenerateAndRecord(ctx context.Context, ownerID string, req GenerateRequest) (string, error) {
	content, err := s.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	if _, err := s.Record(ctx, ownerID, req, content); err != nil {
		s.logger.Error("Generated content could not be recorded",
			zap.Error(err),
			zap.String("userID", ownerID),
			zap.String("topic", req.Topic),
		)
	}

	return content, nil
}

// Record persists a generation result the caller already holds. This is the
// explicit save path behind POST /saveGenerated.
func (s *GenerationService) Record(ctx context.Context, ownerID string, req GenerateRequest, content string) (*entities.Artifact, error) {
	artifact := entities.NewArtifact(ownerID, req.Persona, req.Template.String(), req.Topic, content)
	if err := s.artifacts.Save(ctx, artifact); err != nil {
		return nil, err
	}

	s.logger.Info("Artifact recorded",
		zap.String("artifactID", artifact.ID),
		zap.String("userID", ownerID),
		zap.String("template", artifact.Template),
	)
	return artifact, nil
}

// History returns up to limit of the owner's artifacts, newest first. A
// non-positive limit falls back to DefaultHistoryLimit.
func (s *GenerationService) History(ctx context.Context, ownerID string, limit int) ([]*entities.Artifact, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.artifacts.FindRecentByOwner(ctx, ownerID, limit)
}

// ClearHistory deletes all of the owner's artifacts and returns the count.
func (s *GenerationService) ClearHistory(ctx context.Context, ownerID string) (int, error) {
	deleted, err := s.artifacts.DeleteAllByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("History cleared",
		zap.String("userID", ownerID),
		zap.Int("deleted", deleted),
	)
	return deleted, nil
}
