package entities

import (
	"time"

	"github.com/google/uuid"

	"personawriter-backend/domain/core/valueobjects"
)

// Artifact is a persisted record of one generation result. The persona is an
// embedded value snapshot taken at generation time; it does not track later
// edits or deletion of the source persona.
type Artifact struct {
	ID        string                    `json:"id"`
	UserID    string                    `json:"userId"`
	Persona   valueobjects.VoiceProfile `json:"persona"`
	Topic     string                    `json:"topic"`
	Template  string                    `json:"template"`
	Content   string                    `json:"content"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// NewArtifact records a generation result for userID.
func NewArtifact(userID string, persona valueobjects.VoiceProfile, template, topic, content string) *Artifact {
	return &Artifact{
		ID:        uuid.New().String(),
		UserID:    userID,
		Persona:   persona,
		Topic:     topic,
		Template:  template,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
