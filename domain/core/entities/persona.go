package entities

import (
	"time"

	"github.com/google/uuid"

	"personawriter-backend/domain/core/valueobjects"
)

// Persona is a reusable authorial-voice profile owned by exactly one user.
// Personas are immutable once created: there is no update operation,
// replacement is delete-and-recreate.
type Persona struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Tone      string    `json:"tone"`
	Style     string    `json:"style"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPersona creates a persona owned by userID. The owner is always taken from
// the authenticated identity, never from client input.
func NewPersona(userID string, profile valueobjects.VoiceProfile) *Persona {
	return &Persona{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      profile.Name,
		Tone:      profile.Tone,
		Style:     profile.Style,
		Domain:    profile.Domain,
		CreatedAt: time.Now().UTC(),
	}
}

// Profile returns the persona's voice fields as a value copy.
func (p *Persona) Profile() valueobjects.VoiceProfile {
	return valueobjects.VoiceProfile{
		Name:   p.Name,
		Tone:   p.Tone,
		Style:  p.Style,
		Domain: p.Domain,
	}
}
