// Package prompt compiles persona profiles into completion-provider
// instructions. Compilation is a pure formatting step: it is deterministic,
// side-effect free, and total over its inputs — missing profile fields render
// as empty under their labels rather than failing.
package prompt

import (
	"fmt"

	"personawriter-backend/domain/core/valueobjects"
)

const template = `You are an AI writer helping generate a %s on the topic %q.
Use the following persona:
- Name: %s
- Tone: %s
- Style: %s
- Domain: %s
Make sure your response matches this voice and style.
`

// Compile builds the instruction string for one generation request. Identical
// inputs always yield a byte-identical result: no timestamps, no randomness.
// templateKind and topic are interpolated verbatim; prompt-injection defense
// is explicitly out of scope.
func Compile(profile valueobjects.VoiceProfile, templateKind valueobjects.TemplateKind, topic string) string {
	return fmt.Sprintf(template,
		templateKind,
		topic,
		profile.Name,
		profile.Tone,
		profile.Style,
		profile.Domain,
	)
}
