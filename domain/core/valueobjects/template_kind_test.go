package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateKindKnown(t *testing.T) {
	for _, k := range TemplateKinds {
		assert.True(t, k.Known(), "expected %q to be known", k)
	}

	assert.False(t, TemplateKind("Haiku").Known())
	assert.False(t, TemplateKind("").Known())
}
