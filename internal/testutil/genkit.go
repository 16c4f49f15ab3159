package testutil

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/genkit"
)

// NewGenkit creates a plugin-free Genkit instance for tests. Models and
// tools are registered on it by the test itself, typically via MockLLM.
func NewGenkit(t *testing.T) *genkit.Genkit {
	t.Helper()
	return genkit.Init(context.Background())
}
