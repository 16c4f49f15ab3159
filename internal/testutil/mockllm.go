package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// MockLLM provides deterministic model responses for testing.
// It matches the last user message against registered patterns and returns
// the corresponding response, optionally requesting tool calls first.
//
// Thread-safe for concurrent use.
type MockLLM struct {
	mu        sync.Mutex
	responses []mockRule
	fallback  string
	calls     []MockCall
}

type mockRule struct {
	pattern  string            // substring match in user message
	response string            // text response
	tools    []*ai.ToolRequest // tool calls to request (nil = text only)
	consumed bool              // one-shot rules are skipped after first match
	oneShot  bool
}

// MockCall records a single call to the mock model.
type MockCall struct {
	UserMessage string // last user message text
	Response    string // response text returned
}

// NewMockLLM creates a mock model with the given fallback response.
// The fallback is returned when no pattern matches.
func NewMockLLM(fallback string) *MockLLM {
	return &MockLLM{fallback: fallback}
}

// AddResponse registers a pattern-response pair. When a user message
// contains the pattern (case-insensitive), the response is returned.
// Patterns are checked in registration order; first match wins.
func (m *MockLLM) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// AddToolResponse registers a pattern that triggers tool calls. The rule is
// one-shot: after the tools run, the model's follow-up generation falls
// through to later rules or the fallback instead of looping on the tools.
func (m *MockLLM) AddToolResponse(pattern string, tools []*ai.ToolRequest, textResponse string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockRule{
		pattern:  strings.ToLower(pattern),
		response: textResponse,
		tools:    tools,
		oneShot:  true,
	})
}

// Calls returns a copy of all recorded calls.
func (m *MockLLM) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]MockCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// Reset clears recorded calls and re-arms one-shot rules.
func (m *MockLLM) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	for i := range m.responses {
		m.responses[i].consumed = false
	}
}

// RegisterModel registers the mock as a Genkit model and returns a
// reference. The model name is "mock/test-model".
func (m *MockLLM) RegisterModel(g *genkit.Genkit) ai.Model {
	return genkit.DefineModel(g, "mock/test-model", &ai.ModelOptions{
		Label: "Mock Test Model",
		Supports: &ai.ModelSupports{
			Multiturn:  true,
			Tools:      true,
			SystemRole: true,
			Media:      false,
		},
	}, m.generate)
}

// generate is the Genkit model function.
func (m *MockLLM) generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	var userText string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == ai.RoleUser {
			userText = req.Messages[i].Text()
			break
		}
	}

	m.mu.Lock()
	var matched *mockRule
	lower := strings.ToLower(userText)
	for i := range m.responses {
		if m.responses[i].consumed {
			continue
		}
		if strings.Contains(lower, m.responses[i].pattern) {
			matched = &m.responses[i]
			if matched.oneShot {
				matched.consumed = true
			}
			break
		}
	}

	responseText := m.fallback
	if matched != nil {
		responseText = matched.response
	}

	m.calls = append(m.calls, MockCall{
		UserMessage: userText,
		Response:    responseText,
	})
	m.mu.Unlock()

	if cb != nil && responseText != "" {
		_ = cb(ctx, &ai.ModelResponseChunk{
			Content: []*ai.Part{ai.NewTextPart(responseText)},
		})
	}

	var parts []*ai.Part
	if matched != nil && len(matched.tools) > 0 {
		for _, tr := range matched.tools {
			parts = append(parts, &ai.Part{
				Kind:        ai.PartToolRequest,
				ToolRequest: tr,
			})
		}
	}
	parts = append(parts, ai.NewTextPart(responseText))

	return &ai.ModelResponse{
		Request: req,
		Message: &ai.Message{
			Role:    ai.RoleModel,
			Content: parts,
		},
	}, nil
}
