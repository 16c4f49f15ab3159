// Package tools provides the wishlist tools the assistant model can invoke.
//
// Three tools are exposed: createItem, queryItems, and toggleItem. Each is
// registered with Genkit through a typed input struct, and each returns a
// Result rather than a Go error for domain failures (duplicates, no match,
// validation) so the model can read the outcome and phrase a reply. Go
// errors are reserved for infrastructure faults.
//
// Caller identity is never a tool parameter. The API layer stores the
// authenticated owner ID in the request context via ContextWithOwnerID, and
// every handler scopes its store calls to that owner.
package tools

import "fmt"

// Result is the uniform outcome envelope of every tool execution.
//
// Success=false with a populated Error is a domain-level refusal (duplicate
// found, nothing matched, bad input), not a failure of the tool machinery.
// Message is always set and written for the model to relay to the user.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// success builds a successful Result.
func success(data any, format string, args ...any) Result {
	return Result{
		Success: true,
		Data:    data,
		Message: fmt.Sprintf(format, args...),
	}
}

// failure builds a refused Result. Data may carry structured context such as
// the list of similar items that triggered a duplicate refusal.
func failure(data any, errMsg string, format string, args ...any) Result {
	return Result{
		Success: false,
		Data:    data,
		Message: fmt.Sprintf(format, args...),
		Error:   errMsg,
	}
}
