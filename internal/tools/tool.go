// Package tools exposes the patch engine as a host-callable tool with a JSON
// argument schema, for embedding in an agent loop.
package tools

import (
	"context"
	"encoding/json"
)

// Tool is the interface all tools must implement
type Tool interface {
	// Name returns the tool identifier (e.g., "apply_patch")
	Name() string

	// Description returns a human-readable description for the LLM
	Description() string

	// JSONSchema returns the OpenAI-compatible function schema
	JSONSchema() map[string]any

	// Check performs validation before execution
	// Returns error if the tool should not be executed
	Check(ctx context.Context, args json.RawMessage) error

	// Call executes the tool with the given arguments
	// Check should be called before Call
	Call(ctx context.Context, args json.RawMessage) (any, error)

	// PromptSection returns detailed usage documentation for the system prompt.
	// Returns empty string if no additional documentation is needed.
	PromptSection() string
}
