package tools

import "fmt"

// ToolErrorType classifies tool errors for the host's retry decisions
type ToolErrorType int

const (
	// ToolErrorRuntime - Tool executed but failed (file not found, I/O error, etc.)
	// The error goes to history; the LLM should see and handle it
	ToolErrorRuntime ToolErrorType = iota

	// ToolErrorSemantic - LLM misused the tool (malformed patch, bad arguments)
	// The host may discard and retry; the LLM should have known better
	ToolErrorSemantic
)

// ToolError is an error type that classifies errors as runtime or semantic
type ToolError struct {
	Type    ToolErrorType
	Message string
	Details map[string]any // Optional structured data for LLM
}

// Error implements the error interface
func (e *ToolError) Error() string {
	return e.Message
}

// ToJSON returns the error as a structured tool result
func (e *ToolError) ToJSON() map[string]any {
	result := map[string]any{
		"success": false,
		"error":   e.Message,
	}
	for k, v := range e.Details {
		result[k] = v
	}
	return result
}

// RuntimeError creates a runtime error
// Use for: file system errors, provider failures
func RuntimeError(msg string) *ToolError {
	return &ToolError{Type: ToolErrorRuntime, Message: msg}
}

// RuntimeErrorf creates a formatted runtime error
func RuntimeErrorf(format string, args ...any) *ToolError {
	return &ToolError{Type: ToolErrorRuntime, Message: fmt.Sprintf(format, args...)}
}

// SemanticError creates a semantic error
// Use for: malformed patch text, invalid arguments
func SemanticError(msg string) *ToolError {
	return &ToolError{Type: ToolErrorSemantic, Message: msg}
}

// SemanticErrorf creates a formatted semantic error
func SemanticErrorf(format string, args ...any) *ToolError {
	return &ToolError{Type: ToolErrorSemantic, Message: fmt.Sprintf(format, args...)}
}

// SemanticErrorWithDetails creates a semantic error with structured details
func SemanticErrorWithDetails(msg string, details map[string]any) *ToolError {
	return &ToolError{Type: ToolErrorSemantic, Message: msg, Details: details}
}

// IsRetryable checks if an error came from LLM misuse rather than the
// environment
func IsRetryable(err error) bool {
	if te, ok := err.(*ToolError); ok {
		return te.Type == ToolErrorSemantic
	}
	return false
}
