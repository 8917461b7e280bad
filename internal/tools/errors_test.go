package tools

import (
	"errors"
	"testing"
)

func TestToolErrorType(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantRetry   bool
		wantMessage string
	}{
		{
			name:        "semantic error is retryable",
			err:         SemanticError("malformed patch"),
			wantRetry:   true,
			wantMessage: "malformed patch",
		},
		{
			name:        "runtime error is not retryable",
			err:         RuntimeError("disk full"),
			wantRetry:   false,
			wantMessage: "disk full",
		},
		{
			name:        "regular error is not retryable",
			err:         errors.New("some error"),
			wantRetry:   false,
			wantMessage: "some error",
		},
		{
			name:        "nil is not retryable",
			err:         nil,
			wantRetry:   false,
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsRetryable(tt.err)
			if got != tt.wantRetry {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.wantRetry)
			}

			if tt.err != nil && tt.err.Error() != tt.wantMessage {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestSemanticErrorWithDetails(t *testing.T) {
	err := SemanticErrorWithDetails("patch not applied", map[string]any{
		"applied": false,
	})

	if !IsRetryable(err) {
		t.Error("SemanticErrorWithDetails should be retryable")
	}

	json := err.ToJSON()
	if json["applied"] != false {
		t.Errorf("Expected applied=false, got %v", json["applied"])
	}
	if json["success"] != false {
		t.Errorf("Expected success=false, got %v", json["success"])
	}
	if json["error"] != "patch not applied" {
		t.Errorf("Expected error message, got %v", json["error"])
	}
}
