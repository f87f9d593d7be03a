package redact_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/account-service/internal/redact"
	"github.com/stretchr/testify/assert"
)

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no sensitive data",
			input:    "Account with ID 5 not found",
			expected: "Account with ID 5 not found",
		},
		{
			name:     "prose mentioning an operation",
			input:    "failed to update account name: connection reset",
			expected: "failed to update account name: connection reset",
		},
		{
			name:     "postgres connection string",
			input:    "dial tcp: connect to postgres://app:s3cret@db:5432/accounts failed",
			expected: "dial tcp: connect to [REDACTED_CREDENTIAL]db:5432/accounts failed",
		},
		{
			name:     "redis connection string",
			input:    "redis://:hunter22@cache:6379/0 refused",
			expected: "[REDACTED_CREDENTIAL]cache:6379/0 refused",
		},
		{
			name:     "password parameter",
			input:    "auth failed: password=hunter22 rejected",
			expected: "auth failed: [REDACTED_CREDENTIAL] rejected",
		},
		{
			name:     "secret parameter",
			input:    "bad config secret: abcdef123",
			expected: "bad config [REDACTED_KEY]",
		},
		{
			name:     "sql statement",
			input:    "query failed: UPDATE users SET name = 'x' WHERE id = 1",
			expected: "query failed: [REDACTED_SQL]",
		},
		{
			name:     "file path",
			input:    "open /etc/account-service/config.yaml: permission denied",
			expected: "open [REDACTED_PATH]: permission denied",
		},
		{
			name:     "stack trace",
			input:    "panic: boom\ngoroutine 1 [running]:\nmain.main()\n\t/app/main.go:42",
			expected: "[STACK_TRACE_REDACTED]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, redact.String(tt.input))
		})
	}
}

func TestRedactError(t *testing.T) {
	assert.Equal(t, "", redact.Error(nil))

	inner := errors.New("connect to postgres://app:s3cret@db:5432/accounts")
	err := fmt.Errorf("failed to open database: %w", inner)

	got := redact.Error(err)
	assert.NotContains(t, got, "s3cret")
	assert.Contains(t, got, "failed to open database")
}

func TestAttr(t *testing.T) {
	attr := redact.Attr(errors.New("password=hunter22"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "[REDACTED_CREDENTIAL]", attr.Value.String())
}
