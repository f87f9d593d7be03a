package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: true},
		{name: "ErrAccountNotFound", err: ErrAccountNotFound, expected: true},
		{
			name:     "wrapped ErrAccountNotFound",
			err:      fmt.Errorf("failed to find account: %w", ErrAccountNotFound),
			expected: true,
		},
		{name: "version conflict", err: ErrVersionConflict, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestEntityNotFoundErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrUserNotFound, ErrAccountNotFound))
	assert.False(t, errors.Is(ErrAccountNotFound, ErrUserNotFound))
	assert.Equal(t, "entity not found: user", ErrUserNotFound.Error())
}

func TestIsConflictError(t *testing.T) {
	assert.True(t, IsConflictError(fmt.Errorf("rename: %w", ErrVersionConflict)))
	assert.False(t, IsConflictError(ErrUserNotFound))
	assert.False(t, IsConflictError(nil))
}
