package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncompleteExamError(t *testing.T) {
	err := &IncompleteExamError{VariantID: 3, TaskIndex: 1, TaskCount: 4}

	assert.Equal(t, "exam on variant 3 left at task 2 of 4", err.Error())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitSuccess},
		{"incomplete exam", &IncompleteExamError{VariantID: 1, TaskCount: 2}, ExitExamIncomplete},
		{"wrapped incomplete exam", fmt.Errorf("run: %w", &IncompleteExamError{}), ExitExamIncomplete},
		{"joined incomplete exam", errors.Join(&IncompleteExamError{}, errors.New("additional context")), ExitExamIncomplete},
		{"regular error", errors.New("config error"), ExitError},
		{"reported error", &reportedError{err: errors.New("failed to load tasks")}, ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestAlreadyReported(t *testing.T) {
	inner := errors.New("catalog unavailable")
	reported := &reportedError{err: inner}

	assert.True(t, alreadyReported(reported))
	assert.True(t, alreadyReported(fmt.Errorf("run: %w", reported)))
	assert.False(t, alreadyReported(inner))
	assert.ErrorIs(t, reported, inner)
	assert.Equal(t, inner.Error(), reported.Error())
}
