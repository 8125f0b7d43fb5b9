package service

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrCannotFollowSelf, ErrForbidden},
		{ErrBlocked, ErrForbidden},
		{ErrUserNotFound, ErrNotFound},
		{ErrCommentTooLong, ErrValidation},
		{ErrCommentRestricted, ErrForbidden},
		{ErrParentDeleted, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.True(t, errors.Is(tt.err, tt.err))
			assert.False(t, errors.Is(tt.err, ErrUnauthenticated))
		})
	}
}

func TestWrappedErrorKeepsKind(t *testing.T) {
	err := errors.Wrap(ErrVideoNotFound, "create comment")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, ErrVideoNotFound))
	assert.False(t, errors.Is(err, ErrCommentNotFound))
}
