package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	id := uuid.New()
	err := fmt.Errorf("load: %w", NotFound(ReasonMedia, id))

	assert.ErrorIs(t, err, ErrMediaNotFound)
	assert.NotErrorIs(t, err, ErrProjectNotFound)
	assert.Contains(t, err.Error(), id.String())
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", ErrRequestNotFound, KindNotFound},
		{"null id", ErrNullID, KindInvalidArgument},
		{"duplicate", fmt.Errorf("x: %w", ErrDuplicatePath), KindConflict},
		{"state", ErrRequestNotOpen, KindInvalidState},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unique_violation")
	err := Wrap(ErrDuplicatePath, cause)

	assert.ErrorIs(t, err, ErrDuplicatePath)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ReasonDuplicatePath, ReasonOf(err))
	assert.Equal(t, ReasonUnknown, ReasonOf(cause))
}
