package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("handler: %w", ErrRateLimited)
	assert.Same(t, ErrRateLimited, FromError(wrapped))

	plain := stderrors.New("disk on fire")
	got := FromError(plain)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.ErrorIs(t, got, plain)
	assert.Equal(t, "internal server error: disk on fire", got.Error())
}

func TestCloneAndDetails(t *testing.T) {
	c := Clone(ErrValidation, "days[0]: bad break")
	assert.Equal(t, "days[0]: bad break", c.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)

	d := WithDetails(ErrValidation, []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, d.Details)
	assert.Nil(t, ErrValidation.Details)
	assert.Nil(t, WithDetails(nil, 1))
}
