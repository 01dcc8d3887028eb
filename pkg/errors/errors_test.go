package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCodeAndOverridesMessage(t *testing.T) {
	clone := Clone(ErrValidation, "subject COMP2017 has no activities")

	assert.Equal(t, ErrValidation.Code, clone.Code)
	assert.Equal(t, http.StatusBadRequest, clone.Status)
	assert.Equal(t, "subject COMP2017 has no activities", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestClonedSentinelMatchesWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", Clone(ErrCacheMiss, ""))

	assert.True(t, stdErrors.Is(wrapped, ErrCacheMiss))
	assert.False(t, stdErrors.Is(wrapped, ErrNotFound))
}

func TestFromErrorNormalisesUnknownErrors(t *testing.T) {
	appErr := FromError(stdErrors.New("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Nil(t, FromError(nil))
}

func TestClonefFormatsMessage(t *testing.T) {
	clone := Clonef(ErrNotFound, "subjects not found: %s", "HIST9, MATH2")

	assert.Equal(t, ErrNotFound.Code, clone.Code)
	assert.Equal(t, "subjects not found: HIST9, MATH2", clone.Error())
	assert.True(t, stdErrors.Is(clone, ErrNotFound))
}
