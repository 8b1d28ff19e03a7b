package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading dataset: %w", NotFound("object %q not found", "x"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, `loading dataset: object "x" not found`, err.Error())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("sessionId and message are required")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Upstream(errors.New("503"), "model call failed")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(NotFound("missing")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestErrorMessageWithCause(t *testing.T) {
	err := Internal(errors.New("disk full"), "write dataset")
	assert.Equal(t, "write dataset: disk full", err.Error())
	assert.Equal(t, "disk full", errors.Unwrap(err).Error())
}
