package errx_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kira-carbon/server/internal/core/errx"
)

func TestAppError(t *testing.T) {
	base := errors.New("boom")
	appErr := errx.New(base, http.StatusBadGateway, "upstream failed")

	assert.Equal(t, "upstream failed: boom", appErr.Error())
	assert.ErrorIs(t, appErr, base)

	var target *errx.AppError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", appErr), &target)
	assert.Equal(t, http.StatusBadGateway, target.Status)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error carries its status", errx.New(nil, http.StatusTeapot, "x"), http.StatusTeapot},
		{"not found", fmt.Errorf("ctx: %w", errx.ErrNotFound), http.StatusNotFound},
		{"incomplete profile", errx.ErrIncompleteProfile, http.StatusUnprocessableEntity},
		{"extraction", errx.ErrExtractionFailed, http.StatusBadGateway},
		{"categorization", errx.ErrCategorizationFailed, http.StatusBadGateway},
		{"generation", errx.ErrGenerationFailed, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errx.StatusOf(tt.err))
		})
	}
}

func TestWrapRedis(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, errx.WrapRedis(nil))
	})

	t.Run("redis.Nil maps to not found", func(t *testing.T) {
		err := errx.WrapRedis(redis.Nil)
		assert.ErrorIs(t, err, errx.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, errx.StatusOf(err))
	})

	t.Run("other failures map to bad gateway", func(t *testing.T) {
		err := errx.WrapRedis(errors.New("connection refused"))
		assert.Equal(t, http.StatusBadGateway, errx.StatusOf(err))
	})
}
