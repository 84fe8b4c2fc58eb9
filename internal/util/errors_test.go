package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		field          string
		message        string
		cause          error
		expectedString string
	}{
		{
			name:           "with field",
			field:          "event.pattern",
			message:        "pattern is required",
			expectedString: "config error at event.pattern: pattern is required",
		},
		{
			name:           "without field",
			message:        "routes file is empty",
			expectedString: "config error: routes file is empty",
		},
		{
			name:           "with cause",
			field:          "routes",
			message:        "failed to read",
			cause:          errors.New("permission denied"),
			expectedString: "config error at routes: failed to read: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var err *ConfigError
			if tt.cause != nil {
				err = NewConfigErrorWithCause(tt.field, tt.message, tt.cause)
			} else {
				err = NewConfigError(tt.field, tt.message)
			}

			assert.Equal(t, tt.expectedString, err.Error())
			assert.Equal(t, tt.cause, err.Unwrap())
			assert.True(t, errors.Is(err, ErrConfigInvalid))
		})
	}
}

func TestConfigError_IsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := fmt.Errorf("loading: %w", NewConfigErrorWithCause("routes", "failed", cause))

	assert.ErrorIs(t, err, cause)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "routes", cfgErr.Field)
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("invalid service configuration")
	assert.False(t, err.HasErrors())
	assert.Equal(t, "validation error: invalid service configuration", err.Error())

	err.AddField("server.address", "must not be empty")
	err.AddField("cache.type", "unknown backend")

	assert.True(t, err.HasErrors())
	assert.Equal(t,
		"validation error: invalid service configuration "+
			"(cache.type: unknown backend; server.address: must not be empty)",
		err.Error())
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestRouteNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewRouteNotFoundError("/nowhere")

	assert.Equal(t, `no route found for path "/nowhere"`, err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnknownRoute)
}

func TestUnknownRouteError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `unknown route "missing"`, NewUnknownRouteError("missing").Error())
	assert.Equal(t, "empty route name", NewUnknownRouteError("").Error())
	assert.ErrorIs(t, NewUnknownRouteError("x"), ErrUnknownRoute)
	assert.NotErrorIs(t, NewUnknownRouteError("x"), ErrNotFound)
}
