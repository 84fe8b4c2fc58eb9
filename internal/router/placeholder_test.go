package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    []string
	}{
		{pattern: "/items", want: []string{}},
		{pattern: "/event/<id>", want: []string{"id"}},
		{pattern: "/<a>/x/<b_2>.html", want: []string{"a", "b_2"}},
		{pattern: "/<a><b>", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Placeholders(tt.pattern))
		})
	}
}

func TestSpecificity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    int
	}{
		{pattern: "", want: 0},
		{pattern: "/user/settings", want: 14},
		{pattern: "/user/<id>", want: 9},
		{pattern: "/user/<identifier>", want: 9},
		{pattern: "/<a>/<b>", want: 8},
		{pattern: "/straße", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Specificity(tt.pattern))
		})
	}

	assert.Greater(t, Specificity("/user/settings"), Specificity("/user/<id>"))
}

func TestCheckWellFormed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		wantErr bool
	}{
		{pattern: "/event/<id>", wantErr: false},
		{pattern: "", wantErr: false},
		{pattern: "/event/<id", wantErr: true},
		{pattern: "/event/id>", wantErr: true},
		{pattern: "/event/<>", wantErr: true},
		{pattern: "/event/<i d>", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			err := checkWellFormed(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckUnique(t *testing.T) {
	t.Parallel()

	assert.NoError(t, checkUnique("/<a>/<b>"))
	assert.Error(t, checkUnique("/<a>/<a>"))
}
