package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_YAML(t *testing.T) {
	t.Parallel()

	var v struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 1h30m\n"), &v))
	assert.Equal(t, 90*time.Minute, v.D.Duration())

	require.NoError(t, yaml.Unmarshal([]byte("d: \"\"\n"), &v))
	assert.Zero(t, v.D)

	assert.Error(t, yaml.Unmarshal([]byte("d: later\n"), &v))
	assert.Error(t, yaml.Unmarshal([]byte("d: [1]\n"), &v))

	out, err := yaml.Marshal(struct {
		D Duration `yaml:"d"`
	}{D: Duration(300 * time.Millisecond)})
	require.NoError(t, err)
	assert.Equal(t, "d: 300ms\n", string(out))
}

func TestDuration_JSON(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"5s"`), &d))
	assert.Equal(t, 5*time.Second, d.Duration())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.Zero(t, d)

	assert.Error(t, json.Unmarshal([]byte(`"forever"`), &d))

	out, err := json.Marshal(Duration(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(out))
}
