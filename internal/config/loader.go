package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fem/sPof-sub000/internal/util"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

const escapedDollar = "\x00ESCAPED_DOLLAR\x00"

// LoadRoutes reads, substitutes and validates a routes file.
func LoadRoutes(path string) (*RouteSet, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, util.NewConfigErrorWithCause("routes", "failed to read routes file "+path, err)
	}

	set, err := ParseRoutes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ParseRoutes decodes and validates routes YAML.
func ParseRoutes(data []byte) (*RouteSet, error) {
	content := substituteEnvVars(string(data))
	if strings.TrimSpace(content) == "" {
		return nil, util.NewConfigError("routes", "routes file is empty")
	}

	var set RouteSet
	if err := yaml.Unmarshal([]byte(content), &set); err != nil {
		return nil, util.NewConfigErrorWithCause("routes", "failed to parse YAML", err)
	}

	if err := ValidateRoutes(&set); err != nil {
		return nil, err
	}
	return &set, nil
}

// LoadServiceConfig reads a service configuration file on top of the
// defaults. A relative routes path is resolved against the directory
// of the configuration file.
func LoadServiceConfig(path string) (*ServiceConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, util.NewConfigErrorWithCause("config", "failed to read config file "+path, err)
	}

	cfg, err := ParseServiceConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.Routes != "" && !filepath.IsAbs(cfg.Routes) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		cfg.Routes = filepath.Join(filepath.Dir(absPath), cfg.Routes)
	}
	return cfg, nil
}

// ParseServiceConfig decodes service configuration YAML over
// DefaultServiceConfig and validates the result.
func ParseServiceConfig(data []byte) (*ServiceConfig, error) {
	cfg := DefaultServiceConfig()

	content := substituteEnvVars(string(data))
	if strings.TrimSpace(content) != "" {
		dec := yaml.NewDecoder(bytes.NewReader([]byte(content)))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, util.NewConfigErrorWithCause("config", "failed to parse YAML", err)
		}
	}

	if err := ValidateServiceConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) ([]byte, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(absPath) //nolint:gosec // operator-supplied path
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} with environment
// values. $$ produces a literal dollar sign.
func substituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", escapedDollar)

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""
		if len(submatches) >= 3 {
			defaultValue = submatches[2]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return defaultValue
	})

	return strings.ReplaceAll(result, escapedDollar, "$")
}
