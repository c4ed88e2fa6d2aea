// Package config manages taxgen settings via viper.
//
// Settings are resolved with the following precedence, highest first:
//
//  1. Explicit Set calls (bound command-line flags)
//  2. Environment variables (TAXGEN_*)
//  3. Profile overrides from .taxgen/profiles.toml (see profiles.go)
//  4. The project config file .taxgen/config.yaml
//  5. Built-in defaults
//
// The package keeps a single viper instance; all getters are safe to
// call before Initialize and return zero values in that case.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/formfield/taxgen/internal/taxonomy"
)

// v is the package-level viper instance, nil until Initialize runs.
var v *viper.Viper

// Initialize builds a fresh viper instance: defaults, TAXGEN_*
// environment bindings, and the project config file if one is found.
// Each call rebuilds the instance from scratch, so it is safe to call
// again after the environment changes.
func Initialize() error {
	v = viper.New()

	v.SetDefault("endpoint", "")
	v.SetDefault("query", taxonomy.DefaultQuery)
	v.SetDefault("query-file", "")
	v.SetDefault("timeout", taxonomy.DefaultTimeout)
	v.SetDefault("output-dir", "options")
	v.SetDefault("package", "options")
	v.SetDefault("requirements-file", "requirement_options.go")
	v.SetDefault("conditions-file", "condition_options.go")
	v.SetDefault("requirements-const", "RequirementOptions")
	v.SetDefault("conditions-const", "ConditionOptions")
	v.SetDefault("headers", []string{})
	v.SetDefault("profile", "")
	v.SetDefault("json", false)
	v.SetDefault("no-color", false)

	// TAXGEN_OUTPUT_DIR maps to output-dir, TAXGEN_AUTH_TOKEN to
	// auth.token, and so on.
	v.SetEnvPrefix("TAXGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// Project config file is optional; a missing file is not an error.
	if path := findProjectConfigYaml(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return nil
}

// findProjectConfigYaml walks up from the working directory looking
// for .taxgen/config.yaml. Returns "" when no config file exists.
func findProjectConfigYaml() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		configPath := filepath.Join(dir, ".taxgen", "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	return ""
}

// FindProjectRoot walks up from the working directory looking for a
// .taxgen directory. Returns "" when none is found.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		if info, err := os.Stat(filepath.Join(dir, ".taxgen")); err == nil && info.IsDir() {
			return dir
		}
	}

	return ""
}

// GetString returns the string value for key, or "" before Initialize.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool returns the bool value for key, or false before Initialize.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt returns the int value for key, or 0 before Initialize.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration returns the duration value for key, or 0 before
// Initialize. String values like "45s" are parsed.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice returns the string slice for key. Never returns nil.
func GetStringSlice(key string) []string {
	if v == nil {
		return []string{}
	}
	result := v.GetStringSlice(key)
	if result == nil {
		return []string{}
	}
	return result
}

// Set overrides a value at the highest precedence level. Used to bind
// command-line flags. No-op before Initialize.
func Set(key string, value interface{}) {
	if v == nil {
		return
	}
	v.Set(key, value)
}

// AllSettings returns every resolved setting. Never returns nil.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}

// AuthConfig describes the authorization header attached to taxonomy
// requests.
type AuthConfig struct {
	Header string
	Token  string
}

// GetAuthConfig returns the auth settings, or nil when no token is
// configured. The header name defaults to Authorization.
func GetAuthConfig() *AuthConfig {
	if v == nil {
		return nil
	}

	token := v.GetString("auth.token")
	if token == "" {
		return nil
	}

	header := v.GetString("auth.header")
	if header == "" {
		header = "Authorization"
	}

	return &AuthConfig{Header: header, Token: token}
}

// ResetForTesting discards the viper instance so tests can exercise
// pre-Initialize behavior.
func ResetForTesting() {
	v = nil
}
