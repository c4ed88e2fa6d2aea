package config

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// KnownKeys are the configuration keys taxgen understands. Used by
// `taxgen config set` to warn on unrecognized keys before they are
// silently ignored at generation time.
var KnownKeys = map[string]bool{
	// Fetch settings
	"endpoint":   true,
	"query":      true,
	"query-file": true,
	"timeout":    true,
	"headers":    true,

	// Output settings
	"output-dir":         true,
	"package":            true,
	"requirements-file":  true,
	"conditions-file":    true,
	"requirements-const": true,
	"conditions-const":   true,

	// CLI behavior
	"profile":  true,
	"json":     true,
	"no-color": true,
}

// keyAliases maps accepted spellings to canonical keys.
var keyAliases = map[string]string{
	"url":          "endpoint",
	"package-name": "package",
}

// IsKnownKey reports whether key is a recognized configuration key.
// Nested auth keys (auth.token, auth.header) are recognized as a
// group.
func IsKnownKey(key string) bool {
	if KnownKeys[key] {
		return true
	}
	if _, ok := keyAliases[key]; ok {
		return true
	}
	return strings.HasPrefix(key, "auth.")
}

// normalizeYamlKey resolves aliases to the canonical key name.
func normalizeYamlKey(key string) string {
	if canonical, ok := keyAliases[key]; ok {
		return canonical
	}
	return key
}

// SetYamlConfig sets a configuration value in the project's
// .taxgen/config.yaml. It handles both adding new keys and updating
// existing (possibly commented) keys in place.
func SetYamlConfig(key, value string) error {
	configPath := findProjectConfigYaml()
	if configPath == "" {
		return fmt.Errorf("no .taxgen/config.yaml found (run 'taxgen init' first)")
	}

	key = normalizeYamlKey(key)

	content, err := os.ReadFile(configPath) //nolint:gosec // configPath is from findProjectConfigYaml
	if err != nil {
		return fmt.Errorf("failed to read config.yaml: %w", err)
	}

	newContent, err := updateYamlKey(string(content), key, value)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, []byte(newContent), 0600); err != nil {
		return fmt.Errorf("failed to write config.yaml: %w", err)
	}

	return nil
}

// GetYamlConfig gets a configuration value as a string.
// Returns empty string if the key is not set.
func GetYamlConfig(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(normalizeYamlKey(key))
}

// updateYamlKey updates a key in yaml content, handling commented-out
// keys. If the key exists (commented or not), it is updated in place.
// If the key doesn't exist, it is appended at the end.
//
//nolint:unparam // error return kept for future validation
func updateYamlKey(content, key, value string) (string, error) {
	formattedValue := formatYamlValue(value)
	newLine := fmt.Sprintf("%s: %s", key, formattedValue)

	// Matches "key: value" or "# key: value" with optional leading
	// whitespace.
	keyPattern := regexp.MustCompile(`^(\s*)(#\s*)?` + regexp.QuoteMeta(key) + `\s*:`)

	found := false
	var result []string

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if keyPattern.MatchString(line) {
			// Found the key - replace with new value (uncommented),
			// preserving leading whitespace.
			matches := keyPattern.FindStringSubmatch(line)
			indent := ""
			if len(matches) > 1 {
				indent = matches[1]
			}
			result = append(result, indent+newLine)
			found = true
		} else {
			result = append(result, line)
		}
	}

	if !found {
		// Key not found - append at end, with a blank separator line
		// if the content doesn't already end with one.
		if len(result) > 0 && result[len(result)-1] != "" {
			result = append(result, "")
		}
		result = append(result, newLine)
	}

	return strings.Join(result, "\n"), nil
}

// formatYamlValue formats a value appropriately for YAML.
func formatYamlValue(value string) string {
	// Boolean values
	lower := strings.ToLower(value)
	if lower == "true" || lower == "false" {
		return lower
	}

	// Numeric values - return as-is
	if isNumeric(value) {
		return value
	}

	// Duration values (like "30s", "5m") - return as-is
	if isDuration(value) {
		return value
	}

	// Everything else is a string; always quote so special characters
	// and leading whitespace survive the YAML round trip.
	return fmt.Sprintf("%q", value)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '-' && i == 0 {
			continue
		}
		if c == '.' {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isDuration(s string) bool {
	if len(s) < 2 {
		return false
	}
	suffix := s[len(s)-1]
	if suffix != 's' && suffix != 'm' && suffix != 'h' {
		return false
	}
	return isNumeric(s[:len(s)-1])
}
