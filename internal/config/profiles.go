package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// ProfilesFileName is the profiles file inside the .taxgen directory.
const ProfilesFileName = "profiles.toml"

// Profile is one named override set from profiles.toml. Zero-value
// fields leave the corresponding setting untouched.
type Profile struct {
	Endpoint          string `toml:"endpoint"`
	Query             string `toml:"query"`
	QueryFile         string `toml:"query-file"`
	Timeout           string `toml:"timeout"`
	OutputDir         string `toml:"output-dir"`
	Package           string `toml:"package"`
	RequirementsFile  string `toml:"requirements-file"`
	ConditionsFile    string `toml:"conditions-file"`
	RequirementsConst string `toml:"requirements-const"`
	ConditionsConst   string `toml:"conditions-const"`
}

// profilesFile is the top-level structure of profiles.toml:
//
//	[profiles.staging]
//	endpoint = "https://staging.example.com/graphql"
type profilesFile struct {
	Profiles map[string]Profile `toml:"profiles"`
}

// LoadProfiles reads the profiles from the given file. A missing file
// yields an empty map, not an error.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is constructed from the project root
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Profile{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file profilesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if file.Profiles == nil {
		return map[string]Profile{}, nil
	}
	return file.Profiles, nil
}

// ProfileNames returns the names defined in the given profiles file,
// sorted for stable output.
func ProfileNames(path string) ([]string, error) {
	profiles, err := LoadProfiles(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ApplyProfile overlays the named profile from the project's
// profiles.toml onto the current configuration. Profile values sit
// above the config file but below environment variables and flags.
// An empty name is a no-op; an unknown name is an error.
func ApplyProfile(name string) error {
	if name == "" {
		return nil
	}
	if v == nil {
		return fmt.Errorf("configuration not initialized")
	}

	root := FindProjectRoot()
	if root == "" {
		return fmt.Errorf("profile %q requested but no .taxgen directory found (run 'taxgen init' first)", name)
	}

	path := filepath.Join(root, ".taxgen", ProfilesFileName)
	profiles, err := LoadProfiles(path)
	if err != nil {
		return err
	}

	profile, ok := profiles[name]
	if !ok {
		return fmt.Errorf("profile %q not found in %s", name, path)
	}

	if err := v.MergeConfigMap(profileSettings(profile)); err != nil {
		return fmt.Errorf("failed to apply profile %q: %w", name, err)
	}

	return nil
}

// profileSettings converts a profile to the settings map merged into
// viper. Only non-zero fields are included.
func profileSettings(p Profile) map[string]interface{} {
	settings := map[string]interface{}{}

	set := func(key, value string) {
		if value != "" {
			settings[key] = value
		}
	}

	set("endpoint", p.Endpoint)
	set("query", p.Query)
	set("query-file", p.QueryFile)
	set("timeout", p.Timeout)
	set("output-dir", p.OutputDir)
	set("package", p.Package)
	set("requirements-file", p.RequirementsFile)
	set("conditions-file", p.ConditionsFile)
	set("requirements-const", p.RequirementsConst)
	set("conditions-const", p.ConditionsConst)

	return settings
}
