package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/formfield/taxgen/internal/config"
	"github.com/formfield/taxgen/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "setup",
	Short:   "Manage configuration settings",
	Long: `Manage configuration settings in .taxgen/config.yaml.

Settings resolve as flags > TAXGEN_* environment variables > profile >
config.yaml > built-in defaults. 'taxgen config set' edits config.yaml;
the higher-priority sources cannot be written from here.

Examples:
  taxgen config set endpoint "https://forms.internal/graphql"
  taxgen config set timeout 45s
  taxgen config get endpoint
  taxgen config list
  taxgen config profiles`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in config.yaml",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		if !config.IsKnownKey(key) {
			WarnError("unknown config key %q (see 'taxgen config list' for known keys)", key)
		}

		if err := config.SetYamlConfig(key, value); err != nil {
			FatalError("setting config: %v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"key":      key,
				"value":    value,
				"location": "config.yaml",
			})
		} else {
			fmt.Printf("Set %s = %s (in config.yaml)\n", key, value)
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the effective value of a configuration key",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		key := args[0]
		value := config.GetString(key)

		if jsonOutput {
			outputJSON(map[string]string{
				"key":   key,
				"value": value,
			})
			return
		}

		if value == "" {
			fmt.Printf("%s (not set)\n", key)
		} else {
			fmt.Printf("%s\n", value)
		}
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective configuration",
	Run: func(_ *cobra.Command, _ []string) {
		keys := make([]string, 0, len(config.KnownKeys))
		for key := range config.KnownKeys {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		if jsonOutput {
			settings := make(map[string]string, len(keys))
			for _, key := range keys {
				settings[key] = config.GetString(key)
			}
			if auth := config.GetAuthConfig(); auth != nil {
				settings["auth.header"] = auth.Header
			}
			outputJSON(settings)
			return
		}

		fmt.Println("\nConfiguration:")
		for _, key := range keys {
			value := config.GetString(key)
			if value == "" {
				value = ui.RenderMuted("(not set)")
			}
			fmt.Printf("  %s = %s\n", key, value)
		}
		// Never print the token itself
		if auth := config.GetAuthConfig(); auth != nil {
			fmt.Printf("  auth.header = %s\n", auth.Header)
			fmt.Printf("  auth.token = %s\n", ui.RenderMuted("(set, hidden)"))
		}
	},
}

var configProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List profiles from .taxgen/profiles.toml",
	Run: func(_ *cobra.Command, _ []string) {
		root := config.FindProjectRoot()
		if root == "" {
			FatalErrorWithHint("no .taxgen directory found", "Run 'taxgen init' first")
		}

		path := filepath.Join(root, ".taxgen", config.ProfilesFileName)
		names, err := config.ProfileNames(path)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"profiles": names})
			return
		}

		if len(names) == 0 {
			fmt.Println("No profiles defined")
			return
		}

		active := config.GetString("profile")
		fmt.Println("\nProfiles:")
		for _, name := range names {
			if name == active {
				fmt.Printf("  %s %s\n", ui.RenderPassIcon(), name)
			} else {
				fmt.Printf("    %s\n", name)
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configProfilesCmd)
	rootCmd.AddCommand(configCmd)
}
