package main

import (
	"fmt"
	"os/exec"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of taxgen (overridden by ldflags at build time)
	Version = "0.6.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
	// Commit and branch the git revision the binary was built from (optional ldflag)
	Commit = ""
	Branch = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		commit := resolveCommitHash()
		branch := resolveBranch()

		if jsonOutput {
			result := map[string]string{
				"version": Version,
				"build":   Build,
			}
			if commit != "" {
				result["commit"] = commit
			}
			if branch != "" {
				result["branch"] = branch
			}
			outputJSON(result)
		} else {
			if commit != "" && branch != "" {
				fmt.Printf("taxgen version %s (%s: %s@%s)\n", Version, Build, branch, shortCommit(commit))
			} else if commit != "" {
				fmt.Printf("taxgen version %s (%s: %s)\n", Version, Build, shortCommit(commit))
			} else {
				fmt.Printf("taxgen version %s (%s)\n", Version, Build)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	return ""
}

func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func resolveBranch() string {
	if Branch != "" {
		return Branch
	}

	// Try to get branch from build info (build-time VCS detection)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.branch" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	// Fallback: try to get branch from git at runtime
	// Use symbolic-ref to work in fresh repos without commits
	cmd := exec.Command("git", "symbolic-ref", "--short", "HEAD")
	cmd.Dir = "."
	if output, err := cmd.Output(); err == nil {
		if branch := strings.TrimSpace(string(output)); branch != "" && branch != "HEAD" {
			return branch
		}
	}

	return ""
}

// FullVersionString returns the complete version string including commit hash.
// Format: "0.6.0 (dev: main@280fbcf9a253)" or "0.6.0 (release)" or "0.6.0"
func FullVersionString() string {
	commit := resolveCommitHash()
	branch := resolveBranch()

	if commit != "" && branch != "" {
		return fmt.Sprintf("%s (%s: %s@%s)", Version, Build, branch, shortCommit(commit))
	} else if commit != "" {
		return fmt.Sprintf("%s (%s: %s)", Version, Build, shortCommit(commit))
	}
	return fmt.Sprintf("%s (%s)", Version, Build)
}

// ExtractSemver returns just the semver portion from a full version string.
// For "0.6.0 (dev: main@abc123)", returns "0.6.0".
// For "0.6.0", returns "0.6.0".
func ExtractSemver(fullVersion string) string {
	// Find the first space or parenthesis - everything before is the semver
	for i, r := range fullVersion {
		if r == ' ' || r == '(' {
			return fullVersion[:i]
		}
	}
	return fullVersion
}
