package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/formfield/taxgen/internal/config"
	"github.com/formfield/taxgen/internal/gen"
	"github.com/formfield/taxgen/internal/output"
	"github.com/formfield/taxgen/internal/taxonomy"
	"github.com/formfield/taxgen/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "setup",
	Short:   "Scaffold a taxgen project in the current directory",
	Long: `Scaffold a taxgen project by creating a .taxgen/ directory with a starter
config.yaml, the default GraphQL query, and a commented profiles.toml, plus
the output directory with the shared Option type.

'taxgen generate' refuses to create its output directory, so running init
once puts everything in place for the first generation.

--force overwrites config.yaml, query.graphql, and the Option type file.
profiles.toml is never overwritten.

Examples:
  taxgen init
  taxgen init --endpoint https://forms.internal/graphql
  taxgen init --interactive
  taxgen init --dir services/checkout --package checkoutopts`,
	Run: func(cmd *cobra.Command, _ []string) {
		dir, _ := cmd.Flags().GetString("dir")
		force, _ := cmd.Flags().GetBool("force")
		interactive, _ := cmd.Flags().GetBool("interactive")

		// Flag > config > default, same as generate
		endpoint, _ := cmd.Flags().GetString("endpoint")
		if endpoint == "" {
			endpoint = config.GetString("endpoint")
		}
		outputDir, _ := cmd.Flags().GetString("output-dir")
		if outputDir == "" {
			outputDir = config.GetString("output-dir")
		}
		pkg, _ := cmd.Flags().GetString("package")
		if pkg == "" {
			pkg = config.GetString("package")
		}

		opts := scaffoldOptions{
			Dir:       dir,
			Force:     force,
			Endpoint:  endpoint,
			OutputDir: outputDir,
			Package:   pkg,
		}

		if interactive {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				FatalError("--interactive requires a terminal")
			}
			if err := runInitForm(&opts); err != nil {
				if err == huh.ErrUserAborted {
					fmt.Fprintln(os.Stderr, "Init cancelled.")
					os.Exit(0)
				}
				FatalError("form error: %v", err)
			}
		}

		result, err := scaffoldProject(opts)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(result)
			return
		}

		for _, path := range result.Created {
			fmt.Printf("%s created %s\n", ui.RenderPassIcon(), path)
		}
		for _, path := range result.Skipped {
			fmt.Printf("%s skipped %s (already exists)\n", ui.RenderSkipIcon(), path)
		}

		fmt.Printf("\n%s taxgen initialized successfully!\n\n", ui.RenderPassIcon())
		fmt.Printf("  Config: %s\n", ui.RenderAccent(filepath.Join(opts.Dir, ".taxgen", "config.yaml")))
		fmt.Printf("  Output directory: %s\n\n", ui.RenderAccent(filepath.Join(opts.Dir, opts.OutputDir)))
		fmt.Printf("Set the endpoint, then run %s.\n\n", ui.RenderAccent("taxgen generate"))
	},
}

func init() {
	initCmd.Flags().String("dir", ".", "Project root to scaffold into")
	initCmd.Flags().Bool("force", false, "Overwrite scaffolded files that already exist")
	initCmd.Flags().BoolP("interactive", "i", false, "Collect settings with an interactive form")
	initCmd.Flags().String("endpoint", "", "Taxonomy service URL to seed the config with")
	initCmd.Flags().StringP("output-dir", "o", "", "Directory the generated files are written to")
	initCmd.Flags().String("package", "", "Package name the generated files declare")
	rootCmd.AddCommand(initCmd)
}

// scaffoldOptions carries the settings init seeds the project with.
type scaffoldOptions struct {
	Dir       string
	Force     bool
	Endpoint  string
	OutputDir string
	Package   string
}

// scaffoldResult reports what init did, for both console and --json output.
type scaffoldResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped,omitempty"`
}

// starterQuery seeds .taxgen/query.graphql. GraphQL treats # lines as
// comments, so the file is valid as sent.
const starterQuery = `# Query sent to the taxonomy endpoint by 'taxgen generate'.
# The response entries need name and type fields.
` + taxonomy.DefaultQuery + "\n"

// starterProfiles seeds a commented .taxgen/profiles.toml.
const starterProfiles = `# Named profiles for 'taxgen generate --profile <name>'.
# A profile overrides config.yaml; environment variables and flags still win.
#
# [profiles.staging]
# endpoint = "https://staging.example.com/graphql"
# timeout = "10s"
#
# [profiles.production]
# endpoint = "https://forms.example.com/graphql"
# output-dir = "internal/options"
`

// scaffoldProject creates the .taxgen directory, the starter files, and the
// output directory. Existing files are skipped unless force is set;
// profiles.toml is never overwritten.
func scaffoldProject(opts scaffoldOptions) (*scaffoldResult, error) {
	result := &scaffoldResult{}

	taxgenDir := filepath.Join(opts.Dir, ".taxgen")
	if err := os.MkdirAll(taxgenDir, 0750); err != nil {
		return nil, fmt.Errorf("create %s: %w", taxgenDir, err)
	}

	configPath := filepath.Join(taxgenDir, "config.yaml")
	if fileExists(configPath) && !opts.Force {
		result.Skipped = append(result.Skipped, configPath)
	} else {
		starter := config.StarterConfig{
			Endpoint:  opts.Endpoint,
			OutputDir: opts.OutputDir,
			Package:   opts.Package,
		}
		if err := config.WriteStarterConfig(configPath, starter); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, configPath)
	}

	queryPath := filepath.Join(taxgenDir, "query.graphql")
	if fileExists(queryPath) && !opts.Force {
		result.Skipped = append(result.Skipped, queryPath)
	} else {
		if err := os.WriteFile(queryPath, []byte(starterQuery), 0600); err != nil {
			return nil, fmt.Errorf("write %s: %w", queryPath, err)
		}
		result.Created = append(result.Created, queryPath)
	}

	// Profiles hold hand-maintained endpoints, so an existing file always wins.
	profilesPath := filepath.Join(taxgenDir, config.ProfilesFileName)
	if fileExists(profilesPath) {
		result.Skipped = append(result.Skipped, profilesPath)
	} else if err := os.WriteFile(profilesPath, []byte(starterProfiles), 0600); err != nil {
		WarnError("failed to create %s: %v", profilesPath, err)
	} else {
		result.Created = append(result.Created, profilesPath)
	}

	outDir := filepath.Join(opts.Dir, opts.OutputDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	optionPath := filepath.Join(outDir, "options.go")
	if fileExists(optionPath) && !opts.Force {
		result.Skipped = append(result.Skipped, optionPath)
	} else {
		src, err := gen.RenderOptionType(opts.Package)
		if err != nil {
			return nil, err
		}
		if err := (output.DiskWriter{}).Write(optionPath, src); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, optionPath)
	}

	return result, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
