package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/formfield/taxgen/internal/config"
	"github.com/formfield/taxgen/internal/output"
	"github.com/formfield/taxgen/internal/pipeline"
	"github.com/formfield/taxgen/internal/taxonomy"
	"github.com/formfield/taxgen/internal/telemetry"
	"github.com/formfield/taxgen/internal/ui"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	GroupID: "generate",
	Short:   "Fetch the taxonomy and write the option modules",
	Long: `Fetch the form taxonomy and write the generated option modules.

One POST carries the configured GraphQL query to the endpoint. The response
entries are split at the first condition entry: everything before it becomes
the requirements module, everything from it on becomes the conditions module.
Both files are rendered before either is written, and each write replaces the
file as a whole.

The output directory must already exist; taxgen never creates it. Run
'taxgen init' once to scaffold the directory and config.

Examples:
  taxgen generate
  taxgen generate --endpoint https://forms.internal/graphql
  taxgen generate --profile staging
  taxgen generate --dry-run
  taxgen generate --json`,
	Run: func(cmd *cobra.Command, args []string) {
		runGenerate(cmd)
	},
}

func init() {
	generateCmd.Flags().String("endpoint", "", "Taxonomy service URL (overrides config)")
	generateCmd.Flags().String("query", "", "GraphQL query text (overrides config)")
	generateCmd.Flags().String("query-file", "", "Read the GraphQL query from a file")
	generateCmd.Flags().StringP("output-dir", "o", "", "Directory the generated files are written to")
	generateCmd.Flags().String("package", "", "Package name the generated files declare")
	generateCmd.Flags().Duration("timeout", 0, "HTTP timeout for the fetch")
	generateCmd.Flags().String("profile", "", "Named profile from .taxgen/profiles.toml")
	generateCmd.Flags().Bool("dry-run", false, "Print the generated files instead of writing them")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command) {
	applyGenerateFlags(cmd)

	if err := config.ApplyProfile(config.GetString("profile")); err != nil {
		FatalError("%v", err)
	}

	endpoint := config.GetString("endpoint")
	if endpoint == "" {
		FatalErrorWithHint("no endpoint configured", "Set one with 'taxgen config set endpoint <url>' or pass --endpoint")
	}

	query, err := resolveQuery()
	if err != nil {
		FatalError("%v", err)
	}

	client := taxonomy.NewClient(endpoint, clientOptions()...)

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	var mem *memoryWriter
	var writer pipeline.FileWriter
	if dryRun {
		mem = newMemoryWriter()
		writer = mem
	}
	runner := pipeline.NewRunner(telemetry.WrapQuerier(client), writer)

	outputDir := config.GetString("output-dir")
	pcfg := pipeline.Config{
		Query:            query,
		Package:          config.GetString("package"),
		RequirementsPath: filepath.Join(outputDir, config.GetString("requirements-file")),
		ConditionsPath:   filepath.Join(outputDir, config.GetString("conditions-file")),
		RequirementsName: config.GetString("requirements-const"),
		ConditionsName:   config.GetString("conditions-const"),
	}

	ctx, span := telemetry.Tracer("taxgen").Start(rootCtx, "generate")
	defer span.End()

	report, err := runner.Run(ctx, pcfg)
	if err != nil {
		if jsonOutput {
			outputJSONError(err, string(report.FailedStep))
		}
		if hint := hintFor(err); hint != "" {
			FatalErrorWithHint(err.Error(), hint)
		}
		FatalError("%v", err)
	}

	span.SetAttributes(
		attribute.Int("taxgen.entries", report.Entries),
		attribute.Int("taxgen.requirements", report.Requirements),
		attribute.Int("taxgen.conditions", report.Conditions),
	)

	if dryRun {
		printDryRun(mem, report)
		return
	}

	if jsonOutput {
		outputJSON(report)
		return
	}
	printReport(report, endpoint)
}

// applyGenerateFlags pushes explicitly-set generate flags into viper so they
// take precedence over env vars, profiles, and the config file.
func applyGenerateFlags(cmd *cobra.Command) {
	for _, key := range []string{"endpoint", "query", "query-file", "output-dir", "package", "profile"} {
		if cmd.Flags().Changed(key) {
			value, _ := cmd.Flags().GetString(key)
			config.Set(key, value)
		}
	}
	if cmd.Flags().Changed("timeout") {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		config.Set("timeout", timeout)
	}
}

// resolveQuery returns the query text, preferring an explicit query file.
func resolveQuery() (string, error) {
	if path := config.GetString("query-file"); path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own config
		if err != nil {
			return "", fmt.Errorf("read query file: %w", err)
		}
		query := strings.TrimSpace(string(data))
		if query == "" {
			return "", fmt.Errorf("query file %s is empty", path)
		}
		return query, nil
	}
	return config.GetString("query"), nil
}

// clientOptions assembles taxonomy client options from the effective config.
func clientOptions() []taxonomy.Option {
	opts := []taxonomy.Option{taxonomy.WithTimeout(config.GetDuration("timeout"))}

	if auth := config.GetAuthConfig(); auth != nil {
		opts = append(opts, taxonomy.WithHeader(auth.Header, auth.Token))
	}

	for _, h := range config.GetStringSlice("headers") {
		name, value, ok := parseHeader(h)
		if !ok {
			WarnError("ignoring malformed header %q (expected \"Name: value\")", h)
			continue
		}
		opts = append(opts, taxonomy.WithHeader(name, value))
	}
	return opts
}

// parseHeader splits a "Name: value" pair. The value may contain colons.
func parseHeader(s string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" {
		ok = false
	}
	return name, value, ok
}

// hintFor maps well-known failure classes to an actionable suggestion.
func hintFor(err error) string {
	var transportErr *taxonomy.TransportError
	if errors.As(err, &transportErr) {
		return "Check the endpoint URL and that the taxonomy service is up; taxgen sends one request and does not retry"
	}
	var writeErr *output.WriteError
	if errors.As(err, &writeErr) {
		return "Create the output directory first (or run 'taxgen init')"
	}
	return ""
}

// memoryWriter captures rendered modules for --dry-run instead of touching
// the filesystem.
type memoryWriter struct {
	files map[string][]byte
	order []string
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{files: make(map[string][]byte)}
}

func (w *memoryWriter) Write(path string, data []byte) error {
	if _, seen := w.files[path]; !seen {
		w.order = append(w.order, path)
	}
	w.files[path] = append([]byte(nil), data...)
	return nil
}

// printReport renders the human-readable success summary.
func printReport(report *pipeline.Report, endpoint string) {
	elapsed := fmt.Sprintf("%dms", report.ElapsedMS)
	fmt.Printf("%s Generated %d option modules from %s in %s\n",
		ui.RenderPassIcon(), len(report.Files), ui.RenderAccent(endpoint), ui.RenderMuted(elapsed))

	counts := []int{report.Requirements, report.Conditions}
	for i, file := range report.Files {
		entries := 0
		if i < len(counts) {
			entries = counts[i]
		}
		fmt.Printf("%s%s%s\n", ui.TreeIndent, ui.TreeLast, ui.RenderMuted(fmt.Sprintf("%s (%d entries)", file, entries)))
	}

	if report.Entries > 0 && report.Conditions == 0 {
		fmt.Printf("%s no condition entries matched; conditions module is empty\n", ui.RenderWarnIcon())
	}
	if report.Entries > 0 && report.Requirements == 0 {
		fmt.Printf("%s no entries before the first condition; requirements module is empty\n", ui.RenderWarnIcon())
	}
}

// printDryRun shows what would be written without touching the filesystem.
func printDryRun(mem *memoryWriter, report *pipeline.Report) {
	if jsonOutput {
		contents := make(map[string]string, len(mem.files))
		for path, data := range mem.files {
			contents[path] = string(data)
		}
		outputJSON(struct {
			*pipeline.Report
			DryRun   bool              `json:"dry_run"`
			Contents map[string]string `json:"contents"`
		}{report, true, contents})
		return
	}

	for _, path := range mem.order {
		fmt.Println(ui.RenderCategory(path))
		fmt.Println(ui.RenderSeparator())
		fmt.Print(string(mem.files[path]))
		fmt.Println()
	}
	fmt.Printf("%s dry run: %d files not written\n", ui.RenderSkipIcon(), len(mem.order))
}
