package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/formfield/taxgen/internal/config"
	"github.com/formfield/taxgen/internal/telemetry"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	noColor    bool

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

func init() {
	// Load .env files before viper reads the environment
	config.LoadDotEnv()

	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	// Register persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add --version flag to root command (same behavior as version subcommand)
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	// Command groups for organized help output
	rootCmd.AddGroup(&cobra.Group{ID: "generate", Title: "Generation:"})
	rootCmd.AddGroup(&cobra.Group{ID: "setup", Title: "Setup & Configuration:"})
}

var rootCmd = &cobra.Command{
	Use:   "taxgen",
	Short: "taxgen - Form taxonomy option generator",
	Long: `Generates Go option tables from a form taxonomy service.

taxgen fetches the taxonomy with a single GraphQL query, splits the entries
into requirements and conditions at the first condition entry, and renders
one generated source file per group. Run it from your build so the option
tables always match the service.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle --version flag on root command
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("taxgen version %s (%s)\n", Version, Build)
			return
		}
		// No subcommand - show help
		_ = cmd.Help() // Help() always returns nil for cobra commands
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		applyViperOverrides(cmd)
		applyColorMode()
		initTelemetry()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.Shutdown(context.Background())
		if rootCancel != nil {
			rootCancel()
		}
	},
}

// setupSignalContext creates a context that cancels on SIGINT/SIGTERM so an
// in-flight fetch aborts cleanly.
func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// applyViperOverrides merges explicitly-set persistent flags into viper and
// reads the effective values back.
// Priority: flags > env vars > profile > config file > defaults.
func applyViperOverrides(cmd *cobra.Command) {
	if cmd.Flags().Changed("json") {
		config.Set("json", jsonOutput)
	}
	if cmd.Flags().Changed("no-color") {
		config.Set("no-color", noColor)
	}
	jsonOutput = config.GetBool("json")
	noColor = config.GetBool("no-color")
}

// applyColorMode disables lipgloss styling when --no-color is set or the
// NO_COLOR convention variable is present.
func applyColorMode() {
	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// initTelemetry starts the OpenTelemetry providers when TAXGEN_OTEL_ENABLED
// is set. Telemetry failures never block generation.
func initTelemetry() {
	if !telemetry.Enabled() {
		return
	}
	if err := telemetry.Init(rootCtx, "taxgen", Version); err != nil {
		WarnError("failed to initialize telemetry: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
