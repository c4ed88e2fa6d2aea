// Package pipeline sequences one taxgen run: fetch the taxonomy,
// partition it, render both option modules, then write both files.
//
// The run is strictly sequential and fail-fast. Every step consumes the
// previous step's value; there are no retries and no shared state
// between runs.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/formfield/taxgen/internal/gen"
	"github.com/formfield/taxgen/internal/output"
	"github.com/formfield/taxgen/internal/taxonomy"
)

// Querier is the fetch dependency; taxonomy.Client satisfies it.
type Querier interface {
	Query(ctx context.Context, query string) (json.RawMessage, error)
}

// FileWriter persists one rendered module; output.DiskWriter satisfies
// it.
type FileWriter interface {
	Write(path string, data []byte) error
}

// Config carries everything one run needs. It is handed in explicitly;
// the pipeline reads no globals.
type Config struct {
	// Query is the query text sent to the endpoint.
	Query string

	// Package is the package name both generated files declare.
	Package string

	// Output targets. The requirements module holds entries before the
	// first condition entry, the conditions module the rest.
	RequirementsPath string
	ConditionsPath   string
	RequirementsName string
	ConditionsName   string
}

// Step names one state of the run.
type Step string

const (
	StepFetching               Step = "fetching"
	StepPartitioning           Step = "partitioning"
	StepGeneratingRequirements Step = "generating_requirements"
	StepGeneratingConditions   Step = "generating_conditions"
	StepWritingRequirements    Step = "writing_requirements"
	StepWritingConditions      Step = "writing_conditions"
	StepDone                   Step = "done"
)

// Report summarizes a run for the console and --json output.
type Report struct {
	Entries      int      `json:"entries"`
	Requirements int      `json:"requirements"`
	Conditions   int      `json:"conditions"`
	Files        []string `json:"files,omitempty"`
	Completed    []Step   `json:"completed_steps"`
	FailedStep   Step     `json:"failed_step,omitempty"`
	ElapsedMS    int64    `json:"elapsed_ms"`
}

// Runner executes generation runs.
type Runner struct {
	client Querier
	writer FileWriter
}

// NewRunner creates a Runner that fetches through client and persists
// through w. A nil w means the local filesystem.
func NewRunner(client Querier, w FileWriter) *Runner {
	if w == nil {
		w = output.DiskWriter{}
	}
	return &Runner{client: client, writer: w}
}

// Run executes one generation run and reports what happened. The first
// error aborts the run with the failing step recorded in the report.
// Both modules are rendered before either file is written, so a
// generation failure leaves existing output untouched; only a write
// failure on the second file can leave the outputs split across runs.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Report, error) {
	start := time.Now()
	report := &Report{}

	fail := func(step Step, err error) (*Report, error) {
		report.FailedStep = step
		report.ElapsedMS = time.Since(start).Milliseconds()
		return report, err
	}
	done := func(step Step) {
		report.Completed = append(report.Completed, step)
	}

	data, err := r.client.Query(ctx, cfg.Query)
	if err != nil {
		return fail(StepFetching, fmt.Errorf("fetch taxonomy: %w", err))
	}
	done(StepFetching)

	entries, err := taxonomy.DecodePayload(data)
	if err != nil {
		return fail(StepPartitioning, fmt.Errorf("decode taxonomy: %w", err))
	}
	requirements, conditions := taxonomy.Partition(entries)
	report.Entries = len(entries)
	report.Requirements = len(requirements)
	report.Conditions = len(conditions)
	done(StepPartitioning)

	reqSrc, err := gen.Render(requirements, gen.FileSpec{Package: cfg.Package, Name: cfg.RequirementsName})
	if err != nil {
		return fail(StepGeneratingRequirements, fmt.Errorf("render requirements module: %w", err))
	}
	done(StepGeneratingRequirements)

	condSrc, err := gen.Render(conditions, gen.FileSpec{Package: cfg.Package, Name: cfg.ConditionsName})
	if err != nil {
		return fail(StepGeneratingConditions, fmt.Errorf("render conditions module: %w", err))
	}
	done(StepGeneratingConditions)

	if err := r.writer.Write(cfg.RequirementsPath, reqSrc); err != nil {
		return fail(StepWritingRequirements, fmt.Errorf("write requirements module: %w", err))
	}
	report.Files = append(report.Files, cfg.RequirementsPath)
	done(StepWritingRequirements)

	if err := r.writer.Write(cfg.ConditionsPath, condSrc); err != nil {
		return fail(StepWritingConditions, fmt.Errorf("write conditions module: %w", err))
	}
	report.Files = append(report.Files, cfg.ConditionsPath)
	done(StepWritingConditions)

	done(StepDone)
	report.ElapsedMS = time.Since(start).Milliseconds()
	return report, nil
}
