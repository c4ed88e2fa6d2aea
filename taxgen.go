// Package taxgen provides a minimal public API for running taxonomy
// generation from Go programs.
//
// Most projects should invoke the taxgen binary, typically through a
// go:generate directive. This package exports only the essential types
// and functions for build tools that want to embed a generation run
// programmatically.
package taxgen

import (
	"context"
	"net/http"
	"time"

	"github.com/formfield/taxgen/internal/gen"
	"github.com/formfield/taxgen/internal/output"
	"github.com/formfield/taxgen/internal/pipeline"
	"github.com/formfield/taxgen/internal/taxonomy"
)

// Core types for a generation run
type (
	Entry  = taxonomy.Entry
	Config = pipeline.Config
	Report = pipeline.Report
	Step   = pipeline.Step
)

// Step constants, in run order
const (
	StepFetching               = pipeline.StepFetching
	StepPartitioning           = pipeline.StepPartitioning
	StepGeneratingRequirements = pipeline.StepGeneratingRequirements
	StepGeneratingConditions   = pipeline.StepGeneratingConditions
	StepWritingRequirements    = pipeline.StepWritingRequirements
	StepWritingConditions      = pipeline.StepWritingConditions
	StepDone                   = pipeline.StepDone
)

// Taxonomy constants
const (
	TypeCondition  = taxonomy.TypeCondition
	DefaultQuery   = taxonomy.DefaultQuery
	DefaultTimeout = taxonomy.DefaultTimeout
)

// Error types returned by a run; use errors.As to classify failures.
type (
	TransportError = taxonomy.TransportError
	ShapeError     = taxonomy.ShapeError
	EscapeError    = gen.EscapeError
	WriteError     = output.WriteError
)

// Client fetches the taxonomy from the remote endpoint.
type Client = taxonomy.Client

// ClientOption configures a Client.
type ClientOption = taxonomy.Option

// NewClient creates a client for the taxonomy endpoint at url.
func NewClient(url string, opts ...ClientOption) *Client {
	return taxonomy.NewClient(url, opts...)
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return taxonomy.WithHTTPClient(hc)
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return taxonomy.WithTimeout(d)
}

// WithHeader adds a header to every request.
func WithHeader(name, value string) ClientOption {
	return taxonomy.WithHeader(name, value)
}

// Querier is the fetch dependency of a run; Client satisfies it.
type Querier = pipeline.Querier

// FileWriter persists rendered modules; pass nil to Generate for the
// local filesystem.
type FileWriter = pipeline.FileWriter

// Generate executes one fetch, partition, render, write cycle and
// reports what happened. The report is returned alongside the error so
// callers can see how far a failed run got.
func Generate(ctx context.Context, client Querier, w FileWriter, cfg Config) (*Report, error) {
	return pipeline.NewRunner(client, w).Run(ctx, cfg)
}
