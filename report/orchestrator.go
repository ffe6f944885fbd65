// Package report orchestrates the two rendering strategies.
//
// A render is a single linear attempt: datasets of an eligible kind go
// through the structured path (layout engine plus document encoder), and any
// failure there is downgraded to one fallback attempt that composes
// pre-rendered page captures. Only the failure of both paths reaches the
// caller. Downgrades and fatal failures are reported through structured
// logging with the dataset kind, the strategy attempted, and the reason.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lvillar/reportpdf"
	"github.com/lvillar/reportpdf/encode"
	"github.com/lvillar/reportpdf/fallback"
	"github.com/lvillar/reportpdf/layout"
)

// DatasetProvider supplies the fully materialized table model for a report,
// independent of any UI-side row limits.
type DatasetProvider interface {
	Dataset(ctx context.Context, reportID string) (*reportpdf.TableModel, error)
}

// CaptureProvider returns the ordered per-page bitmap captures for a report.
// It is consulted only on the fallback path.
type CaptureProvider interface {
	Captures(ctx context.Context, reportID string) ([][]byte, error)
}

// CaptureProviderFunc adapts a function to the CaptureProvider interface.
type CaptureProviderFunc func(ctx context.Context, reportID string) ([][]byte, error)

// Captures calls f.
func (f CaptureProviderFunc) Captures(ctx context.Context, reportID string) ([][]byte, error) {
	return f(ctx, reportID)
}

// Orchestrator decides which rendering strategy produces a report artifact.
// Construct it with New; it is safe for concurrent use.
type Orchestrator struct {
	engine   layout.Engine
	encoder  *encode.Encoder
	renderer fallback.Renderer
	captures CaptureProvider
	datasets DatasetProvider
	log      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger for downgrade and failure events.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// WithBackend replaces the stock gofpdf rendering backend.
func WithBackend(b encode.Backend) Option {
	return func(o *Orchestrator) {
		o.encoder = encode.NewEncoder(b)
	}
}

// WithDatasetProvider sets the dataset collaborator used by RenderReport.
func WithDatasetProvider(p DatasetProvider) Option {
	return func(o *Orchestrator) {
		o.datasets = p
	}
}

// New creates an Orchestrator. The capture provider backs the fallback path;
// passing nil disables it, leaving structured rendering as the only path.
func New(captures CaptureProvider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		encoder:  encode.NewEncoder(nil),
		captures: captures,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Request carries everything one render call needs. A zero Config selects
// the package defaults.
type Request struct {
	ReportID    string
	DatasetKind string
	Model       *reportpdf.TableModel
	Config      reportpdf.LayoutConfig
}

// orchestration states; each is entered at most once per render.
type state int

const (
	stateEligible state = iota
	stateStructured
	stateFallback
)

// Render produces a single artifact for the request, or a RenderError if
// both rendering paths fail. Structured-path failures are never surfaced
// directly: they downgrade the render to the fallback path and are logged.
// Cancellation of ctx unwinds without returning a partial artifact.
func (o *Orchestrator) Render(ctx context.Context, req Request) (*reportpdf.RenderArtifact, error) {
	cfg := req.Config
	if cfg.PageSize == (reportpdf.PageSize{}) {
		cfg = reportpdf.DefaultConfig()
	}

	var structuredErr error
	st := stateEligible
	for {
		switch st {
		case stateEligible:
			if cfg.Eligible(req.DatasetKind) {
				st = stateStructured
				continue
			}
			o.log.Info("dataset kind not eligible for structured rendering",
				"report_id", req.ReportID,
				"dataset_kind", req.DatasetKind)
			st = stateFallback

		case stateStructured:
			artifact, err := o.renderStructured(ctx, req.Model, cfg)
			if err == nil {
				return artifact, nil
			}
			if ctx.Err() != nil {
				// Caller gave up; a degraded artifact is no longer wanted.
				return nil, ctx.Err()
			}
			structuredErr = err
			o.log.Warn("structured rendering failed, falling back",
				"report_id", req.ReportID,
				"dataset_kind", req.DatasetKind,
				"strategy", reportpdf.StrategyStructured.String(),
				"reason", err.Error())
			st = stateFallback

		case stateFallback:
			artifact, err := o.renderFallback(ctx, req.ReportID, cfg)
			if err == nil {
				return artifact, nil
			}
			renderErr := &reportpdf.RenderError{
				DatasetKind: req.DatasetKind,
				Structured:  structuredErr,
				Fallback:    err,
			}
			o.log.Error("report rendering failed",
				"report_id", req.ReportID,
				"dataset_kind", req.DatasetKind,
				"strategy", reportpdf.StrategyFallback.String(),
				"reason", err.Error())
			return nil, renderErr
		}
	}
}

// RenderReport fetches the model through the configured DatasetProvider and
// renders it. It requires WithDatasetProvider.
func (o *Orchestrator) RenderReport(ctx context.Context, reportID, datasetKind string, cfg reportpdf.LayoutConfig) (*reportpdf.RenderArtifact, error) {
	if o.datasets == nil {
		return nil, errors.New("report: no dataset provider configured")
	}
	model, err := o.datasets.Dataset(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("report: fetching dataset %s: %w", reportID, err)
	}
	return o.Render(ctx, Request{
		ReportID:    reportID,
		DatasetKind: datasetKind,
		Model:       model,
		Config:      cfg,
	})
}

func (o *Orchestrator) renderStructured(ctx context.Context, model *reportpdf.TableModel, cfg reportpdf.LayoutConfig) (*reportpdf.RenderArtifact, error) {
	start := time.Now()

	if err := model.Validate(); err != nil {
		return nil, err
	}
	cfg = layout.AutoSize(model, cfg)

	pages, err := o.engine.ComputePages(model, cfg)
	if err != nil {
		return nil, err
	}

	ectx := ctx
	if cfg.StructuredTimeout > 0 {
		var cancel context.CancelFunc
		ectx, cancel = context.WithTimeout(ctx, cfg.StructuredTimeout.Std())
		defer cancel()
	}

	out, err := o.encoder.Encode(ectx, model, pages, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = reportpdf.NewEncodingError("encode", reportpdf.ErrBackendTimeout)
		}
		return nil, err
	}

	o.log.Debug("structured render complete",
		"pages", len(pages),
		"bytes", len(out),
		"duration", time.Since(start))
	return &reportpdf.RenderArtifact{
		Bytes:     out,
		Strategy:  reportpdf.StrategyStructured,
		PageCount: len(pages),
	}, nil
}

func (o *Orchestrator) renderFallback(ctx context.Context, reportID string, cfg reportpdf.LayoutConfig) (*reportpdf.RenderArtifact, error) {
	if o.captures == nil {
		return nil, reportpdf.NewEncodingError("compose", errors.New("no capture provider configured"))
	}

	captures, err := o.captures.Captures(ctx, reportID)
	if err != nil {
		return nil, reportpdf.NewEncodingError("compose", err)
	}

	out, err := o.renderer.Compose(ctx, captures, cfg)
	if err != nil {
		return nil, err
	}
	return &reportpdf.RenderArtifact{
		Bytes:     out,
		Strategy:  reportpdf.StrategyFallback,
		PageCount: len(captures),
	}, nil
}
