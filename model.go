// Package reportpdf renders large tabular datasets into paginated PDF report
// artifacts: repeated column headers, continuous row shading, "Page X of Y"
// footers, and an optional title/description block on the first page.
//
// The package is split the same way the rendering pipeline is: layout decides
// which rows land on which page, encode turns pages into a portable document
// markup and drives a PDF backend, fallback composes pre-rendered page
// captures when the structured path is unavailable, and report ties the two
// strategies together with a single fallback policy.
//
// This root package holds the shared data model, configuration, and error
// taxonomy used by the subpackages.
package reportpdf

import (
	"errors"
	"fmt"
)

// ColumnHeader describes a single table column. Index is the stable,
// zero-based position of the column and defines left-to-right layout order.
type ColumnHeader struct {
	Name  string
	Index int
}

// Row is one data row. Cells are aligned with TableModel.Columns by index.
type Row []string

// TableModel is the normalized, in-memory representation of a dataset to
// render. It is owned by the caller and read-only to the rendering pipeline;
// rows are never split across page boundaries.
type TableModel struct {
	Title       string
	Description string
	Columns     []ColumnHeader
	Rows        []Row
}

// Validate checks the structural invariants of the model: at least one
// column, column indexes forming a stable 0..n-1 sequence, and every row
// carrying exactly one cell per column.
func (m *TableModel) Validate() error {
	if m == nil {
		return errors.New("reportpdf: nil table model")
	}
	if len(m.Columns) == 0 {
		return errors.New("reportpdf: table model has no columns")
	}
	for i, col := range m.Columns {
		if col.Index != i {
			return fmt.Errorf("reportpdf: column %q has index %d, want %d", col.Name, col.Index, i)
		}
	}
	for i, row := range m.Rows {
		if len(row) != len(m.Columns) {
			return fmt.Errorf("reportpdf: row %d has %d cells, want %d", i, len(row), len(m.Columns))
		}
	}
	return nil
}

// Strategy identifies which rendering path produced an artifact.
type Strategy int

const (
	// StrategyStructured means the artifact was produced from the data model
	// directly: searchable text and true pagination.
	StrategyStructured Strategy = iota

	// StrategyFallback means the artifact was composed from pre-rendered
	// bitmap page captures.
	StrategyFallback
)

func (s Strategy) String() string {
	switch s {
	case StrategyStructured:
		return "structured"
	case StrategyFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// RenderArtifact is the final product of one render call: the PDF bytes plus
// metadata about how they were produced. It is created once per call,
// immutable, and owned by the caller; the pipeline keeps no reference.
type RenderArtifact struct {
	Bytes     []byte
	Strategy  Strategy
	PageCount int
}
