// Package layout assigns table rows to pages.
//
// The engine is pure and deterministic: given the same model and
// configuration it always produces the same sequence of page descriptors.
// It runs two passes because the total page count has to appear in every
// page's footer before any page is finalized: pass one measures and decides
// the row-to-page assignment, pass two materializes the descriptors with
// page numbering filled in.
package layout

import (
	"math"

	"github.com/lvillar/reportpdf"
)

// PageDescriptor is one page's worth of layout: a contiguous slice of the
// model's rows plus the footer and header metadata the encoder needs.
// Concatenating Rows across descriptors in page order reproduces the model's
// rows exactly.
type PageDescriptor struct {
	PageNumber     int
	TotalPages     int
	HeaderRepeated bool
	IsFirstPage    bool
	Rows           []reportpdf.Row
}

// Engine computes page layouts. It is stateless; the zero value is ready to
// use and safe for concurrent calls.
type Engine struct{}

// ComputePages splits the model's rows into pages. Rows are atomic: a row
// that does not fit in the remaining space moves to the next page whole, and
// a row taller than one full page is placed alone on its own page rather
// than rejected. An empty model yields exactly one page with zero rows so
// the title and description still render.
func (Engine) ComputePages(model *reportpdf.TableModel, cfg reportpdf.LayoutConfig) ([]PageDescriptor, error) {
	if len(model.Rows) > 0 && cfg.RowHeightEstimate <= 0 {
		return nil, &reportpdf.LayoutError{Reason: "row height estimate must be positive"}
	}
	contentH := cfg.ContentHeight()
	if len(model.Rows) > 0 && contentH <= 0 {
		return nil, &reportpdf.LayoutError{Reason: "page content area smaller than header and footer"}
	}

	// Pass 1: measure rows in order and record where pages start. The
	// first page's budget is reduced by the title block so the rows
	// assigned to it actually fit beneath it.
	starts := []int{0}
	used := 0.0
	avail := contentH - estimateTitleBlockHeight(model, cfg)
	for i, row := range model.Rows {
		h := estimateRowHeight(row, model, cfg)
		if used > 0 && used+h > avail {
			starts = append(starts, i)
			used = 0
			avail = contentH
		}
		used += h
	}

	// Pass 2: materialize one descriptor per page with the total count
	// known on every footer.
	total := len(starts)
	pages := make([]PageDescriptor, total)
	for p, start := range starts {
		end := len(model.Rows)
		if p+1 < total {
			end = starts[p+1]
		}
		pages[p] = PageDescriptor{
			PageNumber:     p + 1,
			TotalPages:     total,
			HeaderRepeated: true,
			IsFirstPage:    p == 0,
			Rows:           model.Rows[start:end],
		}
	}
	return pages, nil
}

const (
	// ptToMM converts font point sizes to millimeters.
	ptToMM = 0.3528
	// lineSpacing is the line height multiplier the table builder applies
	// when measuring wrapped cell text.
	lineSpacing = 1.5
	// minRowHeight is the table builder's floor for a body row, padding
	// included.
	minRowHeight = 5.0
)

// estimateRowHeight returns the height reserved for one row in millimeters,
// using the same formula the table builder realizes: the most-wrapped cell's
// line count times the line height, plus vertical padding, floored at the
// builder's minimum. Cell wrapping is estimated by character counting, so
// the per-line height is RowHeightEstimate clamped to no less than the
// font's drawn line height; rows may be budgeted slightly tall but never
// short, which keeps the builder from inserting page breaks of its own.
func estimateRowHeight(row reportpdf.Row, model *reportpdf.TableModel, cfg reportpdf.LayoutConfig) float64 {
	cols := len(model.Columns)
	if cols == 0 {
		cols = 1
	}
	colW := cfg.ContentWidth() / float64(cols)

	lines := 1
	for _, cell := range row {
		if n := wrappedLines(cell, colW, cfg.Font.Size); n > lines {
			lines = n
		}
	}

	lineH := cfg.RowHeightEstimate
	if drawn := cfg.Font.Size * ptToMM * lineSpacing; drawn > lineH {
		lineH = drawn
	}
	h := float64(lines)*lineH + 2*cfg.CellPadding
	if h < minRowHeight {
		h = minRowHeight
	}
	return h
}

// Title block metrics mirror renderTitleBlock in the encode package: title
// lines draw at 9mm in 18pt, description lines at 5.5mm in 11pt, each block
// followed by a 1mm gap, and the rule adds 4mm.
const (
	titleLineHeight = 9
	titleFontSize   = 18
	descLineHeight  = 5.5
	descFontSize    = 11
	titleRuleGap    = 4
	titleBlockGap   = 1
)

// estimateTitleBlockHeight returns the vertical space the title and
// description consume on the first page, zero when the model has neither.
func estimateTitleBlockHeight(model *reportpdf.TableModel, cfg reportpdf.LayoutConfig) float64 {
	if model.Title == "" && model.Description == "" {
		return 0
	}
	w := cfg.ContentWidth()
	h := 0.0
	if model.Title != "" {
		h += float64(wrappedLines(model.Title, w, titleFontSize))*titleLineHeight + titleBlockGap
	}
	if model.Description != "" {
		h += float64(wrappedLines(model.Description, w, descFontSize))*descLineHeight + titleBlockGap
	}
	return h + titleRuleGap
}

// wrappedLines estimates how many lines text occupies when wrapped to the
// given width at the given font size, at least one.
func wrappedLines(text string, width, fontSize float64) int {
	perLine := int(width / charWidthMM(fontSize))
	if perLine < 1 {
		perLine = 1
	}
	n := int(math.Ceil(float64(len(text)) / float64(perLine)))
	if n < 1 {
		n = 1
	}
	return n
}

// charWidthMM estimates the average glyph advance for a proportional font of
// the given point size. 1pt = 0.3528mm; the 0.5 factor matches the average
// width-to-size ratio of Helvetica.
func charWidthMM(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = 9
	}
	return fontSize * 0.5 * 0.3528
}
