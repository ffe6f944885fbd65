package layout

import "github.com/lvillar/reportpdf"

// Pixel-based width estimation constants. Widths are estimated in CSS
// pixels at roughly 8px per character and converted to millimeters at
// 3.78px/mm when a custom page size is needed.
const (
	baseTableWidth   = 80  // allowance for the index column
	minTableWidth    = 300 // floor for empty tables
	minColumnWidth   = 80
	maxColumnWidth   = 250
	emptyCellWidth   = 30
	longContentWidth = 400 // cap for cells longer than longContentChars
	longContentChars = 50
	charPixels       = 8
	headerPadding    = 20
	cellPadding      = 16
	sampleRows       = 10

	pixelsPerMM  = 3.78
	customMargin = 40 // 2cm margins on each side, in mm

	minCustomWidthMM = 420  // at least A3 landscape width
	maxCustomWidthMM = 1682 // at most A0 width
)

// EstimateTableWidth estimates the width in pixels required to lay out the
// model's table without truncation. Per column it takes the larger of the
// header width and the average content width over a sample of the first few
// rows, clamped between the per-column floor and cap.
func EstimateTableWidth(model *reportpdf.TableModel) int {
	if len(model.Rows) == 0 {
		return minTableWidth
	}

	total := float64(baseTableWidth)
	sample := len(model.Rows)
	if sample > sampleRows {
		sample = sampleRows
	}

	for _, col := range model.Columns {
		headerW := float64(len(col.Name)*charPixels + headerPadding)

		contentTotal := 0.0
		for _, row := range model.Rows[:sample] {
			cell := ""
			if col.Index < len(row) {
				cell = row[col.Index]
			}
			switch {
			case cell == "":
				contentTotal += emptyCellWidth
			case len(cell) > longContentChars:
				contentTotal += longContentWidth
			default:
				contentTotal += float64(len(cell)*charPixels + cellPadding)
			}
		}
		avgContent := contentTotal / float64(sample)

		colW := headerW
		if avgContent > colW {
			colW = avgContent
		}
		if colW < minColumnWidth {
			colW = minColumnWidth
		}
		if colW > maxColumnWidth {
			colW = maxColumnWidth
		}
		total += colW
	}

	return int(total)
}

// SelectPageSize picks the smallest standard page that fits a table of the
// given estimated pixel width, stepping from A4 portrait through landscape
// A-series pages and finally to a custom extra-wide page. It returns the
// page size and the margins conventionally paired with it.
func SelectPageSize(widthPx int) (reportpdf.PageSize, reportpdf.Margins) {
	switch {
	case widthPx <= 550: // A4 portrait usable width
		return reportpdf.PageSize{Width: 210, Height: 297},
			reportpdf.Margins{Top: 20, Right: 15, Bottom: 20, Left: 15}
	case widthPx <= 750: // A4 landscape
		return reportpdf.PageSize{Width: 297, Height: 210},
			reportpdf.Margins{Top: 15, Right: 20, Bottom: 15, Left: 20}
	case widthPx <= 1050: // A3 portrait
		return reportpdf.PageSize{Width: 297, Height: 420},
			reportpdf.Margins{Top: 20, Right: 15, Bottom: 20, Left: 15}
	case widthPx <= 1400: // A3 landscape
		return reportpdf.PageSize{Width: 420, Height: 297},
			reportpdf.Margins{Top: 15, Right: 20, Bottom: 15, Left: 20}
	case widthPx <= 2000: // A2 landscape
		return reportpdf.PageSize{Width: 594, Height: 420},
			reportpdf.Margins{Top: 20, Right: 25, Bottom: 20, Left: 25}
	}

	// Very wide table: size the page to the content.
	widthMM := float64(widthPx)/pixelsPerMM + customMargin
	if widthMM < minCustomWidthMM {
		widthMM = minCustomWidthMM
	}
	if widthMM > maxCustomWidthMM {
		widthMM = maxCustomWidthMM
	}
	return reportpdf.PageSize{Width: widthMM, Height: 420},
		reportpdf.Margins{Top: 20, Right: 20, Bottom: 20, Left: 20}
}

// AutoSize returns a copy of cfg with the page size and margins replaced by
// the width-based selection for model. It is a no-op when AutoResizePage is
// disabled.
func AutoSize(model *reportpdf.TableModel, cfg reportpdf.LayoutConfig) reportpdf.LayoutConfig {
	if !cfg.AutoResizePage {
		return cfg
	}
	size, margins := SelectPageSize(EstimateTableWidth(model))
	cfg.PageSize = size
	cfg.Margins = margins
	return cfg
}
