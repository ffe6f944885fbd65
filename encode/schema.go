// Package encode serializes page descriptors into a final PDF document.
//
// The encoder owns a portable intermediate representation: a declarative,
// JSON-serializable markup with every layout decision already resolved —
// one entry per page, the repeated column header, per-row shading flags,
// and footer text with page numbers substituted in. A rendering backend
// consumes that markup and produces the binary document; the stock backend
// drives the gofpdf table builder.
package encode

// Document is the top-level intermediate representation describing an
// entire report PDF. All dimensions are in millimeters, font sizes in
// points.
type Document struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	PageWidth   float64  `json:"pageWidth"`
	PageHeight  float64  `json:"pageHeight"`
	Margin      Margin   `json:"margin"`
	Font        Font     `json:"font"`
	CellPadding float64  `json:"cellPadding,omitempty"`
	Columns     []Column `json:"columns"`
	Pages       []Page   `json:"pages"`
}

// Margin defines page margins.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Font specifies the base cell font.
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
}

// Column defines one column of the repeated table header.
type Column struct {
	Header string  `json:"header"`
	Width  float64 `json:"width,omitempty"` // 0 = auto
	Align  string  `json:"align,omitempty"` // L, C, R (default: L)
}

// Page is one fully resolved page: its slice of data rows and the footer
// text to draw. First marks the page that carries the title block.
type Page struct {
	Number int        `json:"number"`
	First  bool       `json:"first,omitempty"`
	Footer string     `json:"footer"`
	Rows   []TableRow `json:"rows"`
}

// TableRow is one data row. Shaded marks rows that get the alternating
// background fill; the flag is resolved against the row's position in the
// full dataset so striping stays continuous across page breaks.
type TableRow struct {
	Cells  []string `json:"cells"`
	Shaded bool     `json:"shaded,omitempty"`
}
