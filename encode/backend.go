package encode

import (
	"bytes"
	"context"
	"fmt"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/lvillar/gofpdf/table"
)

// Report chrome colors, carried over from the web rendering of the same
// reports so both paths look alike.
var (
	titleColor      = table.RGBColor{R: 44, G: 62, B: 80}
	mutedColor      = table.RGBColor{R: 102, G: 102, B: 102}
	ruleColor       = table.RGBColor{R: 224, G: 224, B: 224}
	borderColor     = table.RGBColor{R: 222, G: 226, B: 230}
	headerFillColor = table.RGBColor{R: 248, G: 249, B: 250}
	headerTextColor = table.RGBColor{R: 73, G: 80, B: 87}
	shadeColor      = table.RGBColor{R: 248, G: 249, B: 250}
)

// Backend renders the intermediate representation to final document bytes.
// Implementations may block on I/O or CPU; they must honor ctx.
type Backend interface {
	Render(ctx context.Context, doc *Document) ([]byte, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, doc *Document) ([]byte, error)

// Render calls f.
func (f BackendFunc) Render(ctx context.Context, doc *Document) ([]byte, error) {
	return f(ctx, doc)
}

// FpdfBackend is the stock backend: it drives gofpdf and its table builder
// to realize the markup. The zero value is ready to use.
type FpdfBackend struct{}

// Render draws every page of doc into a fresh PDF document and returns the
// serialized bytes. Pagination is decided by the markup alone: auto page
// breaking is off with a zero break margin, because the table builder still
// consults that margin when deciding to break mid-table, and the layout
// engine budgets rows at or above their drawn height so the builder never
// reaches it.
func (FpdfBackend) Render(ctx context.Context, doc *Document) ([]byte, error) {
	pdf := gofpdf.NewDocument(
		gofpdf.WithUnit(gofpdf.UnitMillimeter),
		gofpdf.WithPageSizeCustom(doc.PageWidth, doc.PageHeight),
	)
	pdf.SetMargins(doc.Margin.Left, doc.Margin.Top, doc.Margin.Right)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(doc.Font.Family, "", doc.Font.Size)

	for i := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := renderPage(pdf, doc, &doc.Pages[i]); err != nil {
			return nil, fmt.Errorf("page %d: %w", doc.Pages[i].Number, err)
		}
	}

	if pdf.Err() {
		return nil, pdf.Error()
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPage(pdf *gofpdf.Fpdf, doc *Document, page *Page) error {
	pdf.AddPage()

	if page.First {
		renderTitleBlock(pdf, doc)
	}

	tbl := table.New(pdf)
	cols := make([]table.ColumnDef, len(doc.Columns))
	for i, c := range doc.Columns {
		cols[i] = table.ColumnDef{Width: c.Width, Align: c.Align}
	}
	tbl.SetColumns(cols...)
	tbl.SetStyle(table.TableStyle{
		CellPadding: table.UniformPadding(doc.CellPadding),
		Border:      &table.BorderStyle{Width: 0.2, Color: borderColor},
		CellFont:    &table.FontSpec{Family: doc.Font.Family, Size: doc.Font.Size},
		HeaderStyle: &table.CellStyle{
			FillColor: &headerFillColor,
			TextColor: &headerTextColor,
			Font:      &table.FontSpec{Family: doc.Font.Family, Style: "B", Size: doc.Font.Size},
		},
	})

	hr := tbl.AddHeaderRow()
	for _, c := range doc.Columns {
		hr.AddCell(c.Header)
	}

	for _, row := range page.Rows {
		r := tbl.AddRow()
		if row.Shaded {
			fill := shadeColor
			r.SetStyle(table.CellStyle{FillColor: &fill})
		}
		for _, cell := range row.Cells {
			r.AddCell(cell)
		}
	}

	if err := tbl.Render(); err != nil {
		return err
	}

	renderFooter(pdf, doc, page)
	return nil
}

// renderTitleBlock draws the title and description with a rule underneath,
// matching the report's web styling.
func renderTitleBlock(pdf *gofpdf.Fpdf, doc *Document) {
	if doc.Title == "" && doc.Description == "" {
		return
	}

	pageW, _ := pdf.GetPageSize()
	lm, _, rm, _ := pdf.GetMargins()
	contentW := pageW - lm - rm

	if doc.Title != "" {
		pdf.SetFont(doc.Font.Family, "B", 18)
		pdf.SetTextColor(titleColor.R, titleColor.G, titleColor.B)
		pdf.MultiCell(contentW, 9, doc.Title, "", "L", false)
		pdf.Ln(1)
	}
	if doc.Description != "" {
		pdf.SetFont(doc.Font.Family, "", 11)
		pdf.SetTextColor(mutedColor.R, mutedColor.G, mutedColor.B)
		pdf.MultiCell(contentW, 5.5, doc.Description, "", "L", false)
		pdf.Ln(1)
	}

	y := pdf.GetY()
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(ruleColor.R, ruleColor.G, ruleColor.B)
	pdf.Line(lm, y, pageW-rm, y)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Ln(4)

	pdf.SetFont(doc.Font.Family, "", doc.Font.Size)
	pdf.SetTextColor(0, 0, 0)
}

// renderFooter draws the resolved "Page X of Y" text centered inside the
// bottom margin.
func renderFooter(pdf *gofpdf.Fpdf, doc *Document, page *Page) {
	if page.Footer == "" {
		return
	}
	pdf.SetFont(doc.Font.Family, "", 10)
	pdf.SetTextColor(mutedColor.R, mutedColor.G, mutedColor.B)
	pdf.SetXY(doc.Margin.Left, doc.PageHeight-doc.Margin.Bottom+3)
	pdf.CellFormat(doc.PageWidth-doc.Margin.Left-doc.Margin.Right, 5, page.Footer, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(doc.Font.Family, "", doc.Font.Size)
}
