package encode

import (
	"context"
	"fmt"

	"github.com/lvillar/reportpdf"
	"github.com/lvillar/reportpdf/layout"
)

// Encoder turns a model plus its computed page layout into PDF bytes by
// building the intermediate representation and handing it to a backend.
type Encoder struct {
	backend Backend
}

// NewEncoder creates an Encoder using the given backend. A nil backend
// selects the stock gofpdf backend.
func NewEncoder(backend Backend) *Encoder {
	if backend == nil {
		backend = FpdfBackend{}
	}
	return &Encoder{backend: backend}
}

// Encode builds the intermediate representation for the given pages and
// invokes the backend. The backend call may block on CPU-heavy rendering;
// ctx cancellation and deadlines are respected between pages. Any backend
// failure, including an empty result, is reported as an EncodingError.
func (e *Encoder) Encode(ctx context.Context, model *reportpdf.TableModel, pages []layout.PageDescriptor, cfg reportpdf.LayoutConfig) ([]byte, error) {
	doc := BuildDocument(model, pages, cfg)

	out, err := e.backend.Render(ctx, doc)
	if err != nil {
		return nil, reportpdf.NewEncodingError("encode", err)
	}
	if len(out) == 0 {
		return nil, reportpdf.NewEncodingError("encode", reportpdf.ErrEmptyOutput)
	}
	return out, nil
}

// BuildDocument produces the deterministic intermediate representation for
// the given model and page layout. Footer page numbers are substituted here,
// and row shading is keyed by each row's position within the full dataset,
// not its position on the page.
func BuildDocument(model *reportpdf.TableModel, pages []layout.PageDescriptor, cfg reportpdf.LayoutConfig) *Document {
	doc := &Document{
		Title:       model.Title,
		Description: model.Description,
		PageWidth:   cfg.PageSize.Width,
		PageHeight:  cfg.PageSize.Height,
		Margin: Margin{
			Top:    cfg.Margins.Top,
			Right:  cfg.Margins.Right,
			Bottom: cfg.Margins.Bottom,
			Left:   cfg.Margins.Left,
		},
		Font:        Font{Family: cfg.Font.Family, Size: cfg.Font.Size},
		CellPadding: cfg.CellPadding,
		Columns:     make([]Column, len(model.Columns)),
		Pages:       make([]Page, 0, len(pages)),
	}
	for i, col := range model.Columns {
		doc.Columns[i] = Column{Header: col.Name}
	}

	pos := 0 // position within the full dataset
	for _, pd := range pages {
		page := Page{
			Number: pd.PageNumber,
			First:  pd.IsFirstPage,
			Footer: fmt.Sprintf("Page %d of %d", pd.PageNumber, pd.TotalPages),
			Rows:   make([]TableRow, 0, len(pd.Rows)),
		}
		for _, row := range pd.Rows {
			page.Rows = append(page.Rows, TableRow{
				Cells:  row,
				Shaded: pos%2 == 1,
			})
			pos++
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}
