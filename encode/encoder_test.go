package encode_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lvillar/gofpdf/reader"

	"github.com/lvillar/reportpdf"
	"github.com/lvillar/reportpdf/encode"
	"github.com/lvillar/reportpdf/layout"
)

func pagedModel(t *testing.T, rows, perPage int) (*reportpdf.TableModel, []layout.PageDescriptor) {
	t.Helper()
	model := &reportpdf.TableModel{
		Title:       "Inventory",
		Description: "Warehouse stock levels",
		Columns: []reportpdf.ColumnHeader{
			{Name: "sku", Index: 0},
			{Name: "qty", Index: 1},
		},
	}
	for i := 0; i < rows; i++ {
		model.Rows = append(model.Rows, reportpdf.Row{fmt.Sprintf("SKU-%04d", i), fmt.Sprintf("%d", i*3)})
	}

	total := (rows + perPage - 1) / perPage
	if total == 0 {
		total = 1
	}
	var pages []layout.PageDescriptor
	for p := 0; p < total; p++ {
		start := p * perPage
		end := start + perPage
		if end > rows {
			end = rows
		}
		pages = append(pages, layout.PageDescriptor{
			PageNumber:     p + 1,
			TotalPages:     total,
			HeaderRepeated: true,
			IsFirstPage:    p == 0,
			Rows:           model.Rows[start:end],
		})
	}
	return model, pages
}

func TestBuildDocument(t *testing.T) {
	model, pages := pagedModel(t, 7, 3)
	cfg := reportpdf.DefaultConfig()

	doc := encode.BuildDocument(model, pages, cfg)

	if doc.Title != "Inventory" || doc.Description != "Warehouse stock levels" {
		t.Errorf("title block = %q / %q", doc.Title, doc.Description)
	}
	if len(doc.Columns) != 2 || doc.Columns[0].Header != "sku" {
		t.Errorf("columns = %+v", doc.Columns)
	}
	if len(doc.Pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(doc.Pages))
	}

	wantFooters := []string{"Page 1 of 3", "Page 2 of 3", "Page 3 of 3"}
	for i, p := range doc.Pages {
		if p.Footer != wantFooters[i] {
			t.Errorf("page %d footer = %q, want %q", i+1, p.Footer, wantFooters[i])
		}
		if p.First != (i == 0) {
			t.Errorf("page %d First = %v", i+1, p.First)
		}
	}
}

func TestBuildDocumentContinuousShading(t *testing.T) {
	model, pages := pagedModel(t, 7, 3)
	doc := encode.BuildDocument(model, pages, reportpdf.DefaultConfig())

	// Shading is keyed by position in the full dataset, so the pattern must
	// not reset at page boundaries: rows 1, 3, 5 are shaded regardless of
	// which page they land on.
	pos := 0
	for _, p := range doc.Pages {
		for _, row := range p.Rows {
			want := pos%2 == 1
			if row.Shaded != want {
				t.Errorf("row %d Shaded = %v, want %v", pos, row.Shaded, want)
			}
			pos++
		}
	}
	if pos != 7 {
		t.Fatalf("document holds %d rows, want 7", pos)
	}

	// Page 2 opens with an odd global position; a per-page reset would
	// leave its first row unshaded.
	if !doc.Pages[1].Rows[0].Shaded {
		t.Error("first row of page 2 lost its shading across the page break")
	}
}

func TestEncodeUsesBackend(t *testing.T) {
	model, pages := pagedModel(t, 4, 2)

	var got *encode.Document
	backend := encode.BackendFunc(func(ctx context.Context, doc *encode.Document) ([]byte, error) {
		got = doc
		return []byte("%PDF-stub"), nil
	})

	out, err := encode.NewEncoder(backend).Encode(context.Background(), model, pages, reportpdf.DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(out) != "%PDF-stub" {
		t.Errorf("output = %q", out)
	}
	if got == nil || len(got.Pages) != 2 {
		t.Fatalf("backend received %+v", got)
	}
}

func TestEncodeBackendFailure(t *testing.T) {
	model, pages := pagedModel(t, 2, 2)

	backend := encode.BackendFunc(func(ctx context.Context, doc *encode.Document) ([]byte, error) {
		return nil, errors.New("renderer unavailable")
	})

	_, err := encode.NewEncoder(backend).Encode(context.Background(), model, pages, reportpdf.DefaultConfig())
	var encErr *reportpdf.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("got %v, want EncodingError", err)
	}
	if encErr.Op != "encode" {
		t.Errorf("Op = %q, want encode", encErr.Op)
	}
}

func TestEncodeEmptyBackendOutput(t *testing.T) {
	model, pages := pagedModel(t, 2, 2)

	backend := encode.BackendFunc(func(ctx context.Context, doc *encode.Document) ([]byte, error) {
		return nil, nil
	})

	_, err := encode.NewEncoder(backend).Encode(context.Background(), model, pages, reportpdf.DefaultConfig())
	if !errors.Is(err, reportpdf.ErrEmptyOutput) {
		t.Fatalf("got %v, want ErrEmptyOutput", err)
	}
}

func TestFpdfBackendRender(t *testing.T) {
	model, pages := pagedModel(t, 30, 12)

	out, err := encode.NewEncoder(nil).Encode(context.Background(), model, pages, reportpdf.DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	t.Logf("structured PDF: %d pages, %d bytes", len(pages), len(out))
}

func TestFpdfBackendPageCountMatchesLayout(t *testing.T) {
	// Pages computed by the layout engine must be the pages that physically
	// exist in the output. If the engine budgets rows shorter than the table
	// builder draws them, or ignores the title block, the builder inserts
	// breaks of its own and footers like "Page 2 of 2" end up on a third
	// physical page.
	model := &reportpdf.TableModel{
		Title:       "Inventory",
		Description: "Warehouse stock levels",
		Columns: []reportpdf.ColumnHeader{
			{Name: "sku", Index: 0},
			{Name: "qty", Index: 1},
		},
	}
	for i := 0; i < 60; i++ {
		model.Rows = append(model.Rows, reportpdf.Row{fmt.Sprintf("SKU-%04d", i), fmt.Sprintf("%d", i*3)})
	}
	cfg := reportpdf.NewConfig(reportpdf.WithAutoResizePage(false))

	var engine layout.Engine
	pages, err := engine.ComputePages(model, cfg)
	if err != nil {
		t.Fatalf("ComputePages: %v", err)
	}
	if len(pages) < 2 {
		t.Fatalf("model spans %d pages, want a multi-page layout", len(pages))
	}

	out, err := encode.NewEncoder(nil).Encode(context.Background(), model, pages, cfg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	doc, err := reader.ReadFrom(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("reading rendered output: %v", err)
	}
	if doc.NumPages() != len(pages) {
		t.Fatalf("layout computed %d pages but output has %d", len(pages), doc.NumPages())
	}
}

func TestFpdfBackendHonorsCancel(t *testing.T) {
	model, pages := pagedModel(t, 4, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := encode.NewEncoder(nil).Encode(ctx, model, pages, reportpdf.DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestEncodeEmptyDatasetStillRenders(t *testing.T) {
	model, pages := pagedModel(t, 0, 10)

	out, err := encode.NewEncoder(nil).Encode(context.Background(), model, pages, reportpdf.DefaultConfig())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
}
