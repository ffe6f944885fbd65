// Package fallback composes pre-rendered bitmap page captures into a PDF.
//
// It is the degraded rendering path: page boundaries are whatever the
// capture-producing mechanism already decided, and each capture becomes
// exactly one page. Captures in PNG, JPEG, BMP, and TIFF formats are
// accepted; anything with transparency is flattened onto white before
// embedding.
package fallback

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	gofpdf "github.com/lvillar/gofpdf"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/lvillar/reportpdf"
)

// pixelsPerMM converts capture pixels to page millimeters at 96 DPI.
const pixelsPerMM = 3.78

// Renderer composes captures into documents. It is stateless; the zero
// value is ready to use and safe for concurrent calls.
type Renderer struct{}

// Compose places each capture on its own page, scaled down only as far as
// needed to fit inside the configured margins, and returns the PDF bytes.
// It fails with an EncodingError if captures is empty, the margins leave no
// drawable area, or any capture cannot be decoded.
func (Renderer) Compose(ctx context.Context, captures [][]byte, cfg reportpdf.LayoutConfig) ([]byte, error) {
	if len(captures) == 0 {
		return nil, reportpdf.NewEncodingError("compose", reportpdf.ErrNoCaptures)
	}

	pdf := gofpdf.NewDocument(
		gofpdf.WithUnit(gofpdf.UnitMillimeter),
		gofpdf.WithPageSizeCustom(cfg.PageSize.Width, cfg.PageSize.Height),
	)
	pdf.SetMargins(cfg.Margins.Left, cfg.Margins.Top, cfg.Margins.Right)
	pdf.SetAutoPageBreak(false, cfg.Margins.Bottom)

	contentW := cfg.PageSize.Width - cfg.Margins.Left - cfg.Margins.Right
	contentH := cfg.PageSize.Height - cfg.Margins.Top - cfg.Margins.Bottom
	if contentW <= 0 || contentH <= 0 {
		return nil, reportpdf.NewEncodingError("compose",
			fmt.Errorf("margins leave no drawable area on a %gx%gmm page", cfg.PageSize.Width, cfg.PageSize.Height))
	}

	for i, capture := range captures {
		if err := ctx.Err(); err != nil {
			return nil, reportpdf.NewEncodingError("compose", err)
		}

		img, _, err := image.Decode(bytes.NewReader(capture))
		if err != nil {
			return nil, reportpdf.NewEncodingError("compose", fmt.Errorf("capture %d: %w", i+1, err))
		}

		encoded, err := flattenToPNG(img)
		if err != nil {
			return nil, reportpdf.NewEncodingError("compose", fmt.Errorf("capture %d: %w", i+1, err))
		}

		b := img.Bounds()
		wMM := float64(b.Dx()) / pixelsPerMM
		hMM := float64(b.Dy()) / pixelsPerMM

		// Shrink to fit within margins; never upscale.
		scale := 1.0
		if wMM > contentW {
			scale = contentW / wMM
		}
		if s := contentH / hMM; s < scale {
			scale = s
		}
		wMM *= scale
		hMM *= scale

		name := fmt.Sprintf("capture-%d", i+1)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(encoded))

		pdf.AddPage()
		x := cfg.Margins.Left + (contentW-wMM)/2
		pdf.ImageOptions(name, x, cfg.Margins.Top, wMM, hMM, false, opts, 0, "")
	}

	if pdf.Err() {
		return nil, reportpdf.NewEncodingError("compose", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, reportpdf.NewEncodingError("compose", err)
	}
	return buf.Bytes(), nil
}

// flattenToPNG draws img over a white background and re-encodes it as PNG,
// normalizing formats gofpdf cannot embed directly and removing alpha.
func flattenToPNG(img image.Image) ([]byte, error) {
	b := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
