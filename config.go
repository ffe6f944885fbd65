package reportpdf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "30s" or "2m".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// PageSize gives physical page dimensions in millimeters.
type PageSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Margins give per-edge page spacing in millimeters.
type Margins struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// FontSpec names the base font used for table cells.
type FontSpec struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"` // in points
}

// LayoutConfig carries every knob the rendering pipeline reads. It is passed
// explicitly per call so concurrent renders stay independent; nothing in the
// pipeline mutates it.
type LayoutConfig struct {
	PageSize PageSize `yaml:"page_size"`
	Margins  Margins  `yaml:"margins"`
	Font     FontSpec `yaml:"font"`

	// RowHeightEstimate is the height budgeted for a single text line in a
	// data row, in millimeters. It drives how many rows fit per page and is
	// clamped so it never falls below the line height the backend draws.
	RowHeightEstimate float64 `yaml:"row_height_estimate"`

	// CellPadding is the inner padding applied on every side of a table
	// cell, in millimeters. Both the layout engine and the backend read it
	// so measured and drawn row heights agree.
	CellPadding float64 `yaml:"cell_padding"`

	// HeaderHeight and FooterHeight reserve space on every page for the
	// repeated column header row and the page-number footer.
	HeaderHeight float64 `yaml:"header_height"`
	FooterHeight float64 `yaml:"footer_height"`

	// EligibleKinds lists the dataset kinds allowed to use structured
	// layout. Kinds not listed here go straight to the fallback path.
	EligibleKinds []string `yaml:"eligible_kinds"`

	// AutoResizePage lets the layout engine grow the page (A4 portrait up
	// to a custom extra-wide page) based on the estimated table width.
	AutoResizePage bool `yaml:"auto_resize_page"`

	// StructuredTimeout bounds one structured backend invocation. Zero
	// means no timeout. Exceeding it is an encoding failure and triggers
	// the fallback path rather than hanging the caller.
	StructuredTimeout Duration `yaml:"structured_timeout"`
}

// Eligible reports whether a dataset kind qualifies for structured rendering.
func (c LayoutConfig) Eligible(kind string) bool {
	for _, k := range c.EligibleKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ContentWidth returns the horizontal space available to table content.
func (c LayoutConfig) ContentWidth() float64 {
	return c.PageSize.Width - c.Margins.Left - c.Margins.Right
}

// ContentHeight returns the vertical space available to data rows: page
// height minus margins, repeated header, and footer.
func (c LayoutConfig) ContentHeight() float64 {
	return c.PageSize.Height - c.Margins.Top - c.Margins.Bottom - c.HeaderHeight - c.FooterHeight
}

// Option is a functional option for building a LayoutConfig via NewConfig.
type Option func(*LayoutConfig)

// WithPageSize sets the physical page dimensions in millimeters.
func WithPageSize(width, height float64) Option {
	return func(c *LayoutConfig) {
		c.PageSize = PageSize{Width: width, Height: height}
	}
}

// WithMargins sets the per-edge page margins in millimeters.
func WithMargins(top, right, bottom, left float64) Option {
	return func(c *LayoutConfig) {
		c.Margins = Margins{Top: top, Right: right, Bottom: bottom, Left: left}
	}
}

// WithFont sets the base cell font.
func WithFont(family string, size float64) Option {
	return func(c *LayoutConfig) {
		c.Font = FontSpec{Family: family, Size: size}
	}
}

// WithRowHeightEstimate sets the estimated single-line row height in
// millimeters.
func WithRowHeightEstimate(h float64) Option {
	return func(c *LayoutConfig) {
		c.RowHeightEstimate = h
	}
}

// WithCellPadding sets the per-side cell padding in millimeters.
func WithCellPadding(p float64) Option {
	return func(c *LayoutConfig) {
		c.CellPadding = p
	}
}

// WithEligibleKinds sets the dataset kinds allowed to use structured layout.
func WithEligibleKinds(kinds ...string) Option {
	return func(c *LayoutConfig) {
		c.EligibleKinds = kinds
	}
}

// WithAutoResizePage enables or disables width-based page size selection.
func WithAutoResizePage(enabled bool) Option {
	return func(c *LayoutConfig) {
		c.AutoResizePage = enabled
	}
}

// WithStructuredTimeout bounds the structured backend invocation.
func WithStructuredTimeout(d time.Duration) Option {
	return func(c *LayoutConfig) {
		c.StructuredTimeout = Duration(d)
	}
}

// DefaultConfig returns the stock configuration: A4 portrait, 2cm top and
// bottom margins, 1.5cm side margins, Helvetica 9pt cells, and the tabular
// dataset kinds eligible for structured rendering.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		PageSize:          PageSize{Width: 210, Height: 297},
		Margins:           Margins{Top: 20, Right: 15, Bottom: 20, Left: 15},
		Font:              FontSpec{Family: "Helvetica", Size: 9},
		RowHeightEstimate: 6,
		CellPadding:       1.5,
		HeaderHeight:      8,
		FooterHeight:      10,
		EligibleKinds:     []string{"table", "pivot_table"},
		AutoResizePage:    true,
		StructuredTimeout: Duration(30 * time.Second),
	}
}

// NewConfig builds a LayoutConfig from the defaults plus the given options.
//
// Example:
//
//	cfg := reportpdf.NewConfig(
//	    reportpdf.WithPageSize(297, 210),
//	    reportpdf.WithEligibleKinds("table"),
//	)
func NewConfig(opts ...Option) LayoutConfig {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// LoadConfig reads a YAML layout configuration from path, layered over the
// defaults. Fields absent from the file keep their default values.
func LoadConfig(path string) (LayoutConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LayoutConfig{}, fmt.Errorf("reportpdf: reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return LayoutConfig{}, fmt.Errorf("reportpdf: parsing config: %w", err)
	}
	return cfg, nil
}
