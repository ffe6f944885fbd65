package reportpdf

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := &TableModel{
		Title:   "Sales",
		Columns: []ColumnHeader{{Name: "region", Index: 0}, {Name: "total", Index: 1}},
		Rows:    []Row{{"north", "100"}, {"south", "250"}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid model: %v", err)
	}
}

func TestValidateRejectsBadModels(t *testing.T) {
	tests := []struct {
		name  string
		model *TableModel
		want  string
	}{
		{
			name:  "nil model",
			model: nil,
			want:  "nil table model",
		},
		{
			name:  "no columns",
			model: &TableModel{Rows: []Row{{"a"}}},
			want:  "no columns",
		},
		{
			name: "unstable column index",
			model: &TableModel{
				Columns: []ColumnHeader{{Name: "a", Index: 0}, {Name: "b", Index: 5}},
			},
			want: "index 5",
		},
		{
			name: "ragged row",
			model: &TableModel{
				Columns: []ColumnHeader{{Name: "a", Index: 0}, {Name: "b", Index: 1}},
				Rows:    []Row{{"x", "y"}, {"z"}},
			},
			want: "row 1 has 1 cells",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestStrategyString(t *testing.T) {
	if got := StrategyStructured.String(); got != "structured" {
		t.Errorf("StrategyStructured = %q", got)
	}
	if got := StrategyFallback.String(); got != "fallback" {
		t.Errorf("StrategyFallback = %q", got)
	}
}
