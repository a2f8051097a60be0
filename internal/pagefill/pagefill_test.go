package pagefill

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		fills     []float64
		status    Status
		suggested int
	}{
		{"no pages", nil, OnTarget, 0},
		{"single full page", []float64{92}, OnTarget, 0},
		{"single page at threshold", []float64{85}, OnTarget, 0},
		{"underfilled page", []float64{69}, NeedsMoreContent, 5},
		{"slightly underfilled uses minimum", []float64{84}, NeedsMoreContent, 3},
		{"single sparse page still needs content", []float64{15}, NeedsMoreContent, 16},
		{"sparse trailing page", []float64{100, 12}, NeedsConsolidation, 0},
		{"trailing page at 20 is not sparse", []float64{100, 20}, NeedsMoreContent, 15},
		{"half trailing page", []float64{98, 50}, NeedsMoreContent, 9},
		{"two full pages", []float64{97, 90}, OnTarget, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.fills)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.suggested, got.SuggestedBullets)
			assert.Equal(t, len(tt.fills), got.Pages)
		})
	}
}

func TestClassify_Suggestion(t *testing.T) {
	report := Classify([]float64{69})
	assert.Equal(t, "Page 1 is 69% full; add at least 5 more quantified bullets", report.Suggestion)

	report = Classify([]float64{100, 12})
	assert.Contains(t, report.Suggestion, "consolidate")
	assert.Equal(t, 12.0, report.LastPageFill)
}

func TestClassify_CopiesInput(t *testing.T) {
	fills := []float64{90, 40}
	report := Classify(fills)
	fills[1] = 0
	assert.Equal(t, 40.0, report.PageFills[1])
}

func TestImprovementBulletCount(t *testing.T) {
	assert.Equal(t, 7, ImprovementBulletCount(nil))

	underfilled := Classify([]float64{69})
	assert.Equal(t, 9, ImprovementBulletCount(&underfilled))

	moderate := Classify([]float64{84})
	assert.Equal(t, 6, ImprovementBulletCount(&moderate))

	sparse := Classify([]float64{100, 10})
	assert.Equal(t, 7, ImprovementBulletCount(&sparse))
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(Report{Status: NeedsConsolidation})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"needs_consolidation"`)

	var report Report
	require.NoError(t, json.Unmarshal([]byte(`{"status":"needs_more_content"}`), &report))
	assert.Equal(t, NeedsMoreContent, report.Status)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"full"}`), &report))
	assert.Equal(t, "status(9)", Status(9).String())
}

func TestFillFromLowestRow(t *testing.T) {
	assert.InDelta(t, 100.0, FillFromLowestRow(842, 42.5), 0.001)
	assert.InDelta(t, 50.0, FillFromLowestRow(842, 421), 0.001)
	assert.Equal(t, 0.0, FillFromLowestRow(842, 900))
	assert.Equal(t, 100.0, FillFromLowestRow(842, 0))
	assert.Equal(t, 0.0, FillFromLowestRow(50, 10))
}

func TestCheckPDF_MissingFile(t *testing.T) {
	_, err := CheckPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	var pdfErr *PDFError
	require.True(t, errors.As(err, &pdfErr))
}
