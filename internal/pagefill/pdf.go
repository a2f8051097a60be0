package pagefill

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// A4 in PDF points, with the renderer's 15mm margins
const (
	a4HeightPt = 842.0
	marginPt   = 42.5
)

// PDFError reports a rendered document that could not be read
type PDFError struct {
	Message string
	Cause   error
}

func (e *PDFError) Error() string {
	if e.Cause != nil {
		return "pdf check failed: " + e.Message + ": " + e.Cause.Error()
	}
	return "pdf check failed: " + e.Message
}

func (e *PDFError) Unwrap() error {
	return e.Cause
}

// CheckPDF reads a rendered resume and classifies its page fill
func CheckPDF(path string) (Report, error) {
	fills, err := ReadFills(path)
	if err != nil {
		return Report{}, err
	}
	return Classify(fills), nil
}

// ReadFills estimates the fill of every page of the PDF at path from the
// position of its lowest text row.
func ReadFills(path string) ([]float64, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &PDFError{Message: "failed to open " + path, Cause: err}
	}
	defer f.Close()

	numPages := reader.NumPage()
	fills := make([]float64, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			fills = append(fills, 0)
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, &PDFError{Message: "failed to read text rows", Cause: err}
		}

		lowest, found := a4HeightPt, false
		for _, row := range rows {
			if !rowHasText(row) {
				continue
			}
			if y := float64(row.Position); y < lowest {
				lowest = y
			}
			found = true
		}
		if !found {
			fills = append(fills, 0)
			continue
		}
		fills = append(fills, FillFromLowestRow(pageHeight(page), lowest))
	}
	return fills, nil
}

func rowHasText(row *pdf.Row) bool {
	for _, t := range row.Content {
		if strings.TrimSpace(t.S) != "" {
			return true
		}
	}
	return false
}

func pageHeight(page pdf.Page) float64 {
	box := page.V.Key("MediaBox")
	if box.Len() == 4 {
		if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
			return h
		}
	}
	return a4HeightPt
}

// FillFromLowestRow converts the baseline of the lowest text row, measured
// from the bottom of the page, into a percentage of the printable height.
func FillFromLowestRow(height, lowestY float64) float64 {
	printable := height - 2*marginPt
	if printable <= 0 {
		return 0
	}
	used := height - marginPt - lowestY
	fill := used / printable * 100
	switch {
	case fill < 0:
		return 0
	case fill > 100:
		return 100
	default:
		return fill
	}
}
