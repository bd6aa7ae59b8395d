package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer serializes content to a paginated PDF. Chart images go
// through one temporary raster file each; every temp file created is
// removed before Render returns, whether assembly succeeded or failed, and
// a failure never leaves a partial PDF anywhere because the document is
// built entirely in memory.
type PDFRenderer struct {
	// TempDir overrides where chart rasters are staged. Empty means the
	// system temp directory.
	TempDir string
}

func (pr PDFRenderer) Render(c Content) (out []byte, err error) {
	var tmpFiles []string
	defer func() {
		for _, path := range tmpFiles {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
				err = &ExportError{Format: "pdf", Err: fmt.Errorf("remove temp file %s: %w", path, rmErr)}
			}
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pageW, _ := pdf.GetPageSize()
	const margin = 10.0
	imageW := pageW - 2*margin

	// Page 1: title and KPIs.
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, pdfText("Thorfin Product Insights - "+c.Product), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range c.kpiLines() {
		pdf.CellFormat(0, 8, pdfText(line), "", 1, "L", false, 0, "")
	}
	if c.Metrics.TopRatedProduct != nil {
		pdf.CellFormat(0, 8, pdfText("Top rated product: "+*c.Metrics.TopRatedProduct), "", 1, "L", false, 0, "")
	}

	// One chart per page, in section order.
	for i, section := range c.Charts {
		tmp, werr := writeTempPNG(pr.TempDir, section.Artifact.PNG)
		if tmp != "" {
			tmpFiles = append(tmpFiles, tmp)
		}
		if werr != nil {
			return nil, &ExportError{Format: "pdf", Err: fmt.Errorf("stage chart %d: %w", i, werr)}
		}

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, pdfText(section.Title), "", 1, "L", false, 0, "")
		pdf.ImageOptions(tmp, margin, pdf.GetY()+4, imageW, 0, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		if pdf.Err() {
			return nil, &ExportError{Format: "pdf", Err: fmt.Errorf("embed chart %d: %w", i, pdf.Error())}
		}
	}

	// AI summary starts on its own page and runs as long as it needs.
	if c.Summary != "" {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "AI summary", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range strings.Split(c.Summary, "\n") {
			pdf.MultiCell(0, 6, pdfText(line), "", "L", false)
		}
	}

	if len(c.Excerpts) > 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Review excerpts", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range wrapText(strings.Join(c.Excerpts, "\n"), c.WrapWidth) {
			pdf.MultiCell(0, 6, pdfText(line), "", "L", false)
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.Ln(6)
	pdf.CellFormat(0, 6, "Generated "+c.GeneratedAt.Format("2006-01-02 15:04:05 UTC"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if oerr := pdf.Output(&buf); oerr != nil {
		return nil, &ExportError{Format: "pdf", Err: oerr}
	}
	return buf.Bytes(), nil
}

func writeTempPNG(dir string, png []byte) (string, error) {
	f, err := os.CreateTemp(dir, "thorfin_chart_*.png")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if _, err := f.Write(png); err != nil {
		_ = f.Close()
		return name, err
	}
	if err := f.Close(); err != nil {
		return name, err
	}
	return name, nil
}

// pdfText maps text onto the latin-1 set the built-in PDF fonts cover.
func pdfText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x100 {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
