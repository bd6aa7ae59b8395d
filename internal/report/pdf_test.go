package report

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thorfin/insights-backend/internal/charts"
	"github.com/thorfin/insights-backend/internal/domain"
)

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	img.SetNRGBA(2, 2, color.NRGBA{R: 0x20, G: 0x60, B: 0xC0, A: 0xFF})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func tempEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestPDFRender_ProducesDocumentAndCleansTempFiles(t *testing.T) {
	dir := t.TempDir()
	pr := PDFRenderer{TempDir: dir}

	avg := 4.2
	c := Content{
		Product: "Widget A",
		Metrics: domain.MetricsSnapshot{Count: 3, AvgRating: &avg},
		Charts: []ChartSection{
			{Title: "Rating distribution", Artifact: &charts.Artifact{Type: charts.TypeRatingHistogram, PNG: smallPNG(t)}},
		},
		Summary:     "Buyers like it.\nBattery concerns.",
		Excerpts:    []string{"great value", "battery meh"},
		WrapWidth:   80,
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	out, err := pr.Render(c)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output is not a PDF")
	require.Equal(t, 0, tempEntries(t, dir), "temp files must be removed after success")
}

func TestPDFRender_FailureLeavesNoTempFilesAndNoOutput(t *testing.T) {
	dir := t.TempDir()
	pr := PDFRenderer{TempDir: dir}

	c := Content{
		Product: "Widget A",
		Charts: []ChartSection{
			{Title: "Rating distribution", Artifact: &charts.Artifact{Type: charts.TypeRatingHistogram, PNG: []byte("not a png")}},
		},
		GeneratedAt: time.Now().UTC(),
	}

	out, err := pr.Render(c)
	require.Error(t, err)
	require.Nil(t, out)

	var expErr *ExportError
	require.True(t, errors.As(err, &expErr))
	require.Equal(t, "pdf", expErr.Format)
	require.Equal(t, 0, tempEntries(t, dir), "temp files must be removed after failure")
}

func TestPDFRender_NoChartsStillRenders(t *testing.T) {
	pr := PDFRenderer{TempDir: t.TempDir()}
	c := Content{Product: "Widget A", GeneratedAt: time.Now().UTC()}
	out, err := pr.Render(c)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
