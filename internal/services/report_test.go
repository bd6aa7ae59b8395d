package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thorfin/insights-backend/internal/charts"
	"github.com/thorfin/insights-backend/internal/config"
	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
)

type stubSummarizer struct {
	out   string
	err   error
	calls int
}

func (s *stubSummarizer) Summarize(ctx context.Context, reviews []string, instruction string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

func productView(n int) *domain.Dataset {
	ds := &domain.Dataset{
		Columns: []string{domain.ColProduct, domain.ColPrice, domain.ColRating, domain.ColReviewText},
	}
	for i := 0; i < n; i++ {
		price := float64(10 + i)
		rating := float64(1 + i%5)
		ds.Records = append(ds.Records, domain.Record{
			Product:    "Widget A",
			Price:      &price,
			Rating:     &rating,
			ReviewText: fmt.Sprintf("review number %d, quite decent", i),
		})
	}
	return ds
}

func testReportService(t *testing.T, summarizer Summarizer) (ReportService, string) {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Export.Dir = t.TempDir()
	renderer, err := charts.NewRenderer(log, cfg)
	require.NoError(t, err)
	return NewReportService(log, renderer, summarizer, cfg), cfg.Export.Dir
}

func TestGenerate_HTMLWritesFileAndReturnsBytes(t *testing.T) {
	svc, exportDir := testReportService(t, nil)

	res, err := svc.Generate(context.Background(), ReportRequest{
		View:    productView(12),
		Product: "Widget A",
		Format:  FormatHTML,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.Filename, "Widget_A_report_"))
	require.True(t, strings.HasSuffix(res.Filename, ".html"))
	require.Contains(t, string(res.Bytes), "Widget A")

	onDisk, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	require.Equal(t, res.Bytes, onDisk)

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no stray temp files may remain in the export dir")
}

func TestGenerate_PDF(t *testing.T) {
	svc, _ := testReportService(t, nil)

	res, err := svc.Generate(context.Background(), ReportRequest{
		View:    productView(12),
		Product: "Widget A",
		Format:  FormatPDF,
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF")))
	require.True(t, strings.HasSuffix(res.Filename, ".pdf"))
}

func TestGenerate_InlineSummaryIncluded(t *testing.T) {
	stub := &stubSummarizer{out: "Customers praise the build quality."}
	svc, _ := testReportService(t, stub)

	res, err := svc.Generate(context.Background(), ReportRequest{
		View:        productView(6),
		Product:     "Widget A",
		Format:      FormatHTML,
		Instruction: "summarize",
	})
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)
	require.Contains(t, string(res.Bytes), "Customers praise the build quality.")
}

func TestGenerate_InlineSummaryFailureDegrades(t *testing.T) {
	stub := &stubSummarizer{err: &ExternalServiceError{StatusCode: 500, Err: errors.New("down")}}
	svc, _ := testReportService(t, stub)

	res, err := svc.Generate(context.Background(), ReportRequest{
		View:        productView(6),
		Product:     "Widget A",
		Format:      FormatHTML,
		Instruction: "summarize",
	})
	require.NoError(t, err, "a failed inline summary must not fail the report")
	require.NotContains(t, string(res.Bytes), "AI summary")
}

func TestGenerate_PrecomputedSummarySkipsSummarizer(t *testing.T) {
	stub := &stubSummarizer{out: "should not be used"}
	svc, _ := testReportService(t, stub)

	res, err := svc.Generate(context.Background(), ReportRequest{
		View:        productView(6),
		Product:     "Widget A",
		Format:      FormatHTML,
		Summary:     "Previously generated summary.",
		Instruction: "summarize",
	})
	require.NoError(t, err)
	require.Equal(t, 0, stub.calls)
	require.Contains(t, string(res.Bytes), "Previously generated summary.")
}

func TestGenerate_UnknownFormat(t *testing.T) {
	svc, _ := testReportService(t, nil)
	_, err := svc.Generate(context.Background(), ReportRequest{
		View:    productView(3),
		Product: "Widget A",
		Format:  ReportFormat("docx"),
	})
	require.Error(t, err)
}

func TestParseReportFormat(t *testing.T) {
	for in, want := range map[string]ReportFormat{"": FormatHTML, "html": FormatHTML, "pdf": FormatPDF} {
		got, err := ParseReportFormat(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseReportFormat("docx")
	require.Error(t, err)
}
