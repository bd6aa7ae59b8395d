package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thorfin/insights-backend/internal/charts"
	"github.com/thorfin/insights-backend/internal/config"
	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
	"github.com/thorfin/insights-backend/internal/metrics"
	"github.com/thorfin/insights-backend/internal/report"
)

// ReportFormat selects the serialization target.
type ReportFormat string

const (
	FormatHTML ReportFormat = "html"
	FormatPDF  ReportFormat = "pdf"
)

// ParseReportFormat validates a user-supplied format string. An empty string
// defaults to HTML.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case FormatHTML, "":
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// ReportRequest describes one "generate report" action. The view must
// already be filtered and product-selected; everything in the report
// derives from it, so stale and fresh data cannot mix.
type ReportRequest struct {
	View    *domain.Dataset
	Product string
	Format  ReportFormat

	// Summary carries a previously generated summary verbatim. When empty
	// and Instruction is set, the service generates one inline; a failed
	// inline generation degrades to a report without a summary section.
	Summary     string
	Instruction string
}

// ReportResult is the durable artifact: the bytes and where they were
// written. The assembled report itself is discarded after serialization.
type ReportResult struct {
	Filename string
	Path     string
	Bytes    []byte
}

// ReportService assembles metrics, charts and the optional AI summary for
// one product view and serializes the result to HTML or PDF.
type ReportService interface {
	Generate(ctx context.Context, req ReportRequest) (*ReportResult, error)
}

type reportService struct {
	log        *logger.Logger
	renderer   *charts.Renderer
	summarizer Summarizer
	tuning     config.TuningConfig
	exportDir  string
	pdf        report.PDFRenderer
}

func NewReportService(log *logger.Logger, renderer *charts.Renderer, summarizer Summarizer, cfg config.Config) ReportService {
	return &reportService{
		log:        log.With("service", "ReportService"),
		renderer:   renderer,
		summarizer: summarizer,
		tuning:     cfg.Tuning,
		exportDir:  cfg.Export.Dir,
	}
}

func (s *reportService) Generate(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	if req.Format != FormatHTML && req.Format != FormatPDF {
		return nil, fmt.Errorf("unknown report format %q", req.Format)
	}

	view := req.View
	snap := metrics.Compute(view)

	// Skipped charts are normal; only their sections disappear.
	var arts []*charts.Artifact
	for _, chartType := range []string{charts.TypeRatingHistogram, charts.TypePriceBox, charts.TypeWordcloud} {
		art, err := s.renderer.Render(view, chartType)
		if err != nil {
			if errors.Is(err, charts.ErrNotApplicable) {
				continue
			}
			return nil, &report.ExportError{Format: string(req.Format), Err: err}
		}
		arts = append(arts, art)
	}

	summary := req.Summary
	if summary == "" && req.Instruction != "" && s.summarizer != nil {
		generated, err := s.summarizer.Summarize(ctx, view.ReviewTexts(s.tuning.SummaryReviewCap), req.Instruction)
		if err != nil {
			s.log.Warn("Inline summary failed, report proceeds without one", "product", req.Product, "error", err)
		} else {
			summary = generated
		}
	}

	content := report.Build(req.Product, snap, arts, summary,
		view.ReviewTexts(s.tuning.ExcerptCap), s.tuning.ExcerptCap, s.tuning.ExcerptWrapWidth)

	var (
		out []byte
		err error
	)
	switch req.Format {
	case FormatHTML:
		out, err = report.RenderHTML(content)
	case FormatPDF:
		out, err = s.pdf.Render(content)
	}
	if err != nil {
		return nil, err
	}

	filename := report.Filename(req.Product, string(req.Format), content.GeneratedAt)
	path, err := s.writeArtifact(filename, out)
	if err != nil {
		return nil, &report.ExportError{Format: string(req.Format), Err: err}
	}

	s.log.Info("Report generated", "product", req.Product, "format", req.Format, "path", path, "bytes", len(out))
	return &ReportResult{Filename: filename, Path: path, Bytes: out}, nil
}

// writeArtifact stages the file next to its final location and renames, so
// a crash mid-write cannot leave a partial report behind.
func (s *reportService) writeArtifact(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", err
	}
	final := filepath.Join(s.exportDir, filename)
	tmp := final + fmt.Sprintf(".%d.tmp", time.Now().UnixNano())

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return final, nil
}
