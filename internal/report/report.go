// Package report renders study reports as markdown, terminal text or PDF.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/glamour"

	"github.com/at-ishikawa/studyplanner/internal/assets"
	"github.com/at-ishikawa/studyplanner/internal/config"
	"github.com/at-ishikawa/studyplanner/internal/export"
	"github.com/at-ishikawa/studyplanner/internal/pdf"
	"github.com/at-ishikawa/studyplanner/internal/tracker"
)

// AutoStyle picks the glamour style from the terminal background.
const AutoStyle = "auto"

type Generator struct {
	service         *tracker.Service
	templatePath    string
	outputDirectory string
}

func NewGenerator(service *tracker.Service, cfg config.ReportsConfig) *Generator {
	return &Generator{
		service:         service,
		templatePath:    cfg.Template,
		outputDirectory: cfg.OutputDirectory,
	}
}

// Build collects the report data for from..to. An empty range is not an error.
func (g *Generator) Build(ctx context.Context, userID string, from, to civil.Date) (assets.ReportTemplate, error) {
	data := assets.ReportTemplate{From: from, To: to}

	result, err := g.service.Export(ctx, userID, from, to)
	if err != nil && !errors.Is(err, export.ErrNoEvents) {
		return assets.ReportTemplate{}, fmt.Errorf("service.Export() > %w", err)
	}
	data.Rows = result.Rows

	dashboard, err := g.service.Dashboard(ctx, userID, 0, 0)
	if err != nil {
		return assets.ReportTemplate{}, fmt.Errorf("service.Dashboard() > %w", err)
	}
	data.Totals = dashboard.Totals
	first, last := period(from), period(to)
	for _, p := range dashboard.Periods {
		if p.Period >= first && p.Period <= last {
			data.Periods = append(data.Periods, p)
		}
	}

	pending, err := g.service.PendingReviews(ctx, userID)
	if err != nil {
		return assets.ReportTemplate{}, fmt.Errorf("service.PendingReviews() > %w", err)
	}
	data.Overdue = pending.Overdue
	return data, nil
}

// Markdown renders the report of from..to.
func (g *Generator) Markdown(ctx context.Context, userID string, from, to civil.Date) ([]byte, error) {
	data, err := g.Build(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := assets.WriteStudyReport(&buf, g.templatePath, data); err != nil {
		return nil, fmt.Errorf("assets.WriteStudyReport() > %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile stores the markdown report in the output directory, converts it to PDF
// when asPDF is set, and returns the path of the last file written.
func (g *Generator) WriteFile(ctx context.Context, userID string, from, to civil.Date, asPDF bool) (string, error) {
	markdown, err := g.Markdown(ctx, userID, from, to)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.outputDirectory, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", g.outputDirectory, err)
	}
	markdownPath := filepath.Join(g.outputDirectory, FileName(from, to))
	if err := os.WriteFile(markdownPath, markdown, 0o644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}
	if !asPDF {
		return markdownPath, nil
	}

	pdfPath, err := pdf.ConvertMarkdownToPDF(markdownPath)
	if err != nil {
		return "", fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
	}
	return pdfPath, nil
}

// FileName returns the markdown file name of a report covering from..to.
func FileName(from, to civil.Date) string {
	return fmt.Sprintf("relatorio_estudos_%s_%s.md", from, to)
}

// RenderTerminal formats markdown for a terminal with the given glamour style.
func RenderTerminal(markdown []byte, style string, wordWrap int) (string, error) {
	styleOption := glamour.WithStandardStyle(style)
	if style == AutoStyle {
		styleOption = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(wordWrap))
	if err != nil {
		return "", fmt.Errorf("glamour.NewTermRenderer() > %w", err)
	}
	out, err := renderer.RenderBytes(markdown)
	if err != nil {
		return "", fmt.Errorf("renderer.RenderBytes() > %w", err)
	}
	return string(out), nil
}

func period(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}
