package assets

import (
	_ "embed"
	"fmt"
	"io"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/statistics"
)

const studyReportTemplateName = "study-report.md.go.tmpl"

//go:embed templates/study-report.md.go.tmpl
var fallbackStudyReportTemplate string

// ReportTemplate is the data passed to the study report template
type ReportTemplate struct {
	From    civil.Date
	To      civil.Date
	Totals  statistics.Totals
	Periods []statistics.PeriodStatistics
	Rows    []calendar.ExportRow
	Overdue []calendar.Event
}

// WriteStudyReport renders the report with the template at templatePath, or with the
// embedded template when the path is empty or unusable.
func WriteStudyReport(output io.Writer, templatePath string, data ReportTemplate) error {
	tmpl, err := parseTemplateWithFallback(templatePath, studyReportTemplateName, fallbackStudyReportTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
