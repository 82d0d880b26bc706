// Package export writes calendar events as CSV files.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

// ErrNoEvents is returned when an export range holds no events.
var ErrNoEvents = errors.New("export: no events in the selected range")

// Header is the first line of every export.
var Header = []string{"DATA", "EVENTO", "TIPO", "DISCIPLINA"}

// WriteCSV writes the header and one line per row. Every field is quoted, lines are
// separated by "\n" and the last line has no terminator.
func WriteCSV(w io.Writer, rows []calendar.ExportRow) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Header, ",")); err != nil {
		return fmt.Errorf("write header > %w", err)
	}
	for _, row := range rows {
		fields := []string{
			study.FormatDate(row.Date),
			row.Label,
			row.Category.Label(),
			row.Context,
		}
		if _, err := bw.WriteString("\n" + quoteFields(fields)); err != nil {
			return fmt.Errorf("write row > %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("bufio.Writer.Flush() > %w", err)
	}
	return nil
}

func quoteFields(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// FileName returns the download name of an export covering from..to.
func FileName(from, to civil.Date) string {
	return fmt.Sprintf("eventos_calendario_%s_%s.csv", from, to)
}
