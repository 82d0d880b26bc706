package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/reminder"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

var weekdayHeaders = []string{"DOM", "SEG", "TER", "QUA", "QUI", "SEX", "SÁB"}

func newCalendarCommand() *cobra.Command {
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show studies, reviews and events by date",
	}
	calendarCmd.AddCommand(
		newCalendarDayCommand(),
		newCalendarMonthCommand(),
		newCalendarPendingCommand(),
	)
	return calendarCmd
}

func newCalendarDayCommand() *cobra.Command {
	var date DateFlag
	cmd := &cobra.Command{
		Use:   "day",
		Short: "List the events of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			day := date.Date(env.service.Today())
			events, err := env.service.Day(cmd.Context(), env.userID, day)
			if err != nil {
				return fmt.Errorf("service.Day() > %w", err)
			}

			out := cmd.OutOrStdout()
			headingColor.Fprintln(out, study.FormatDate(day))
			if len(events) == 0 {
				fmt.Fprintln(out, "Nenhum evento neste dia.")
				return nil
			}
			for _, e := range events {
				fmt.Fprintf(out, "  %s\n", eventLine(e))
			}
			return nil
		},
	}
	cmd.Flags().Var(&date, "date", "day as YYYY-MM-DD (default today)")
	return cmd
}

func newCalendarMonthCommand() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show the six-week grid of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			today := env.service.Today()
			if year == 0 {
				year = today.Year
			}
			m := today.Month
			if month != 0 {
				m = time.Month(month)
			}

			cells, err := env.service.Month(cmd.Context(), env.userID, year, m)
			if err != nil {
				return fmt.Errorf("service.Month() > %w", err)
			}
			printMonth(cmd.OutOrStdout(), year, m, cells)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year (default current year)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default current month)")
	return cmd
}

func printMonth(w io.Writer, year int, month time.Month, cells []calendar.Cell) {
	headingColor.Fprintf(w, "%02d/%d\n", int(month), year)
	t := newTable(weekdayHeaders...)
	for week := 0; week < len(cells)/7; week++ {
		row := make([]string, 7)
		for day := range row {
			row[day] = cellText(cells[week*7+day])
		}
		t.Row(row...)
	}
	printTable(w, t)
}

func cellText(c calendar.Cell) string {
	if !c.InMonth {
		return ""
	}
	lines := []string{fmt.Sprintf("%02d", c.Date.Day)}
	for _, e := range c.Events {
		switch e.Kind {
		case calendar.KindStudy:
			lines = append(lines, "E "+e.Title)
		case calendar.KindReview:
			if e.Completed {
				lines = append(lines, "R "+e.Subject+" ✓")
			} else {
				lines = append(lines, "R "+e.Subject)
			}
		default:
			lines = append(lines, "* "+e.Title)
		}
	}
	return strings.Join(lines, "\n")
}

func newCalendarPendingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List reviews due today and overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			digest, err := env.service.PendingReviews(cmd.Context(), env.userID)
			if err != nil {
				return fmt.Errorf("service.PendingReviews() > %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reminder.Message(digest))
			return nil
		},
	}
}
