package main

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplanner/internal/report"
)

func newReportCommand() *cobra.Command {
	var from, to DateFlag
	var asPDF, toTerminal bool
	var style string
	var wordWrap int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a markdown or PDF study report of a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			ctx := cmd.Context()
			today := env.service.Today()
			start := from.Date(civil.Date{Year: today.Year, Month: today.Month, Day: 1})
			end := to.Date(today)
			generator := report.NewGenerator(env.service, env.cfg.Reports)

			if toTerminal {
				markdown, err := generator.Markdown(ctx, env.userID, start, end)
				if err != nil {
					return fmt.Errorf("generator.Markdown() > %w", err)
				}
				out, err := report.RenderTerminal(markdown, style, wordWrap)
				if err != nil {
					return fmt.Errorf("report.RenderTerminal() > %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}

			path, err := generator.WriteFile(ctx, env.userID, start, end, asPDF)
			if err != nil {
				return fmt.Errorf("generator.WriteFile() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Relatório gerado: %s\n", path)
			return nil
		},
	}
	cmd.Flags().Var(&from, "from", "first date as YYYY-MM-DD (default first day of the month)")
	cmd.Flags().Var(&to, "to", "last date as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&asPDF, "pdf", false, "also convert the report to PDF")
	cmd.Flags().BoolVar(&toTerminal, "print", false, "render the report in the terminal instead of writing a file")
	cmd.Flags().StringVar(&style, "style", report.AutoStyle, "glamour style used with --print: auto, dark, light, notty")
	cmd.Flags().IntVar(&wordWrap, "word-wrap", 100, "column width used with --print")
	return cmd
}
