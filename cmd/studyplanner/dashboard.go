package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplanner/internal/statistics"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

func newDashboardCommand() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals, recent studies and monthly statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			ctx := cmd.Context()
			dashboard, err := env.service.Dashboard(ctx, env.userID, year, month)
			if err != nil {
				return fmt.Errorf("service.Dashboard() > %w", err)
			}
			disciplines, err := env.service.ListDisciplines(ctx, env.userID)
			if err != nil {
				return fmt.Errorf("service.ListDisciplines() > %w", err)
			}
			printDashboard(cmd.OutOrStdout(), dashboard, disciplines)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "only show periods of this year")
	cmd.Flags().IntVar(&month, "month", 0, "only show this month, requires --year")
	return cmd
}

func printDashboard(w io.Writer, dashboard statistics.Dashboard, disciplines study.Disciplines) {
	totals := dashboard.Totals
	headingColor.Fprintln(w, "Resumo")
	printTable(w, newTable("INDICADOR", "TOTAL").
		Row("Disciplinas", strconv.Itoa(totals.Disciplines)).
		Row("Estudos", strconv.Itoa(totals.Studies)).
		Row("Revisões pendentes", strconv.Itoa(totals.PendingReviews)).
		Row("Revisões concluídas", strconv.Itoa(totals.CompletedReviews)).
		Row("Estudos hoje", strconv.Itoa(totals.StudiesToday)).
		Row("Revisões hoje", strconv.Itoa(totals.ReviewsToday)))

	headingColor.Fprintln(w, "Estudos recentes")
	printStudies(w, dashboard.RecentStudies, disciplines)

	if len(dashboard.Periods) == 0 {
		return
	}
	headingColor.Fprintln(w, "Por mês")
	t := newTable("MÊS", "ESTUDOS", "DISCIPLINAS", "REVISÕES AGENDADAS", "REVISÕES CONCLUÍDAS")
	for _, p := range dashboard.Periods {
		t.Row(p.Period,
			strconv.Itoa(p.StudiesLogged),
			strconv.Itoa(p.Disciplines),
			strconv.Itoa(p.ReviewsScheduled),
			strconv.Itoa(p.ReviewsCompleted))
	}
	printTable(w, t)
}
