package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

// studyFlags holds the flags shared by study add and study edit.
type studyFlags struct {
	disciplineID string
	subject      string
	date         DateFlag
	link         string
	reviews      ReviewOffsetsFlag
}

func (f *studyFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.disciplineID, "discipline", "", "discipline id")
	flags.StringVar(&f.subject, "subject", "", "subject studied")
	flags.Var(&f.date, "date", "study date as YYYY-MM-DD (default today)")
	flags.StringVar(&f.link, "link", "", "link to the study material")
	flags.Var(&f.reviews, "review", "review offset in days, repeatable: 7, 15, 30, 60, 90 or 120")
}

func newStudyCommand() *cobra.Command {
	studyCmd := &cobra.Command{
		Use:   "study",
		Short: "Manage studies and their reviews",
	}
	studyCmd.AddCommand(
		newStudyListCommand(),
		newStudyAddCommand(),
		newStudyEditCommand(),
		newStudyDeleteCommand(),
		newStudyToggleReviewCommand(),
	)
	return studyCmd
}

func newStudyListCommand() *cobra.Command {
	var query string
	var disciplineID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search studies by subject or discipline name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			ctx := cmd.Context()
			if disciplineID != "" {
				studies, err := env.service.StudiesByDiscipline(ctx, env.userID, disciplineID)
				if err != nil {
					return fmt.Errorf("service.StudiesByDiscipline() > %w", err)
				}
				disciplines, err := env.service.ListDisciplines(ctx, env.userID)
				if err != nil {
					return fmt.Errorf("service.ListDisciplines() > %w", err)
				}
				printStudies(cmd.OutOrStdout(), studies, disciplines)
				return nil
			}

			studies, disciplines, err := env.service.SearchStudies(ctx, env.userID, query)
			if err != nil {
				return fmt.Errorf("service.SearchStudies() > %w", err)
			}
			printStudies(cmd.OutOrStdout(), studies, disciplines)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "text matched against subjects and discipline names")
	cmd.Flags().StringVar(&disciplineID, "discipline", "", "only list the studies of this discipline")
	return cmd
}

func newStudyAddCommand() *cobra.Command {
	var f studyFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a study session and schedule its reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			record, err := env.service.CreateStudy(cmd.Context(), env.userID, study.StudyInput{
				DisciplineID: f.disciplineID,
				Subject:      f.subject,
				StudyDate:    f.date.Date(env.service.Today()),
				Link:         f.link,
				Offsets:      f.reviews,
			})
			if err != nil {
				return fmt.Errorf("service.CreateStudy() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Estudo criado: %s (%s)\n", record.Subject, record.ID)
			for i, r := range record.Reviews {
				fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s (%s)\n", i+1, study.FormatDate(r.Date), r.Days)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newStudyEditCommand() *cobra.Command {
	var f studyFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a study; reviews are rescheduled and unchanged ones keep their completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			ctx := cmd.Context()
			current, err := env.repos.Studies.FindByID(ctx, env.userID, args[0])
			if err != nil {
				return fmt.Errorf("Studies.FindByID() > %w", err)
			}

			in := study.StudyInput{
				DisciplineID: current.DisciplineID,
				Subject:      current.Subject,
				StudyDate:    current.StudyDate,
				Link:         current.Link,
				Offsets:      current.Offsets(),
			}
			flags := cmd.Flags()
			if flags.Changed("discipline") {
				in.DisciplineID = f.disciplineID
			}
			if flags.Changed("subject") {
				in.Subject = f.subject
			}
			if flags.Changed("date") {
				in.StudyDate = f.date.Date(current.StudyDate)
			}
			if flags.Changed("link") {
				in.Link = f.link
			}
			if flags.Changed("review") {
				in.Offsets = f.reviews
			}

			record, err := env.service.UpdateStudy(ctx, env.userID, args[0], in)
			if err != nil {
				return fmt.Errorf("service.UpdateStudy() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Estudo atualizado: %s (%s)\n", record.Subject, record.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newStudyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a study and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			if err := env.service.DeleteStudy(cmd.Context(), env.userID, args[0]); err != nil {
				return fmt.Errorf("service.DeleteStudy() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Estudo removido: %s\n", args[0])
			return nil
		},
	}
}

func newStudyToggleReviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-review <id> <number>",
		Short: "Mark a review as done or pending; reviews are numbered from 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid review number %q", args[1])
			}

			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			record, err := env.service.ToggleReview(cmd.Context(), env.userID, args[0], number-1)
			if err != nil {
				return fmt.Errorf("service.ToggleReview() > %w", err)
			}
			r := record.Reviews[number-1]
			status := "pendente"
			if r.Completed {
				status = "concluída"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revisão %d de %s (%s): %s\n", number, record.Subject, study.FormatDate(r.Date), status)
			return nil
		},
	}
}
