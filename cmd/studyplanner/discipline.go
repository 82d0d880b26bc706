package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDisciplineCommand() *cobra.Command {
	disciplineCmd := &cobra.Command{
		Use:   "discipline",
		Short: "Manage disciplines",
	}

	disciplineCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List disciplines by name",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				env, err := openEnvironment()
				if err != nil {
					return err
				}
				defer env.close()

				disciplines, err := env.service.ListDisciplines(cmd.Context(), env.userID)
				if err != nil {
					return fmt.Errorf("service.ListDisciplines() > %w", err)
				}
				out := cmd.OutOrStdout()
				if len(disciplines) == 0 {
					fmt.Fprintln(out, "Nenhuma disciplina cadastrada.")
					return nil
				}
				t := newTable("ID", "NOME")
				for _, d := range disciplines {
					t.Row(d.ID, d.Name)
				}
				printTable(out, t)
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a discipline",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				env, err := openEnvironment()
				if err != nil {
					return err
				}
				defer env.close()

				discipline, err := env.service.CreateDiscipline(cmd.Context(), env.userID, args[0])
				if err != nil {
					return fmt.Errorf("service.CreateDiscipline() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Disciplina criada: %s (%s)\n", discipline.Name, discipline.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a discipline, keeping its studies",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				env, err := openEnvironment()
				if err != nil {
					return err
				}
				defer env.close()

				if err := env.service.DeleteDiscipline(cmd.Context(), env.userID, args[0]); err != nil {
					return fmt.Errorf("service.DeleteDiscipline() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Disciplina removida: %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "studies <id>",
			Short: "List the studies of a discipline, latest study date first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				env, err := openEnvironment()
				if err != nil {
					return err
				}
				defer env.close()

				studies, err := env.service.StudiesByDiscipline(cmd.Context(), env.userID, args[0])
				if err != nil {
					return fmt.Errorf("service.StudiesByDiscipline() > %w", err)
				}
				disciplines, err := env.service.ListDisciplines(cmd.Context(), env.userID)
				if err != nil {
					return fmt.Errorf("service.ListDisciplines() > %w", err)
				}
				printStudies(cmd.OutOrStdout(), studies, disciplines)
				return nil
			},
		},
	)
	return disciplineCmd
}
