package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

func newEventCommand() *cobra.Command {
	eventCmd := &cobra.Command{
		Use:   "event",
		Short: "Manage custom calendar events",
	}

	var title, description string
	var date DateFlag
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a custom event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			event, err := env.service.CreateCustomEvent(cmd.Context(), env.userID, calendar.CustomEventInput{
				Title:       title,
				Description: description,
				Date:        date.Date(env.service.Today()),
			})
			if err != nil {
				return fmt.Errorf("service.CreateCustomEvent() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Evento criado: %s em %s (%s)\n", event.Title, study.FormatDate(event.Date), event.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "event title")
	addCmd.Flags().StringVar(&description, "description", "", "event description")
	addCmd.Flags().Var(&date, "date", "event date as YYYY-MM-DD (default today)")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			if err := env.service.DeleteCustomEvent(cmd.Context(), env.userID, args[0]); err != nil {
				return fmt.Errorf("service.DeleteCustomEvent() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Evento removido: %s\n", args[0])
			return nil
		},
	}

	eventCmd.AddCommand(addCmd, deleteCmd)
	return eventCmd
}
