package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplanner/internal/export"
)

// NoEventsMessage is printed instead of writing an empty export.
const NoEventsMessage = "Nenhum evento encontrado no período selecionado."

func newExportCommand() *cobra.Command {
	var from, to DateFlag
	var outputDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the events of a date range as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			result, err := env.service.Export(cmd.Context(), env.userID, civil.Date(from), civil.Date(to))
			if errors.Is(err, export.ErrNoEvents) {
				fmt.Fprintln(cmd.OutOrStdout(), NoEventsMessage)
				return nil
			}
			if err != nil {
				return fmt.Errorf("service.Export() > %w", err)
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("os.MkdirAll(%s) > %w", outputDir, err)
			}
			path := filepath.Join(outputDir, result.FileName)
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("os.Create(%s) > %w", path, err)
			}
			if err := export.WriteCSV(f, result.Rows); err != nil {
				_ = f.Close()
				return fmt.Errorf("export.WriteCSV() > %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("f.Close() > %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d evento(s) exportado(s) para %s\n", len(result.Rows), path)
			return nil
		},
	}
	cmd.Flags().Var(&from, "from", "first date as YYYY-MM-DD")
	cmd.Flags().Var(&to, "to", "last date as YYYY-MM-DD")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory the CSV file is written to")
	return cmd
}
