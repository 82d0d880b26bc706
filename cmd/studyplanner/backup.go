package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplanner/internal/datasync"
)

func newBackupCommand() *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import the data of a user as YAML",
	}
	backupCmd.AddCommand(newBackupExportCommand(), newBackupImportCommand())
	return backupCmd
}

func newBackupExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every discipline, study, event and list of the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			backup, err := datasync.NewExporter(env.repos).Export(cmd.Context(), env.userID)
			if err != nil {
				return fmt.Errorf("exporter.Export() > %w", err)
			}

			if output == "" {
				return datasync.WriteYAML(cmd.OutOrStdout(), *backup)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("os.Create(%s) > %w", output, err)
			}
			if err := datasync.WriteYAML(f, *backup); err != nil {
				_ = f.Close()
				return fmt.Errorf("datasync.WriteYAML() > %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("f.Close() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file path (default stdout)")
	return cmd
}

func newBackupImportCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a YAML backup into the storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			backup, err := datasync.ReadYAML(f)
			_ = f.Close()
			if err != nil {
				return fmt.Errorf("datasync.ReadYAML() > %w", err)
			}

			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(env.repos, out)
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := importer.Import(cmd.Context(), env.userID, backup.State, opts)
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}
			printImportSummary(out, result, opts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the storage")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Update existing studies and tasks with the backup data")
	return cmd
}

func printImportSummary(w io.Writer, result *datasync.ImportResult, opts datasync.ImportOptions) {
	fmt.Fprintln(w, "\nImport Summary:")
	if opts.DryRun {
		fmt.Fprintln(w, "  (dry-run mode, no changes made)")
	}
	fmt.Fprintf(w, "  Disciplines:   %d new, %d skipped\n", result.DisciplinesNew, result.DisciplinesSkipped)
	fmt.Fprintf(w, "  Studies:       %d new, %d skipped, %d updated\n", result.StudiesNew, result.StudiesSkipped, result.StudiesUpdated)
	fmt.Fprintf(w, "  Custom events: %d new, %d skipped\n", result.EventsNew, result.EventsSkipped)
	fmt.Fprintf(w, "  Task lists:    %d new, %d skipped\n", result.ListsNew, result.ListsSkipped)
	fmt.Fprintf(w, "  Tasks:         %d new, %d skipped, %d updated\n", result.TasksNew, result.TasksSkipped, result.TasksUpdated)
}
