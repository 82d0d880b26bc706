package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplanner/internal/board"
)

func newBoardCommand() *cobra.Command {
	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "Manage the task board",
	}
	boardCmd.AddCommand(
		newBoardShowCommand(),
		newBoardAddListCommand(),
		newBoardDeleteListCommand(),
		newBoardAddTaskCommand(),
		newBoardEditTaskCommand(),
		newBoardDeleteTaskCommand(),
		newBoardMoveTaskCommand(),
	)
	return boardCmd
}

func printBoard(w io.Writer, lists []board.TaskList) {
	if len(lists) == 0 {
		fmt.Fprintln(w, "Nenhuma lista no quadro.")
		return
	}
	headers := make([]string, len(lists))
	columns := make([]string, len(lists))
	for i, l := range lists {
		headers[i] = fmt.Sprintf("%s (%s)", l.Title, l.ID)
		tasks := make([]string, len(l.Tasks))
		for j, t := range l.Tasks {
			tasks[j] = fmt.Sprintf("- %s (%s)", t.Title, t.ID)
			if t.Description != "" {
				tasks[j] += "\n  " + t.Description
			}
		}
		columns[i] = strings.Join(tasks, "\n")
	}
	printTable(w, newTable(headers...).Row(columns...))
}

func newBoardShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the lists and their tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			lists, err := env.service.Board(cmd.Context(), env.userID)
			if err != nil {
				return fmt.Errorf("service.Board() > %w", err)
			}
			printBoard(cmd.OutOrStdout(), lists)
			return nil
		},
	}
}

func newBoardAddListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-list <title>",
		Short: "Append a list to the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			list, err := env.service.CreateList(cmd.Context(), env.userID, board.ListInput{Title: args[0]})
			if err != nil {
				return fmt.Errorf("service.CreateList() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lista criada: %s (%s)\n", list.Title, list.ID)
			return nil
		},
	}
}

func newBoardDeleteListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-list <list-id>",
		Short: "Delete a list and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			if err := env.service.DeleteList(cmd.Context(), env.userID, args[0]); err != nil {
				return fmt.Errorf("service.DeleteList() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lista removida: %s\n", args[0])
			return nil
		},
	}
}

func newBoardAddTaskCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add-task <list-id> <title>",
		Short: "Append a task to a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			task, err := env.service.AddTask(cmd.Context(), env.userID, args[0], board.TaskInput{
				Title:       args[1],
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("service.AddTask() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tarefa criada: %s (%s)\n", task.Title, task.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "task description")
	return cmd
}

func newBoardEditTaskCommand() *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "edit-task <list-id> <task-id>",
		Short: "Edit the title or description of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			ctx := cmd.Context()
			lists, err := env.service.Board(ctx, env.userID)
			if err != nil {
				return fmt.Errorf("service.Board() > %w", err)
			}
			current, err := findTask(lists, args[0], args[1])
			if err != nil {
				return err
			}

			in := board.TaskInput{Title: current.Title, Description: current.Description}
			if cmd.Flags().Changed("title") {
				in.Title = title
			}
			if cmd.Flags().Changed("description") {
				in.Description = description
			}
			task, err := env.service.UpdateTask(ctx, env.userID, args[0], args[1], in)
			if err != nil {
				return fmt.Errorf("service.UpdateTask() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tarefa atualizada: %s (%s)\n", task.Title, task.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func findTask(lists []board.TaskList, listID, taskID string) (board.Task, error) {
	list, err := board.FindList(lists, listID)
	if err != nil {
		return board.Task{}, err
	}
	for _, t := range list.Tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return board.Task{}, fmt.Errorf("%w: %s", board.ErrTaskNotFound, taskID)
}

func newBoardDeleteTaskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-task <list-id> <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			if err := env.service.DeleteTask(cmd.Context(), env.userID, args[0], args[1]); err != nil {
				return fmt.Errorf("service.DeleteTask() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tarefa removida: %s\n", args[1])
			return nil
		},
	}
}

func newBoardMoveTaskCommand() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "move-task <task-id>",
		Short: "Move a task to the end of another list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			lists, err := env.service.MoveTask(cmd.Context(), env.userID, args[0], from, to)
			if err != nil {
				return fmt.Errorf("service.MoveTask() > %w", err)
			}
			printBoard(cmd.OutOrStdout(), lists)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "id of the list holding the task")
	cmd.Flags().StringVar(&to, "to", "", "id of the target list")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
