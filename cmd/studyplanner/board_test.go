package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardCommand(t *testing.T) {
	cmd := newBoardCommand()

	assert.Equal(t, "board", cmd.Use)
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{
		"show", "add-list", "delete-list", "add-task", "edit-task", "delete-task", "move-task",
	}, names)
}

func TestBoardCommand_Show(t *testing.T) {
	setupImportedData(t)

	out, err := execute(t, newBoardCommand(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "A fazer (todo)")
	assert.Contains(t, out, "Feito (done)")
	assert.Contains(t, out, "- Ler lei seca (t1)")
	assert.Less(t, indexOf(out, "A fazer"), indexOf(out, "Feito"))
}

func TestBoardCommand_Lists(t *testing.T) {
	setupImportedData(t)

	out, err := execute(t, newBoardCommand(), "add-list", "Revisar")
	require.NoError(t, err)
	assert.Contains(t, out, "Lista criada: Revisar (")

	out, err = execute(t, newBoardCommand(), "delete-list", "todo")
	require.NoError(t, err)
	assert.Equal(t, "Lista removida: todo\n", out)

	out, err = execute(t, newBoardCommand(), "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "A fazer")
	assert.NotContains(t, out, "Ler lei seca")
	assert.Contains(t, out, "Revisar")
}

func TestBoardCommand_Tasks(t *testing.T) {
	setupImportedData(t)

	out, err := execute(t, newBoardCommand(), "add-task", "todo", "Resolver questões", "--description", "Cespe")
	require.NoError(t, err)
	assert.Contains(t, out, "Tarefa criada: Resolver questões (")

	out, err = execute(t, newBoardCommand(), "edit-task", "todo", "t1", "--description", "Art. 5º")
	require.NoError(t, err)
	assert.Equal(t, "Tarefa atualizada: Ler lei seca (t1)\n", out)

	out, err = execute(t, newBoardCommand(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Art. 5º")
	assert.Contains(t, out, "Cespe")
	assert.Less(t, indexOf(out, "Ler lei seca"), indexOf(out, "Resolver questões"))

	out, err = execute(t, newBoardCommand(), "delete-task", "todo", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Tarefa removida: t1\n", out)

	_, err = execute(t, newBoardCommand(), "edit-task", "todo", "t1", "--title", "Outro")
	assert.Error(t, err)
}

func TestBoardCommand_MoveTask(t *testing.T) {
	setupImportedData(t)

	out, err := execute(t, newBoardCommand(), "move-task", "t1", "--from", "todo", "--to", "done")
	require.NoError(t, err)
	assert.Contains(t, out, "- Ler lei seca (t1)")

	tests := []struct {
		name string
		args []string
	}{
		{name: "task no longer in the source list", args: []string{"move-task", "t1", "--from", "todo", "--to", "done"}},
		{name: "unknown target list", args: []string{"move-task", "t1", "--from", "done", "--to", "missing"}},
		{name: "missing flags", args: []string{"move-task", "t1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, newBoardCommand(), tt.args...)
			assert.Error(t, err)
		})
	}
}
