package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDashboardCommand(t *testing.T) {
	cmd := newDashboardCommand()

	assert.Equal(t, "dashboard", cmd.Use)
	assert.Equal(t, "0", cmd.Flags().Lookup("year").DefValue)
	assert.Equal(t, "0", cmd.Flags().Lookup("month").DefValue)
}

func TestDashboardCommand_InvalidFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "month without year", args: []string{"--month", "3"}, wantErr: "--month requires --year"},
		{name: "month too large", args: []string{"--year", "2024", "--month", "13"}, wantErr: "--month must be between 1 and 12"},
		{name: "negative month", args: []string{"--year", "2024", "--month", "-1"}, wantErr: "--month must be between 1 and 12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, newDashboardCommand(), tt.args...)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDashboardCommand_RunE(t *testing.T) {
	setupImportedData(t)

	out, err := execute(t, newDashboardCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "Resumo")
	assert.Contains(t, out, "Revisões pendentes")
	assert.Contains(t, out, "Estudos recentes")
	assert.Contains(t, out, "Crase")
	assert.Contains(t, out, "Por mês")
	assert.Contains(t, out, "2024-01")

	out, err = execute(t, newDashboardCommand(), "--year", "2023")
	require.NoError(t, err)
	assert.NotContains(t, out, "Por mês")
}
