package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studyplanner/internal/testutil"
)

var fixtureStudyDate = civil.Date{Year: 2024, Month: time.January, Day: 1}

// setConfigFile sets the global configFile variable and registers a cleanup to restore it.
func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	oldConfigFile, oldUser := configFile, userFlag
	configFile = cfgPath
	userFlag = ""
	t.Cleanup(func() {
		configFile = oldConfigFile
		userFlag = oldUser
	})
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// execute runs cmd with args and returns what it printed.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// setupImportedData creates a SQLite backed config and imports the testutil state into it.
// Returns the temporary directory.
func setupImportedData(t *testing.T, opts ...testutil.StateOption) string {
	t.Helper()
	tmpDir := t.TempDir()
	setConfigFile(t, testutil.SetupTestConfig(t, tmpDir))

	backupPath := testutil.CreateBackupFile(t, tmpDir, fixtureStudyDate, opts...)
	_, err := execute(t, newBackupCommand(), "import", backupPath)
	require.NoError(t, err)
	return tmpDir
}

// indexOf returns the byte offset of substr in s, or -1.
func indexOf(s, substr string) int {
	return strings.Index(s, substr)
}
