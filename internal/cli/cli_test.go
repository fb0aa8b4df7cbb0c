package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxcheck/internal/testutil"
)

const (
	validModel = `
entities:
  - name: Tag
    properties:
      - {name: Id, type: int64}
      - {name: Label, type: string}
    primary_key: [Id]
`
	sharedModel = `
entities:
  - name: Customer
    table: Shared
    properties: [{name: Id, type: int64}]
    primary_key: [Id]
  - name: Invoice
    table: Shared
    properties: [{name: Id, type: int64}]
    primary_key: [Id]
`
	warningModel = `
entities:
  - name: Feature
    properties:
      - {name: Id, type: int64}
      - {name: Enabled, type: bool, generated: on_add, default: true}
    primary_key: [Id]
`
)

// execute runs the root command with args in an empty working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	valid := testutil.WriteFile(t, dir, "tags.yaml", validModel)
	shared := testutil.WriteFile(t, dir, "nested/shared.yml", sharedModel)

	t.Run("Valid", func(t *testing.T) {
		out, err := execute(t, "validate", valid)
		require.NoError(t, err)
		assert.Contains(t, out, "OK")
		assert.Contains(t, out, "1 model checked, 0 errors, 0 warnings")
	})

	t.Run("Violation", func(t *testing.T) {
		out, err := execute(t, "validate", "--output", "text", dir)
		require.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "1 of 2 models")
		assert.Contains(t, out, shared+":")
		assert.Contains(t, out, "[IncompatibleTableNoRelationship]")
		assert.Contains(t, out, "No issues found")
	})

	t.Run("Table", func(t *testing.T) {
		out, err := execute(t, "validate", dir)
		require.Error(t, err)
		assert.Contains(t, out, "IncompatibleTableNoRelationship")
		assert.Contains(t, out, "Error")
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := execute(t, "validate", filepath.Join(dir, "missing"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		_, err := execute(t, "validate", "--dialect", "oracle", valid)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported dialect")
	})
}

func TestValidateCommand_Warnings(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "features.yaml", warningModel)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Bool With Default")
	assert.Contains(t, out, "1 model checked, 0 errors, 1 warning")

	_, err = execute(t, "validate", "--warnings-as-errors", path)
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidateCommand_LoadError(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "broken.yaml", "entities: [{name: A, tabel: x}]")

	out, err := execute(t, "validate", "-o", "text", path)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out, "tabel")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "veloxcheck v"+Version)
}

func TestModelFiles(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a.yaml", validModel)
	b := testutil.WriteFile(t, dir, "sub/b.json", "{}")
	testutil.WriteFile(t, dir, "notes.txt", "")

	files, err := modelFiles([]string{dir, a})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "tags.yaml", validModel)
	logger := testutil.NewTestLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out testutil.Buffer
	runs := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, &out, logger, []string{dir}, func() error {
			runs <- struct{}{}
			return nil
		})
	}()

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("initial run did not happen")
	}
	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, []byte(validModel+"\n"), 0o644); err != nil {
			return false
		}
		select {
		case <-runs:
			return true
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, out.String(), "Watching for changes")
}
