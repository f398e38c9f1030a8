package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	tt "github.com/gnolang/dlint/internal/types"
)

func TestUnitFor(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	unit := writeTestUnit(t, dir)

	assert.Equal(t, unit, unitFor(unit))
	assert.Equal(t, unit, unitFor(filepath.Join(dir, "a.dart")))
	assert.Equal(t, "", unitFor(filepath.Join(dir, "b.dart")))
}

func TestWatchRelintsOnChange(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	unit := writeTestUnit(t, dir)

	engine, err := NewEngine(dir, nil)
	require.NoError(t, err)

	type result struct {
		filename string
		issues   []tt.Issue
		err      error
	}
	results := make(chan result, 16)
	require.NoError(t, engine.StartWatching(zap.NewNop(), func(filename string, issues []tt.Issue, err error) {
		results <- result{filename, issues, err}
	}))
	defer func() {
		assert.NoError(t, engine.StopWatching())
	}()

	assert.ErrorIs(t, engine.StartWatching(nil, nil), ErrAlreadyWatching)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.dart"), []byte(testSource), 0o644))

	select {
	case r := <-results:
		require.NoError(t, r.err)
		assert.Equal(t, unit, r.filename)
		assert.Len(t, r.issues, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("no re-lint after the source changed")
	}
}

func TestStopWatchingWithoutStart(t *testing.T) {
	t.Parallel()
	engine, err := NewEngine(t.TempDir(), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, engine.StopWatching(), ErrNotWatching)
}
