package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherInvalidatesAfterChange(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32

	w, err := New([]string{dir}, 50*time.Millisecond, func() { fired.Add(1) }, nil)
	require.NoError(t, err)
	defer w.Close()
	w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.desktop"), []byte("[Desktop Entry]\n"), 0o644))

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32

	w, err := New([]string{dir}, 100*time.Millisecond, func() { fired.Add(1) }, nil)
	require.NoError(t, err)
	defer w.Close()
	w.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.desktop"), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return fired.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestWatcherMissingDirs(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "nope")}, 0, func() {}, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}
