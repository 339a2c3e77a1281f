package watch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundhash/fpindex/index"
	"github.com/soundhash/fpindex/logging"
)

func TestNewRejectsEmptyPaths(t *testing.T) {
	_, err := New(logging.New("error"), nil, 0)
	assert.Error(t, err)
}

func TestStartLoadsInitialIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.block")
	require.NoError(t, index.BuildAndWriteBlock([][]uint32{{1, 2}}, path, false))

	w, err := New(logging.New("error"), []string{path}, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NotNil(t, w.Current())
	assert.Equal(t, uint32(1), w.Current().SongCount())
}

func TestStartFailsWithoutSwallowingError(t *testing.T) {
	w, err := New(logging.New("error"), []string{"/does/not/exist"}, 0)
	require.NoError(t, err)
	err = w.Start(context.Background())
	assert.Error(t, err)
}

func TestReloadSwapsCurrentIndexOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.block")
	require.NoError(t, index.BuildAndWriteBlock([][]uint32{{1}}, path, false))

	w, err := New(logging.New("error"), []string{path}, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.Equal(t, uint32(1), w.Current().SongCount())

	require.NoError(t, index.BuildAndWriteBlock([][]uint32{{1}, {2}}, path, false))
	// os.Rename inside BuildAndWriteBlock triggers a Create event fsnotify
	// can see even though the inode changed; poll for the debounced reload.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w.Current().SongCount() == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, uint32(2), w.Current().SongCount())
}

func TestStopIsIdempotentWithoutStart(t *testing.T) {
	w, err := New(logging.New("error"), []string{"unused"}, 0)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		_ = w.Stop()
		_ = w.Stop()
	})
}

