package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader минимальная сигнатура PNG, которую распознаёт filetype.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

func newTestStorage(t *testing.T, maxMB int64) *PhotoStorage {
	t.Helper()
	s, err := NewPhotoStorage(t.TempDir(), maxMB)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestPhotoStorage_SaveAndDelete(t *testing.T) {
	s := newTestStorage(t, 1)
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 1024)...)

	rel, written, err := s.Save(context.Background(), bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), written)
	assert.True(t, strings.HasPrefix(rel, "reports/2024/03/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	stored, err := os.ReadFile(filepath.Join(s.Root(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, body, stored)

	require.NoError(t, s.Delete(context.Background(), rel))
	_, err = os.Stat(filepath.Join(s.Root(), filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(context.Background(), rel))
}

func TestPhotoStorage_RejectsNonImages(t *testing.T) {
	s := newTestStorage(t, 1)

	_, _, err := s.Save(context.Background(), strings.NewReader("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, _, err = s.Save(context.Background(), bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPhotoStorage_RejectsOversized(t *testing.T) {
	s := newTestStorage(t, 1)
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 2*1024*1024)...)

	_, _, err := s.Save(context.Background(), bytes.NewReader(body))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPhotoStorage_DeleteRejectsTraversal(t *testing.T) {
	s := newTestStorage(t, 1)
	assert.Error(t, s.Delete(context.Background(), "../../etc/passwd"))
}
