package vfs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"asset-core/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func newLocal(t *testing.T) (*Local, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	bin := &LocalBin{Dir: "/project/.recycle", Now: fixedNow}
	return New(fs, bin), fs
}

func TestLocal_MoveFile(t *testing.T) {
	l, fs := newLocal(t)
	require.NoError(t, afero.WriteFile(fs, "/project/a/foo.asset", []byte("x"), 0o644))

	require.NoError(t, l.Move("/project/a/foo.asset", "/project/b/c/foo.asset"))
	assert.False(t, l.Exists("/project/a/foo.asset"))
	data, err := afero.ReadFile(fs, "/project/b/c/foo.asset")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestLocal_MoveDirectory(t *testing.T) {
	l, fs := newLocal(t)
	require.NoError(t, afero.WriteFile(fs, "/project/tex/a.asset", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/project/tex/sub/b.asset", []byte("b"), 0o644))

	require.NoError(t, l.Move("/project/tex", "/project/art/tex"))
	assert.False(t, l.Exists("/project/tex"))
	assert.True(t, l.Exists("/project/art/tex/a.asset"))
	assert.True(t, l.Exists("/project/art/tex/sub/b.asset"))
}

func TestLocal_MoveErrors(t *testing.T) {
	l, fs := newLocal(t)
	require.NoError(t, afero.WriteFile(fs, "/p/a.asset", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/b.asset", []byte("b"), 0o644))

	assert.ErrorIs(t, l.Move("/p/a.asset", "/p/b.asset"), ErrExists)
	assert.Error(t, l.Move("/p/missing.asset", "/p/c.asset"))
}

func TestLocal_Rename(t *testing.T) {
	l, fs := newLocal(t)
	require.NoError(t, afero.WriteFile(fs, "/p/old.asset", []byte("a"), 0o644))

	require.NoError(t, l.Rename("/p/old.asset", "new.asset"))
	assert.True(t, l.Exists("/p/new.asset"))
	assert.False(t, l.Exists("/p/old.asset"))

	assert.Error(t, l.Rename("/p/new.asset", "../escape.asset"))
	assert.Error(t, l.Rename("/p/new.asset", ""))
}

func TestLocal_MoveToRecycleBin(t *testing.T) {
	l, fs := newLocal(t)
	require.NoError(t, afero.WriteFile(fs, "/project/foo.asset", []byte("a"), 0o644))

	require.NoError(t, l.MoveToRecycleBin("/project/foo.asset"))
	assert.False(t, l.Exists("/project/foo.asset"))
	assert.True(t, l.Exists("/project/.recycle/20240501T120000.000000000_foo.asset"))

	assert.Error(t, l.MoveToRecycleBin("/project/foo.asset"))
}

func TestObjectBin_Recycle(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/tex/a.asset", []byte("aaa"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/project/tex/sub/b.asset", []byte("b"), 0o644))

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "recycle", "bin/20240501T120000.000000000/tex/a.asset", mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()
	client.On("PutObject", mock.Anything, "recycle", "bin/20240501T120000.000000000/tex/sub/b.asset", mock.Anything, int64(1), mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	bin := NewObjectBin(client, "recycle", "bin", time.Second, nil)
	bin.now = fixedNow
	l := New(fs, bin)

	require.NoError(t, l.MoveToRecycleBin("/project/tex"))
	assert.False(t, l.Exists("/project/tex"))
	client.AssertExpectations(t)
}

func TestObjectBin_RecycleUploadFailureKeepsFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/foo.asset", []byte("a"), 0o644))

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "recycle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket gone"))

	l := New(fs, NewObjectBin(client, "recycle", "bin", 0, nil))
	err := l.MoveToRecycleBin("/project/foo.asset")
	assert.ErrorContains(t, err, "bucket gone")
	assert.True(t, l.Exists("/project/foo.asset"))
}

func TestObjectBin_ListAndRestore(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	client := new(mocks.Client)

	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "bin/x/foo.asset", Size: 4}
	close(ch)
	client.On("ListObjects", ctx, "recycle", minio.ListObjectsOptions{Prefix: "bin", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))
	client.On("GetObject", ctx, "recycle", "bin/x/foo.asset", mock.Anything).
		Return(io.NopCloser(strings.NewReader("data")), nil)
	client.On("RemoveObject", ctx, "recycle", "bin/x/foo.asset", mock.Anything).Return(nil)

	bin := NewObjectBin(client, "recycle", "bin", 0, nil)

	entries, err := bin.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "bin/x/foo.asset", Size: 4}}, entries)

	require.NoError(t, bin.Restore(ctx, fs, "bin/x/foo.asset", "/project/foo.asset"))
	data, err := afero.ReadFile(fs, "/project/foo.asset")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
	client.AssertExpectations(t)

	assert.ErrorIs(t, bin.Restore(ctx, fs, "bin/x/foo.asset", "/project/foo.asset"), ErrExists)
}

func TestConfig_IsValidMode(t *testing.T) {
	assert.True(t, Config{Mode: ModeLocal}.IsValidMode())
	assert.True(t, Config{Mode: ModeObject}.IsValidMode())
	assert.False(t, Config{Mode: "trash"}.IsValidMode())
}
