package vfs

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"asset-core/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const stampLayout = "20060102T150405.000000000"

// LocalBin moves removed files into a directory.
type LocalBin struct {
	Dir string
	Now func() time.Time
}

// NewLocalBin creates a bin rooted at dir.
func NewLocalBin(dir string) *LocalBin {
	return &LocalBin{Dir: dir, Now: time.Now}
}

func (b *LocalBin) Recycle(fs afero.Fs, p string) error {
	target := filepath.Join(b.Dir, b.Now().UTC().Format(stampLayout)+"_"+filepath.Base(p))
	if err := move(fs, p, target); err != nil {
		return fmt.Errorf("recycle %s: %w", p, err)
	}
	return nil
}

// ObjectBin uploads removed files to object storage, then deletes them locally.
type ObjectBin struct {
	client  storage.Client
	bucket  string
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewObjectBin creates a bin that uploads into bucket under prefix.
func NewObjectBin(client storage.Client, bucket, prefix string, timeout time.Duration, logger *zap.Logger) *ObjectBin {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ObjectBin{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

func (b *ObjectBin) Recycle(fs afero.Fs, p string) error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	stamp := b.now().UTC().Format(stampLayout)
	parent := filepath.Dir(p)
	uploaded := 0

	err := afero.Walk(fs, p, func(file string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(parent, file)
		if err != nil {
			return err
		}
		key := path.Join(b.prefix, stamp, filepath.ToSlash(rel))

		f, err := fs.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := b.client.PutObject(ctx, b.bucket, key, f, fi.Size(), minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		}); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return fmt.Errorf("recycle %s: %w", p, err)
	}

	b.logger.Debug("Recycled to object storage",
		zap.String("path", p),
		zap.String("bucket", b.bucket),
		zap.Int("objects", uploaded))
	return fs.RemoveAll(p)
}

// Entry is one recycled object.
type Entry struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// List returns the recycled objects under the bin prefix.
func (b *ObjectBin) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Prefix: b.prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", b.bucket, b.prefix, obj.Err)
		}
		out = append(out, Entry{Key: obj.Key, Size: obj.Size})
	}
	return out, nil
}

// Restore downloads key to dst and removes it from the bucket.
func (b *ObjectBin) Restore(ctx context.Context, fs afero.Fs, key, dst string) error {
	if ok, _ := afero.Exists(fs, dst); ok {
		return fmt.Errorf("restore %s: %w: %s", key, ErrExists, dst)
	}

	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("restore %s: %w", key, err)
	}
	defer obj.Close()

	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("restore %s: %w", key, err)
	}
	if err := afero.WriteReader(fs, dst, obj); err != nil {
		return fmt.Errorf("restore %s: %w", key, err)
	}
	if err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		b.logger.Warn("Restored object could not be purged", zap.String("key", key), zap.Error(err))
	}
	return nil
}
