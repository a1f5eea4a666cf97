package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/modhub-backend/internal/config"
)

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "items/1/a.zip", SanitizeKey("/items/../1/./a.zip"))
	assert.Equal(t, "etc/passwd", SanitizeKey("../../etc/passwd"))
	assert.Equal(t, "a/b", SanitizeKey("a\\b"))
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "mod.zip", SafeFilename("../../mod.zip"))
	assert.Equal(t, "mod.zip", SafeFilename("C:\\Users\\me\\mod.zip"))
	assert.Equal(t, "upload", SafeFilename(""))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	obj, err := s.Put(ctx, "items/1/1.0/mod.zip", strings.NewReader("payload"), "application/zip")
	require.NoError(t, err)
	assert.Equal(t, int64(7), obj.Size)
	assert.Equal(t, "items/1/1.0/mod.zip", obj.Key)

	url, err := s.SignedURL(ctx, obj.Key, time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "items/1/1.0/mod.zip")

	data, ok := s.Get(obj.Key)
	require.True(t, ok)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, s.Delete(ctx, obj.Key))
	_, err = s.SignedURL(ctx, obj.Key, time.Minute)
	assert.Error(t, err)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "http://cdn.local/uploads/")
	require.NoError(t, err)

	obj, err := s.Put(ctx, "gallery/abc/1_shot.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, int64(9), obj.Size)
	assert.Equal(t, "http://cdn.local/uploads/gallery/abc/1_shot.png", obj.URL)

	onDisk, err := os.ReadFile(filepath.Join(dir, "gallery", "abc", "1_shot.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(onDisk))

	url, err := s.SignedURL(ctx, obj.Key, time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, obj.URL+"?expires="))

	require.NoError(t, s.Delete(ctx, obj.Key))
	require.NoError(t, s.Delete(ctx, obj.Key), "deleting twice is fine")
	_, err = s.SignedURL(ctx, obj.Key, time.Minute)
	assert.Error(t, err)
}

func TestNewSelectsDriver(t *testing.T) {
	s, err := New(config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(config.StorageConfig{Driver: "local", BaseDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	remote, err := New(config.StorageConfig{
		Driver:          "s3",
		Bucket:          "mods",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		ForcePathStyle:  true,
	})
	require.NoError(t, err)
	url, err := remote.SignedURL(context.Background(), "items/x/1/mod.zip", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "localhost:9000/mods/items/x/1/mod.zip")
	assert.Contains(t, url, "X-Amz-Signature=")

	_, err = New(config.StorageConfig{Driver: "s3"})
	assert.Error(t, err, "bucket is required")

	_, err = New(config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
