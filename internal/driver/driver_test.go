package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecospirit/greenmap/internal/config"
)

// exerciseDriver runs the behaviour every ObjectDriver must share.
func exerciseDriver(t *testing.T, d ObjectDriver) {
	t.Helper()
	ctx := context.Background()

	_, err := d.Get(ctx, "missing.geojson")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, d.Put(ctx, "buildings.geojson", []byte(`{"v":1}`), "application/json"))
	data, err := d.Get(ctx, "buildings.geojson")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(data))

	// Last write wins.
	require.NoError(t, d.Put(ctx, "buildings.geojson", []byte(`{"v":2}`), "application/json"))
	data, err = d.Get(ctx, "buildings.geojson")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(data))

	assert.NoError(t, d.Close(ctx))
}

func TestMemoryDriver(t *testing.T) {
	exerciseDriver(t, NewMemoryDriver())
}

func TestMemoryDriver_CopiesData(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDriver()
	buf := []byte("abc")
	require.NoError(t, d.Put(ctx, "k", buf, ""))
	buf[0] = 'z'

	data, err := d.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestFileDriver(t *testing.T) {
	root := t.TempDir()
	d, err := NewFileDriver(root)
	require.NoError(t, err)
	exerciseDriver(t, d)

	_, err = os.Stat(filepath.Join(root, "buildings.geojson"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileDriver_RejectsEscapingKeys(t *testing.T) {
	d, err := NewFileDriver(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	assert.Error(t, d.Put(ctx, "../outside.geojson", []byte("x"), ""))
	_, err = d.Get(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestRedisDriver(t *testing.T) {
	mr := miniredis.RunT(t)

	d, err := NewRedisDriver(context.Background(), mr.Addr(), "", 0, "test:")
	require.NoError(t, err)
	exerciseDriver(t, d)

	assert.True(t, mr.Exists("test:buildings.geojson"))
	ct, err := mr.Get("test:buildings.geojson:content-type")
	require.NoError(t, err)
	assert.Equal(t, "application/json", ct)
}

func TestRedisDriver_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisDriver(context.Background(), addr, "", 0, "")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	d, err := Open(ctx, config.DatasetConfig{Backend: "memory"}, config.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryDriver{}, d)

	d, err = Open(ctx, config.DatasetConfig{Backend: "FILE", Dir: filepath.Join(t.TempDir(), "data")}, config.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, &FileDriver{}, d)

	d, err = Open(ctx, config.DatasetConfig{Backend: "redis"}, config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "eco:"})
	require.NoError(t, err)
	assert.IsType(t, &RedisDriver{}, d)
	require.NoError(t, d.Close(ctx))

	_, err = Open(ctx, config.DatasetConfig{Backend: "s3"}, config.RedisConfig{})
	assert.Error(t, err)
}
