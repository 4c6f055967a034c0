package cache_test

import (
	"context"
	"errors"
	"testing"

	"entity-store/core/cache"
	"entity-store/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }
func (f failingReader) Close() error             { return nil }

func TestObjectStorage_GetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		m := mocks.NewClient(t)
		m.On("GetObject", ctx, "bucket", "snapshots/entity-teams.json", minio.GetObjectOptions{}).
			Return(mocks.Body(`[{"id":"t1"}]`), nil)

		s := cache.NewObjectStorage(m, "bucket", "/snapshots/")
		v, ok, err := s.GetItem(ctx, "entity-teams")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":"t1"}]`, v)
	})

	t.Run("Missing On Read", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", ctx, "bucket", "entity-teams.json", minio.GetObjectOptions{}).
			Return(failingReader{err: minio.ErrorResponse{Code: "NoSuchKey"}}, nil)

		_, ok, err := cache.NewObjectStorage(m, "bucket", "").GetItem(ctx, "entity-teams")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Error", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", ctx, "bucket", "entity-teams.json", minio.GetObjectOptions{}).
			Return(nil, errors.New("denied"))

		_, _, err := cache.NewObjectStorage(m, "bucket", "").GetItem(ctx, "entity-teams")
		assert.ErrorContains(t, err, "denied")
	})
}

func TestObjectStorage_SetItem(t *testing.T) {
	ctx := context.Background()
	m := mocks.NewClient(t)
	m.On("PutObject", ctx, "bucket", "snapshots/entity-teams.json", mock.Anything, int64(2),
		minio.PutObjectOptions{ContentType: "application/json"}).
		Return(minio.UploadInfo{}, nil)

	s := cache.NewObjectStorage(m, "bucket", "snapshots")
	require.NoError(t, s.SetItem(ctx, "entity-teams", "[]"))
}

func TestObjectStorage_RemoveItem(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	m.On("RemoveObject", ctx, "bucket", "entity-a.json", minio.RemoveObjectOptions{}).
		Return(minio.ErrorResponse{Code: "NoSuchKey"})
	m.On("RemoveObject", ctx, "bucket", "entity-b.json", minio.RemoveObjectOptions{}).
		Return(errors.New("denied"))

	s := cache.NewObjectStorage(m, "bucket", "")
	assert.NoError(t, s.RemoveItem(ctx, "entity-a"))
	assert.ErrorContains(t, s.RemoveItem(ctx, "entity-b"), "denied")
}

func TestObjectStorage_Purge(t *testing.T) {
	ctx := context.Background()
	m := mocks.NewClient(t)
	m.On("ListObjects", ctx, "bucket", minio.ListObjectsOptions{Prefix: "snapshots/entity-", Recursive: true}).
		Return(mocks.Listing("snapshots/entity-teams.json", "snapshots/entity-users.json"))
	m.On("RemoveObjects", ctx, "bucket", mock.Anything, minio.RemoveObjectsOptions{}).
		Return(nil)

	n, err := cache.NewObjectStorage(m, "bucket", "snapshots").Purge(ctx, "entity")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
