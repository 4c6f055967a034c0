package cache

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"entity-store/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStorage keeps each snapshot as a JSON object under folder/.
type ObjectStorage struct {
	client storage.Client
	bucket string
	folder string
}

// NewObjectStorage stores objects in bucket under folder.
func NewObjectStorage(client storage.Client, bucket, folder string) *ObjectStorage {
	return &ObjectStorage{client: client, bucket: bucket, folder: strings.Trim(folder, "/")}
}

// ObjectName returns the object holding key.
func (s *ObjectStorage) ObjectName(key string) string {
	return path.Join(s.folder, key+".json")
}

func (s *ObjectStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.ObjectName(key), minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get object %s: %w", s.ObjectName(key), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read object %s: %w", s.ObjectName(key), err)
	}
	return string(data), true, nil
}

func (s *ObjectStorage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.ObjectName(key), strings.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", s.ObjectName(key), err)
	}
	return nil
}

func (s *ObjectStorage) RemoveItem(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.ObjectName(key), minio.RemoveObjectOptions{})
	if err != nil && !storage.IsNotFound(err) {
		return fmt.Errorf("failed to remove object %s: %w", s.ObjectName(key), err)
	}
	return nil
}

// Purge removes every object of the folder whose key starts with prefix-.
func (s *ObjectStorage) Purge(ctx context.Context, prefix string) (int, error) {
	listPrefix := path.Join(s.folder, prefix+"-")
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: listPrefix, Recursive: true})

	toRemove := make(chan minio.ObjectInfo)
	count := 0
	var listErr error
	go func() {
		defer close(toRemove)
		for obj := range objects {
			if obj.Err != nil {
				listErr = obj.Err
				continue
			}
			count++
			toRemove <- obj
		}
	}()

	var firstErr error
	for rErr := range s.client.RemoveObjects(ctx, s.bucket, toRemove, minio.RemoveObjectsOptions{}) {
		if firstErr == nil {
			firstErr = rErr.Err
		}
	}
	// drain in case RemoveObjects returned before consuming the channel
	for range toRemove {
	}
	if listErr != nil {
		return 0, fmt.Errorf("failed to list objects under %s: %w", listPrefix, listErr)
	}
	if firstErr != nil {
		return 0, fmt.Errorf("failed to remove objects under %s: %w", listPrefix, firstErr)
	}
	return count, nil
}
