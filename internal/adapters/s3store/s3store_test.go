package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/photo-pipeline/internal/errors"
)

// memoryBucket is an in-memory API for one bucket.
type memoryBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	copyErr error
	deletes []string
}

func newMemoryBucket() *memoryBucket {
	return &memoryBucket{objects: map[string][]byte{}}
}

func (m *memoryBucket) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (m *memoryBucket) CopyObject(_ context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.copyErr != nil {
		return nil, m.copyErr
	}
	src, err := url.PathUnescape(strings.TrimPrefix(aws.ToString(in.CopySource), "photos/"))
	if err != nil {
		return nil, err
	}
	body, ok := m.objects[src]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	m.objects[aws.ToString(in.Key)] = body
	return &s3.CopyObjectOutput{}, nil
}

func (m *memoryBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (m *memoryBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := aws.ToString(in.Key)
	m.deletes = append(m.deletes, key)
	delete(m.objects, key)
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStore(t *testing.T) (*Store, *memoryBucket) {
	t.Helper()
	bucket := newMemoryBucket()
	store, err := NewWithClient(bucket, "photos")
	require.NoError(t, err)
	return store, bucket
}

func TestNewWithClient(t *testing.T) {
	_, err := NewWithClient(nil, "photos")
	require.Error(t, err)

	_, err = NewWithClient(newMemoryBucket(), "")
	require.Error(t, err)
}

func TestStore_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the object", func(t *testing.T) {
		store, bucket := newTestStore(t)
		bucket.objects["u1/inprogress/a b.jpg"] = []byte("jpeg")

		require.NoError(t, store.Move(ctx, "u1/inprogress/a b.jpg", "u1/finished/a b.jpg"))

		assert.Equal(t, []byte("jpeg"), bucket.objects["u1/finished/a b.jpg"])
		assert.NotContains(t, bucket.objects, "u1/inprogress/a b.jpg")
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		store, bucket := newTestStore(t)
		bucket.objects["u1/inprogress/a.jpg"] = []byte("new")
		bucket.objects["u1/finished/a.jpg"] = []byte("old")

		err := store.Move(ctx, "u1/inprogress/a.jpg", "u1/finished/a.jpg")

		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Contains(t, err.Error(), "already exists")
		assert.Equal(t, []byte("old"), bucket.objects["u1/finished/a.jpg"])
		assert.Empty(t, bucket.deletes)
	})

	t.Run("missing source is not found", func(t *testing.T) {
		store, bucket := newTestStore(t)

		err := store.Move(ctx, "u1/inprogress/a.jpg", "u1/finished/a.jpg")

		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
		assert.Empty(t, bucket.deletes)
	})

	t.Run("other copy failure", func(t *testing.T) {
		store, bucket := newTestStore(t)
		bucket.objects["u1/inprogress/a.jpg"] = []byte("jpeg")
		bucket.copyErr = errors.New("slow down")

		err := store.Move(ctx, "u1/inprogress/a.jpg", "u1/finished/a.jpg")

		require.Error(t, err)
		assert.Empty(t, apperrors.CodeOf(err))
		assert.Contains(t, err.Error(), "copy object")
	})
}

func TestStore_DownloadUploadDelete(t *testing.T) {
	ctx := context.Background()
	store, bucket := newTestStore(t)

	require.NoError(t, store.Upload(ctx, "u1/finished/a.jpg", []byte("jpeg")))

	body, err := store.Download(ctx, "u1/finished/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), body)

	require.NoError(t, store.Delete(ctx, "u1/finished/a.jpg"))
	assert.Empty(t, bucket.objects)

	_, err = store.Download(ctx, "u1/finished/a.jpg")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCopySource(t *testing.T) {
	assert.Equal(t, "photos/u1/inprogress/a%20b.jpg", copySource("photos", "u1/inprogress/a b.jpg"))
}
