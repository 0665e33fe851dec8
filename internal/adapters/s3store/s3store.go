// Package s3store implements photo object storage on an S3-compatible bucket.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/target/photo-pipeline/config"
	"github.com/target/photo-pipeline/internal/core"
	apperrors "github.com/target/photo-pipeline/internal/errors"
)

// API is the subset of *s3.Client used by Store.
type API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store is an ObjectStorage backed by one bucket.
type Store struct {
	api    API
	bucket string
}

var _ core.ObjectStorage = (*Store)(nil)

// New builds a Store from the default AWS credential chain and the storage config.
func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewWithClient(client, cfg.Bucket)
}

// NewWithClient wraps an existing client.
func NewWithClient(api API, bucket string) (*Store, error) {
	if api == nil {
		return nil, errors.New("s3 client is required")
	}
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}
	return &Store{api: api, bucket: bucket}, nil
}

// Move copies from to to and deletes from. It refuses to overwrite: an existing
// destination yields a conflict error, a missing source a not-found error.
func (s *Store) Move(ctx context.Context, from, to string) error {
	exists, err := s.exists(ctx, to)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.Conflictf("object %s already exists", to)
	}

	if _, err := s.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(to),
		CopySource: aws.String(copySource(s.bucket, from)),
	}); err != nil {
		return s.mapError(err, "copy", from)
	}

	return s.Delete(ctx, from)
}

// Download reads the whole object.
func (s *Store) Download(ctx context.Context, path string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, s.mapError(err, "get", path)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", path, err)
	}
	return body, nil
}

// Upload writes body to path, replacing any existing object.
func (s *Store) Upload(ctx context.Context, path string, body []byte) error {
	if _, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}); err != nil {
		return s.mapError(err, "put", path)
	}
	return nil
}

// Delete removes the object. Deleting a missing object succeeds.
func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}); err != nil {
		return s.mapError(err, "delete", path)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, path string) (bool, error) {
	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("head object %s: %w", path, err)
}

func (s *Store) mapError(err error, op, path string) error {
	if isNotFound(err) {
		return apperrors.Wrapf(err, apperrors.ErrCodeNotFound, "object %s not found", path)
	}
	return fmt.Errorf("%s object %s: %w", op, path, err)
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// copySource builds the URL-encoded bucket/key CopySource value.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return bucket + "/" + strings.Join(segments, "/")
}
