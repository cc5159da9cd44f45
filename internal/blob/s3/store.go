// Package s3 implements blob.Store against an S3-compatible backend (AWS S3
// or MinIO). Minimal surface area: a single bucket, keys mapping to object
// keys directly.
package s3

import (
	"btocore/internal/blob"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store implements blob.Store backed by a single S3 bucket.
type Store struct {
	client *s3.Client
	bucket string
}

var _ blob.Store = (*Store)(nil)

// Config holds explicit construction parameters (mostly for tests). For prod
// we rely primarily on environment variables.
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; enables a custom endpoint (e.g. MinIO)
	PathStyle bool
}

// Environment variables:
//
//	BTOCORE_BLOB_S3_BUCKET=<bucket> (required)
//	BTOCORE_BLOB_S3_REGION=<region> (default us-east-1)
//	BTOCORE_BLOB_S3_ENDPOINT=<url> (optional, for MinIO)
//	BTOCORE_BLOB_S3_PATH_STYLE=true|false (default false)
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// New creates an S3 blob store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// OpenFromEnv constructs an S3 store from process environment.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	bucket := os.Getenv("BTOCORE_BLOB_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("BTOCORE_BLOB_S3_BUCKET required for s3 driver")
	}
	cfg := Config{
		Bucket:    bucket,
		Region:    os.Getenv("BTOCORE_BLOB_S3_REGION"),
		Endpoint:  os.Getenv("BTOCORE_BLOB_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("BTOCORE_BLOB_S3_PATH_STYLE"), "true"),
	}
	return New(ctx, cfg)
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() blob.Driver { return blob.DriverS3 }

// Put stores a new blob; create-only semantics are emulated via Head first.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error) {
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key}); err == nil {
		return blob.Info{}, blob.ErrExists
	}
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &key, Body: r}
	if opts.ContentType != "" {
		input.ContentType = &opts.ContentType
	}
	if len(opts.Metadata) > 0 {
		input.Metadata = opts.Metadata
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return blob.Info{}, err
	}
	return s.Head(ctx, key)
}

// Get returns blob metadata and a read closer to its content.
func (s *Store) Get(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return blob.Info{}, nil, err
	}
	var size int64
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return s.fromHead(key, size, out.ContentType, out.Metadata, out.LastModified), out.Body, nil
}

// Head returns blob metadata only.
func (s *Store) Head(ctx context.Context, key string) (blob.Info, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return blob.Info{}, err
	}
	var size int64
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return s.fromHead(key, size, out.ContentType, out.Metadata, out.LastModified), nil
}

// List returns all blobs matching prefix, sorted by key.
func (s *Store) List(ctx context.Context, prefix string) ([]blob.Info, error) {
	var infos []blob.Info
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: &s.bucket, Prefix: &prefix, ContinuationToken: token})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			var size int64
			if obj.Size != nil {
				size = *obj.Size
			}
			infos = append(infos, blob.Info{Key: aws.ToString(obj.Key), Size: size, CreatedAt: aws.ToTime(obj.LastModified)})
		}
		if out.IsTruncated != nil && *out.IsTruncated && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Delete removes the object.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key})
	return err
}

func (s *Store) fromHead(key string, size int64, contentType *string, md map[string]string, lastModified *time.Time) blob.Info {
	var ct string
	if contentType != nil {
		ct = *contentType
	}
	created := time.Now().UTC()
	if lastModified != nil {
		created = *lastModified
	}
	return blob.Info{Key: key, Size: size, ContentType: ct, Metadata: md, CreatedAt: created}
}
