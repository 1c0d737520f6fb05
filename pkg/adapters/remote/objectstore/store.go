// Package objectstore keeps user documents as JSON objects in an
// S3-compatible bucket.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

// updatedAtMeta is the user metadata key carrying Record.UpdatedAt.
const updatedAtMeta = "Noteflow-Updated-At"

// Config describes the bucket to use.
type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Secure    bool
	Region    string
	// Prefix is prepended to every object name.
	Prefix string
	Logger *slog.Logger
}

// Store implements core.RemoteStore on a bucket.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
	region string
	logger *slog.Logger
}

// New creates a client for cfg. It does not contact the server.
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("objectstore: bucket is required")
	}
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		region: cfg.Region,
		logger: logger,
	}, nil
}

// Provision creates the bucket if it does not exist.
func (s *Store) Provision(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("objectstore: provision: %w", mapErr(err))
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("objectstore: provision: %w", mapErr(err))
	}
	s.logger.Info("bucket created", "bucket", s.bucket)
	return nil
}

func (s *Store) objectName(key string) string {
	return s.prefix + key + ".json"
}

// Write uploads the record as one object.
func (s *Store) Write(ctx context.Context, key string, rec core.Record) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectName(key),
		bytes.NewReader(rec.Payload), int64(len(rec.Payload)),
		minio.PutObjectOptions{
			ContentType:  "application/json",
			UserMetadata: map[string]string{updatedAtMeta: strconv.FormatInt(rec.UpdatedAt, 10)},
		})
	if err != nil {
		return fmt.Errorf("objectstore: write %s: %w", key, mapErr(err))
	}
	return nil
}

// Read downloads the record. A missing object is reported as absent.
func (s *Store) Read(ctx context.Context, key string) (core.Record, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return s.readFailed(key, err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return s.readFailed(key, err)
	}
	payload, err := io.ReadAll(obj)
	if err != nil {
		return s.readFailed(key, err)
	}
	return core.Record{Payload: payload, UpdatedAt: updatedAt(info)}, true, nil
}

func (s *Store) readFailed(key string, err error) (core.Record, bool, error) {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return core.Record{}, false, nil
	}
	return core.Record{}, false, fmt.Errorf("objectstore: read %s: %w", key, mapErr(err))
}

// updatedAt reads the metadata written by Write, falling back to the
// object's modification time.
func updatedAt(info minio.ObjectInfo) int64 {
	for k, v := range info.UserMetadata {
		if strings.EqualFold(strings.TrimPrefix(strings.ToLower(k), "x-amz-meta-"), updatedAtMeta) {
			if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
				return ms
			}
		}
	}
	return info.LastModified.UnixMilli()
}

// mapErr attaches the core remote sentinel matching an S3 error response.
func mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", core.ErrRemoteTimeout, err)
	}
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchBucket":
		return fmt.Errorf("%w: %v", core.ErrNotProvisioned, err)
	case resp.Code == "AccessDenied", resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %v", core.ErrPermissionDenied, err)
	}
	return err
}

var _ core.RemoteStore = (*Store)(nil)
