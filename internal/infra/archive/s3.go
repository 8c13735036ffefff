package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
)

// S3Archive writes snapshots to an S3-compatible bucket (R2, MinIO, AWS).
type S3Archive struct {
	client *minio.Client
	bucket string
	logger *slog.Logger

	bucketMu    sync.Mutex
	bucketReady bool
}

// NewS3Archive constructs the archive adapter.
func NewS3Archive(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*S3Archive, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("archive bucket cannot be empty")
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init archive client: %w", err)
	}
	return &S3Archive{client: client, bucket: bucket, logger: logger.With("component", "archive.s3")}, nil
}

// Put uploads the snapshot as a single JSON object.
func (a *S3Archive) Put(ctx context.Context, snap allergy.Snapshot) error {
	if err := a.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure archive bucket: %w", err)
	}
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	key := objectKey(snap)
	info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      contentType,
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("put snapshot %s: %w", key, err)
	}
	a.logger.Debug("forecast snapshot archived", "object", key, "size", info.Size)
	return nil
}

func (a *S3Archive) ensureBucket(ctx context.Context) error {
	a.bucketMu.Lock()
	defer a.bucketMu.Unlock()
	if a.bucketReady {
		return nil
	}
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err == nil && !exists {
		err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
		if err != nil && minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
			err = nil
		}
	}
	if err != nil {
		return err
	}
	a.bucketReady = true
	return nil
}

var _ allergy.Archive = (*S3Archive)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	host, _, _ := strings.Cut(raw, "/")
	return host
}
