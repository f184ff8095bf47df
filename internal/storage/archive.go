package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"roomtrack/api/internal/config"
	"roomtrack/api/internal/models"
)

// ArchiveStore writes check-in history exports to an S3-compatible
// bucket. The hot checkins table is never pruned; exports are an
// operational backup of closed records.
type ArchiveStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewArchiveStore(cfg config.StorageConfig) (*ArchiveStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ArchiveStore{client: client, cfg: cfg}, nil
}

func (s *ArchiveStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketArchive)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.BucketArchive, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.BucketArchive, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.BucketArchive, err)
		}
	}
	return nil
}

// PutCheckins uploads a batch of closed records as one JSON object and
// returns the object key. Keys sort by export date first so history is
// browsable by prefix.
func (s *ArchiveStore) PutCheckins(ctx context.Context, key string, checkins []models.Checkin) (string, error) {
	payload, err := json.Marshal(checkins)
	if err != nil {
		return "", fmt.Errorf("marshal checkins: %w", err)
	}

	objectKey := fmt.Sprintf("checkins/%s/%s.json", time.Now().UTC().Format("2006-01-02"), key)

	_, err = s.client.PutObject(ctx, s.cfg.BucketArchive, objectKey,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return objectKey, nil
}
