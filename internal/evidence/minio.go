package evidence

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/shenikar/trashunter/internal/models"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	// PublicBase - префикс ссылок; по умолчанию адрес самого endpoint
	PublicBase string
}

// MinioStore хранит доказательства в S3-совместимом бакете
type MinioStore struct {
	client     *minio.Client
	bucket     string
	region     string
	publicBase string
	now        func() time.Time
}

func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("evidence: MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("evidence: failed to create MinIO client: %w", err)
	}

	base := strings.TrimRight(cfg.PublicBase, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, region: cfg.Region, publicBase: base, now: time.Now}, nil
}

// EnsureBucket создает бакет в регионе из конфигурации, если его еще нет
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("evidence: error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("evidence: failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinioStore) Save(ctx context.Context, ev models.Evidence) (string, error) {
	mt, err := Sniff(ev.Data)
	if err != nil {
		return "", err
	}

	key := "evidence/" + objectName(ev, mt, s.now())
	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(ev.Data),
		int64(len(ev.Data)),
		minio.PutObjectOptions{ContentType: mt.String()},
	)
	if err != nil {
		return "", fmt.Errorf("evidence: failed to store object in S3: %w", err)
	}
	return s.ObjectURL(key), nil
}

// ObjectURL строит публичную ссылку path-style
func (s *MinioStore) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, key)
}
