// Package storage wraps the MinIO client used to mirror cover art so the UI
// never hotlinks raw repository URLs.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/muntasir-dev/MusicStream/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var minioClient *minio.Client

// InitMinio initializes the MinIO client and ensures the bucket exists.
// Returns nil without connecting when no endpoint is configured; mirroring
// is then disabled.
func InitMinio(cfg *config.Config) error {
	if cfg.MinioEndpoint == "" {
		return nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
	}

	minioClient = client
	return nil
}

// GetMinioClient returns the initialized MinIO client, or nil when storage
// is disabled.
func GetMinioClient() *minio.Client {
	return minioClient
}

// CoverMirror mirrors cover images into the configured bucket.
type CoverMirror struct {
	bucket     string
	publicURL  string
	httpClient *http.Client
}

// NewCoverMirror creates a CoverMirror. Returns nil when MinIO is not
// initialized, which the import engine treats as "mirroring disabled".
func NewCoverMirror(cfg *config.Config) *CoverMirror {
	if minioClient == nil {
		return nil
	}
	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}
	return &CoverMirror{
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// MirrorCoverArt downloads sourceURL and stores it under key, returning the
// URL the object is served under.
func (m *CoverMirror) MirrorCoverArt(ctx context.Context, key, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create cover art request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch cover art %s: %w", sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cover art fetch %s returned status %d", sourceURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err = minioClient.PutObject(ctx, m.bucket, key, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store cover art %s: %w", key, err)
	}

	return m.publicURL + "/" + key, nil
}
