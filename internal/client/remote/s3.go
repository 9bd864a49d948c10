package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/common"
)

const (
	snapshotKey     = "metadata.json"
	bookFilePrefix  = "books/"
	translationsDir = "translations/"
)

// S3Config holds the connection settings for an S3-compatible mirror
// (AWS S3 or MinIO via BaseEndpoint).
type S3Config struct {
	Region       string
	BaseEndpoint string
	Bucket       string
	AccessKey    string
	SecretKey    string

	// Prefix namespaces one account's documents inside the bucket.
	Prefix string
}

// S3Mirror implements Mirror over a single S3 bucket.
type S3Mirror struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Mirror(ctx context.Context, cfg S3Config) (*S3Mirror, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	prefix := cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &S3Mirror{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

func (m *S3Mirror) key(parts ...string) string {
	return m.prefix + strings.Join(parts, "")
}

// get fetches one object, mapping an absent key to common.ErrorNotFound.
func (m *S3Mirror) get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error downloading %s: %w", key, err)
	}
	return out.Body, nil
}

func (m *S3Mirror) put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("error uploading %s: %w", key, err)
	}
	return nil
}

func (m *S3Mirror) DownloadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	body, err := m.get(ctx, m.key(snapshotKey))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var s models.Snapshot
	if err := json.NewDecoder(body).Decode(&s); err != nil {
		return nil, fmt.Errorf("error decoding snapshot: %w", err)
	}
	return &s, nil
}

func (m *S3Mirror) UploadSnapshot(ctx context.Context, s *models.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}
	return m.put(ctx, m.key(snapshotKey), bytes.NewReader(b), "application/json")
}

func (m *S3Mirror) ListBookFiles(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	prefix := m.key(bookFilePrefix)

	paginator := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing book files: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			id := strings.TrimPrefix(*obj.Key, prefix)
			if id != "" {
				ids[id] = struct{}{}
			}
		}
	}
	return ids, nil
}

func (m *S3Mirror) UploadBookFile(ctx context.Context, id string, r io.Reader) error {
	return m.put(ctx, m.key(bookFilePrefix, id), r, "application/octet-stream")
}

func (m *S3Mirror) DownloadBookFile(ctx context.Context, id string) (io.ReadCloser, error) {
	return m.get(ctx, m.key(bookFilePrefix, id))
}

func (m *S3Mirror) DownloadTranslations(ctx context.Context, bookID string) ([]models.TranslationEntry, error) {
	body, err := m.get(ctx, m.key(translationsDir, bookID, ".json"))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var entries []models.TranslationEntry
	if err := json.NewDecoder(body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("error decoding translations: %w", err)
	}
	// BookID is not serialized in the per-book document
	for i := range entries {
		entries[i].BookID = bookID
	}
	return entries, nil
}

func (m *S3Mirror) UploadTranslations(ctx context.Context, bookID string, entries []models.TranslationEntry) error {
	if entries == nil {
		entries = []models.TranslationEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("error encoding translations: %w", err)
	}
	return m.put(ctx, m.key(translationsDir, bookID, ".json"), bytes.NewReader(b), "application/json")
}
