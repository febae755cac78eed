package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const exportURLValidity = 15 * time.Minute

// EntrySnapshot is the document written by an export.
type EntrySnapshot struct {
	OwnerID    string          `json:"user_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Entries    []*models.Entry `json:"entries"`
}

// ExportService writes an owner's entries to S3 compatible storage and
// hands back a presigned download link.
type ExportService struct {
	entries *EntryService
	config  *config.Config
	now     func() time.Time
}

func NewExportService(entries *EntryService, cfg *config.Config) *ExportService {
	return &ExportService{entries: entries, config: cfg, now: time.Now}
}

// ExportKey is the object key for an export made at t.
func ExportKey(ownerID string, t time.Time) string {
	return fmt.Sprintf("users/%s/%04d/%02d/%02d/%s.json", ownerID, t.Year(), t.Month(), t.Day(), uuid.New())
}

// Export uploads a JSON snapshot of the owner's entries. Without a
// configured bucket it fails with common.ErrNotConfigured.
func (s *ExportService) Export(ctx context.Context, ownerID string) (*models.ExportResult, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if !s.config.ExportEnabled() {
		return nil, fmt.Errorf("export: %w", common.ErrNotConfigured)
	}

	items, err := s.entries.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	body, err := json.Marshal(EntrySnapshot{OwnerID: ownerID, ExportedAt: now, Entries: items})
	if err != nil {
		return nil, storeError("export", err)
	}

	client, err := s.client(ctx)
	if err != nil {
		return nil, storeError("export", err)
	}

	bucket := s.config.S3Bucket
	key := ExportKey(ownerID, now)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, storeError("export upload", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(exportURLValidity))
	if err != nil {
		return nil, storeError("export presign", err)
	}

	return &models.ExportResult{Key: key, URL: req.URL}, nil
}

func (s *ExportService) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}
