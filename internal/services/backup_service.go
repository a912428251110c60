package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"hotel-backend/internal/config"
	"hotel-backend/internal/models"
	"hotel-backend/internal/timeutil"
)

// BackupService uploads closed revenue records to S3-compatible storage
// (R2). It is optional: with no credentials configured every call is a
// logged no-op, so the day close never depends on it.
type BackupService struct {
	cfg config.R2Config
}

func NewBackupService(cfg config.R2Config) *BackupService {
	return &BackupService{cfg: cfg}
}

func (s *BackupService) enabled() bool {
	return s.cfg.AccessKeyID != "" && s.cfg.SecretAccessKey != "" && s.cfg.BucketName != ""
}

func (s *BackupService) client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKeyID,
			s.cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(s.cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure S3 client: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.Endpoint)
	}), nil
}

// UploadRevenueRecord stores the record as JSON under revenue/<dateKey>.json.
func (s *BackupService) UploadRevenueRecord(ctx context.Context, record *models.DailyRevenueRecord) error {
	if !s.enabled() {
		log.Printf("[Backup] Skipping upload for %s: no storage configured", record.DateKey)
		return nil
	}

	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode revenue record: %w", err)
	}

	key := fmt.Sprintf("revenue/%s.json", record.DateKey)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	log.Printf("[Backup] Uploaded %s (%d bytes)", key, len(payload))
	return nil
}

// ListRevenueBackups returns the keys stored under revenue/.
func (s *BackupService) ListRevenueBackups(ctx context.Context) ([]string, error) {
	if !s.enabled() {
		return nil, nil
	}

	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	result, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.BucketName),
		Prefix: aws.String("revenue/"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	keys := make([]string, 0, len(result.Contents))
	for _, obj := range result.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys, nil
}

// CloseHook adapts the service to the day-close backup hook. Upload errors
// are logged only.
func (s *BackupService) CloseHook() BackupHook {
	return func(ctx context.Context, record *models.DailyRevenueRecord) {
		if err := s.UploadRevenueRecord(ctx, record); err != nil {
			log.Printf("[Backup] Upload failed for %s at %s: %v",
				record.DateKey, timeutil.Now().Format("15:04:05"), err)
		}
	}
}
