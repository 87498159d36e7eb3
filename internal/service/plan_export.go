package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/config"
	"github.com/chefbotpro/backend/internal/model"
)

// ExportURLExpiry is how long a presigned plan download stays valid
const ExportURLExpiry = 15 * time.Minute

// ObjectPutter uploads objects. *s3.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// URLPresigner creates download links. *config.S3Config satisfies it.
type URLPresigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// ExportResult locates an exported plan
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PlanExporter uploads saved plans as JSON documents to S3
type PlanExporter struct {
	putter    ObjectPutter
	presigner URLPresigner
	bucket    string
	prefix    string
	now       func() time.Time
	logger    *zap.Logger
}

// NewPlanExporter creates an exporter for the bucket in cfg
func NewPlanExporter(cfg *config.S3Config, logger *zap.Logger) *PlanExporter {
	return newPlanExporter(cfg.Client, cfg, cfg.BucketName, cfg.Prefix, logger)
}

func newPlanExporter(putter ObjectPutter, presigner URLPresigner, bucket, prefix string, logger *zap.Logger) *PlanExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanExporter{
		putter:    putter,
		presigner: presigner,
		bucket:    bucket,
		prefix:    prefix,
		now:       time.Now,
		logger:    logger.Named("plan_export"),
	}
}

// Export uploads the plan payload and returns a presigned download URL
func (e *PlanExporter) Export(ctx context.Context, record *model.PlanRecord) (*ExportResult, error) {
	body, err := json.MarshalIndent(record.Payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	key := fmt.Sprintf("%s%s/%s.json", e.prefix, record.UserID, record.ID)
	_, err = e.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(e.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(body),
		ContentType:        aws.String("application/json"),
		ContentDisposition: aws.String(fmt.Sprintf(`attachment; filename="diet-plan-%s.json"`, record.StartDate)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload plan: %w", err)
	}

	url, err := e.presigner.GeneratePresignedURL(ctx, key, ExportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign plan download: %w", err)
	}

	e.logger.Info("diet plan exported", zap.String("plan_id", record.ID.String()), zap.String("key", key))
	return &ExportResult{Key: key, URL: url, ExpiresAt: e.now().Add(ExportURLExpiry)}, nil
}
