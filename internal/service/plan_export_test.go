package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefbotpro/backend/internal/model"
)

type fakeBucket struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeBucket) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) GeneratePresignedURL(_ context.Context, key string, expiration time.Duration) (string, error) {
	return "https://bucket.example/" + key + "?expires=" + expiration.String(), nil
}

func TestPlanExporter_Export(t *testing.T) {
	resp := samplePlanResponse(t)
	record := &model.PlanRecord{
		ID:        uuid.MustParse("6f1c8f5e-2d1b-4c4e-9a55-0d5f3a1b2c3d"),
		UserID:    "user-a",
		StartDate: resp.WeeklyDietPlan.StartDate,
		Payload:   model.PlanPayload(*resp),
	}

	t.Run("should upload and presign", func(t *testing.T) {
		bucket := &fakeBucket{}
		exporter := newPlanExporter(bucket, bucket, "plans", "diet-plans/", nil)
		exporter.now = func() time.Time { return testToday }

		result, err := exporter.Export(context.Background(), record)

		require.NoError(t, err)
		assert.Equal(t, "diet-plans/user-a/6f1c8f5e-2d1b-4c4e-9a55-0d5f3a1b2c3d.json", result.Key)
		assert.Equal(t, "https://bucket.example/"+result.Key+"?expires=15m0s", result.URL)
		assert.Equal(t, testToday.Add(15*time.Minute), result.ExpiresAt)

		assert.Equal(t, "plans", aws.ToString(bucket.input.Bucket))
		assert.Equal(t, "application/json", aws.ToString(bucket.input.ContentType))
		var uploaded model.DietPlanResponse
		require.NoError(t, json.Unmarshal(bucket.body, &uploaded))
		assert.Equal(t, resp.WeeklyDietPlan, uploaded.WeeklyDietPlan)
	})

	t.Run("should report upload failures", func(t *testing.T) {
		bucket := &fakeBucket{err: errors.New("access denied")}
		_, err := newPlanExporter(bucket, bucket, "plans", "", nil).Export(context.Background(), record)
		assert.ErrorContains(t, err, "access denied")
	})
}
