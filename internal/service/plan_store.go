package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chefbotpro/backend/internal/model"
)

// ErrPlanNotFound is returned when a plan does not exist or belongs to another user
var ErrPlanNotFound = errors.New("diet plan not found")

// PlanStore persists generated plans per user
type PlanStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPlanStore(db *gorm.DB, logger *zap.Logger) *PlanStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanStore{db: db, logger: logger.Named("plan_store")}
}

// Save stores resp for userID and sets resp.PlanID to the new record id
func (s *PlanStore) Save(ctx context.Context, userID, goal string, resp *model.DietPlanResponse) (*model.PlanRecord, error) {
	id := uuid.New()
	resp.PlanID = id.String()

	record := &model.PlanRecord{
		ID:             id,
		UserID:         userID,
		Goal:           goal,
		StartDate:      resp.WeeklyDietPlan.StartDate,
		TargetCalories: resp.UserProfile.TargetCalories,
		Source:         resp.Source,
		Payload:        model.PlanPayload(*resp),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		resp.PlanID = ""
		return nil, fmt.Errorf("failed to save diet plan: %w", err)
	}

	s.logger.Info("diet plan saved", zap.String("plan_id", resp.PlanID), zap.String("user_id", userID))
	return record, nil
}

// List returns the user's plans, newest first, without their payloads
func (s *PlanStore) List(ctx context.Context, userID string) ([]model.PlanRecord, error) {
	var records []model.PlanRecord
	err := s.db.WithContext(ctx).
		Omit("payload").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list diet plans: %w", err)
	}
	return records, nil
}

// Get returns one of the user's plans with its payload
func (s *PlanStore) Get(ctx context.Context, userID, planID string) (*model.PlanRecord, error) {
	id, err := uuid.Parse(planID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	var record model.PlanRecord
	err = s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diet plan: %w", err)
	}
	return &record, nil
}

// Delete soft deletes one of the user's plans
func (s *PlanStore) Delete(ctx context.Context, userID, planID string) error {
	id, err := uuid.Parse(planID)
	if err != nil {
		return ErrPlanNotFound
	}

	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.PlanRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete diet plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
