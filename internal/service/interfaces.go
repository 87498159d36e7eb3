package service

import (
	"context"

	"github.com/chefbotpro/backend/internal/model"
	"github.com/chefbotpro/backend/internal/types"
)

// IDietPlanService generates weekly diet plans
type IDietPlanService interface {
	Generate(ctx context.Context, req types.DietPlanRequest, userID string) (*model.DietPlanResponse, error)
}

// IPlanStore persists generated plans per user
type IPlanStore interface {
	Save(ctx context.Context, userID, goal string, resp *model.DietPlanResponse) (*model.PlanRecord, error)
	List(ctx context.Context, userID string) ([]model.PlanRecord, error)
	Get(ctx context.Context, userID, planID string) (*model.PlanRecord, error)
	Delete(ctx context.Context, userID, planID string) error
}

// IPlanExporter publishes saved plans for download
type IPlanExporter interface {
	Export(ctx context.Context, record *model.PlanRecord) (*ExportResult, error)
}

// INutritionService answers food macro lookups
type INutritionService interface {
	Lookup(ctx context.Context, query string) (*model.NutritionResult, error)
}

// ITokenValidator validates bearer tokens
type ITokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

var (
	_ IDietPlanService  = (*DietPlanService)(nil)
	_ IPlanStore        = (*PlanStore)(nil)
	_ IPlanExporter     = (*PlanExporter)(nil)
	_ INutritionService = (*NutritionService)(nil)
	_ ITokenValidator   = (*SupabaseTokenValidator)(nil)
	_ ChatCompleter     = (*SensayClient)(nil)
	_ ImageAnalyzer     = (*GeminiImageAnalyzer)(nil)
)
