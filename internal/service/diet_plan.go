package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/internal/metrics"
	"github.com/chefbotpro/backend/internal/model"
	"github.com/chefbotpro/backend/internal/types"
)

// ErrInvalidDietPlanRequest is returned before any upstream call when required
// profile fields are missing or malformed
var ErrInvalidDietPlanRequest = errors.New("invalid diet plan request")

// Recipe pool sources reported with every plan
const (
	SourceAIPool                = "sensay_ai_pool"
	SourceFallbackTimeout       = "fallback_timeout"
	SourceFallbackUpstreamError = "fallback_upstream_error"
	SourceFallbackParseError    = "fallback_parse_error"
	SourceFallbackInsufficient  = "fallback_insufficient_pool"
	SourceFallbackOffline       = "fallback_offline"
)

// ChatCompleter sends a prompt to the conversational AI and returns its raw reply
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, userID, content string, skipHistory bool) (string, error)
}

// DietPlanOption customises a DietPlanService
type DietPlanOption func(*DietPlanService)

// WithRandomSource pins meal selection, mostly for tests
func WithRandomSource(rng RandomSource) DietPlanOption {
	return func(s *DietPlanService) { s.assembler = NewPlanAssembler(rng) }
}

// WithClock replaces time.Now as the source of "today"
func WithClock(now func() time.Time) DietPlanOption {
	return func(s *DietPlanService) { s.now = now }
}

// DietPlanService runs the plan generation pipeline
type DietPlanService struct {
	chat      ChatCompleter
	assembler *PlanAssembler
	plans     *PlanValidator
	requests  *validator.Validate
	now       func() time.Time
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewDietPlanService creates the pipeline. A nil chat skips the AI and always uses
// the fallback catalog.
func NewDietPlanService(chat ChatCompleter, logger *zap.Logger, m *metrics.Metrics, opts ...DietPlanOption) *DietPlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	requests := validator.New()
	requests.SetTagName("binding")

	s := &DietPlanService{
		chat:      chat,
		assembler: NewPlanAssembler(nil),
		plans:     NewPlanValidator(),
		requests:  requests,
		now:       time.Now,
		logger:    logger.Named("diet_plan"),
		metrics:   m,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds a weekly plan for req. userID only attributes the upstream chat
// call. Timeouts, upstream rejections and unusable replies fall back to the static
// catalog; only invalid input and broken transport are returned as errors.
func (s *DietPlanService) Generate(ctx context.Context, req types.DietPlanRequest, userID string) (*model.DietPlanResponse, error) {
	profile, err := s.profileFromRequest(req)
	if err != nil {
		return nil, err
	}

	targets := ComputeEnergy(profile.Height, profile.Weight, profile.Age, profile.Gender, profile.ActivityLevel, profile.Goal)
	today := s.now()
	start := ResolveStartDate(profile.TargetDate, today)
	s.logger.Info("generating diet plan",
		zap.String("user_id", userID),
		zap.String("goal", profile.Goal),
		zap.Int("target_calories", targets.TargetCalories),
		zap.Int("days_until_target", DaysUntil(profile.TargetDate, today)),
		zap.String("start_date", start.Format("2006-01-02")))

	pool, source, err := s.recipePool(ctx, profile, targets, userID)
	if err != nil {
		return nil, err
	}

	plan := s.assembler.Assemble(pool, profile, targets, start)
	resp := &model.DietPlanResponse{
		UserProfile: model.ProfileSummary{
			BMI:            BMI(profile.Height, profile.Weight),
			TargetCalories: targets.TargetCalories,
			BMR:            int(math.Round(targets.BMR)),
			TDEE:           int(math.Round(targets.TDEE)),
		},
		WeeklyDietPlan: plan,
		Source:         source,
		Timestamp:      s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if source == SourceAIPool {
		resp.RecipePoolSize = len(pool)
	}

	if err := s.plans.Validate(plan); err != nil {
		s.logger.Warn("generated plan failed schema validation", zap.Error(err))
		resp.ValidationWarning = err.Error()
	}

	s.metrics.ObservePlan(source)
	return resp, nil
}

// profileFromRequest validates req and converts it into a UserProfile
func (s *DietPlanService) profileFromRequest(req types.DietPlanRequest) (model.UserProfile, error) {
	if err := s.requests.Struct(req); err != nil {
		return model.UserProfile{}, fmt.Errorf("%w: %v", ErrInvalidDietPlanRequest, err)
	}
	target, err := ParsePlanDate(req.TargetDate, s.now().Location())
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("%w: targetDate %q is not a date", ErrInvalidDietPlanRequest, req.TargetDate)
	}
	return model.UserProfile{
		Height:              req.Height,
		Weight:              req.Weight,
		Age:                 req.Age,
		Gender:              req.Gender,
		ActivityLevel:       req.ActivityLevel,
		Goal:                req.Goal,
		DietPreference:      req.DietPreference,
		BloodSugar:          req.BloodSugar,
		BloodPressure:       req.BloodPressure,
		DietaryRestrictions: req.DietaryRestrictions,
		Allergies:           req.Allergies,
		TargetDate:          target,
	}, nil
}

// recipePool asks the AI for candidates and falls back to the static catalog on any
// anticipated failure. Only a broken transport is returned as an error.
func (s *DietPlanService) recipePool(ctx context.Context, profile model.UserProfile, targets model.EnergyTargets, userID string) ([]model.CandidateRecipe, string, error) {
	if s.chat == nil {
		return s.fallback(profile.Goal, SourceFallbackOffline, nil)
	}

	reply, err := s.chat.ChatCompletion(ctx, userID, BuildRecipePoolPrompt(profile, targets), true)
	if err != nil {
		var httpErr *UpstreamHTTPError
		switch {
		case errors.Is(err, ErrUpstreamTimeout):
			return s.fallback(profile.Goal, SourceFallbackTimeout, err)
		case errors.As(err, &httpErr):
			return s.fallback(profile.Goal, SourceFallbackUpstreamError, err)
		case errors.Is(err, ErrEmptyUpstreamReply):
			return s.fallback(profile.Goal, SourceFallbackParseError, err)
		default:
			s.logger.Error("recipe pool request failed", zap.Error(err))
			return nil, "", fmt.Errorf("failed to request recipe pool: %w", err)
		}
	}

	pool, err := ExtractRecipePool(reply)
	if err != nil {
		if errors.Is(err, ErrInsufficientRecipePool) {
			return s.fallback(profile.Goal, SourceFallbackInsufficient, err)
		}
		return s.fallback(profile.Goal, SourceFallbackParseError, err)
	}

	if n := CountUnbucketed(pool); n > 0 {
		s.logger.Warn("recipe pool has entries outside the meal types", zap.Int("count", n))
	}
	s.logger.Info("using AI recipe pool", zap.Int("size", len(pool)))
	return pool, SourceAIPool, nil
}

func (s *DietPlanService) fallback(goal, source string, cause error) ([]model.CandidateRecipe, string, error) {
	s.logger.Warn("using fallback recipe catalog",
		zap.String("source", source),
		zap.String("goal", goal),
		zap.Error(cause))
	return FallbackRecipePool(goal), source, nil
}
