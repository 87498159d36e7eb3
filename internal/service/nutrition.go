package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/internal/metrics"
	"github.com/chefbotpro/backend/internal/model"
)

// Nutrition lookup sources
const (
	NutritionSourceAPI      = "nutrition_api"
	NutritionSourceEstimate = "estimate"
)

const nutritionCacheTTL = 24 * time.Hour

// NutritionConfig points at an API Ninjas compatible nutrition endpoint
type NutritionConfig struct {
	APIURL string
	APIKey string
}

// NutritionService answers macro lookups from the nutrition API, falling back to a
// keyword estimator. Results are cached in redis when a client is given.
type NutritionService struct {
	cfg     NutritionConfig
	client  *http.Client
	cache   *redis.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewNutritionService(cfg NutritionConfig, httpClient *http.Client, cache *redis.Client, logger *zap.Logger, m *metrics.Metrics) *NutritionService {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NutritionService{
		cfg:     cfg,
		client:  httpClient,
		cache:   cache,
		logger:  logger.Named("nutrition"),
		metrics: m,
	}
}

// Lookup returns macros for a free-form food description such as "200g chicken breast"
func (s *NutritionService) Lookup(ctx context.Context, query string) (*model.NutritionResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("nutrition query is empty")
	}
	key := "nutrition:" + strings.ToLower(query)

	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	result := &model.NutritionResult{Query: query}
	macros, err := s.fetch(ctx, query)
	if err != nil {
		s.logger.Warn("nutrition API unavailable, estimating", zap.String("query", query), zap.Error(err))
		result.Macros = EstimateMacros(query)
		result.Source = NutritionSourceEstimate
	} else {
		result.Macros = *macros
		result.Source = NutritionSourceAPI
	}

	s.toCache(ctx, key, result)
	return result, nil
}

type nutritionItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Fat      float64 `json:"fat_total_g"`
	Carbs    float64 `json:"carbohydrates_total_g"`
}

func (s *NutritionService) fetch(ctx context.Context, query string) (*model.Macros, error) {
	if s.cfg.APIKey == "" || s.cfg.APIURL == "" {
		return nil, errors.New("nutrition API is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.APIURL+"?query="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.cfg.APIKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.ObserveUpstream("nutrition", "network_error", time.Since(start))
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.metrics.ObserveUpstream("nutrition", "network_error", time.Since(start))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.metrics.ObserveUpstream("nutrition", "http_error", time.Since(start))
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncate(string(body), 256))
	}
	s.metrics.ObserveUpstream("nutrition", "ok", time.Since(start))

	var items []nutritionItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("no nutrition data for query")
	}

	var total model.Macros
	var calories float64
	for _, item := range items {
		calories += item.Calories
		total.Protein += item.Protein
		total.Fat += item.Fat
		total.Carbs += item.Carbs
	}
	total.Calories = int(math.Round(calories))
	total.Protein = round1(total.Protein)
	total.Fat = round1(total.Fat)
	total.Carbs = round1(total.Carbs)
	return &total, nil
}

func (s *NutritionService) fromCache(ctx context.Context, key string) (*model.NutritionResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("nutrition cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var result model.NutritionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (s *NutritionService) toCache(ctx context.Context, key string, result *model.NutritionResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, nutritionCacheTTL).Err(); err != nil {
		s.logger.Warn("nutrition cache write failed", zap.Error(err))
	}
}

// foodProfile holds macros per 100 g. pieceGrams is the weight of one unit when
// the food is usually counted rather than weighed.
type foodProfile struct {
	keyword                       string
	calories, protein, carbs, fat float64
	pieceGrams                    float64
}

// foodTable is matched in order, so longer keywords come first
var foodTable = []foodProfile{
	{"chicken breast", 165, 31, 0, 3.6, 0},
	{"chicken", 239, 27, 0, 14, 0},
	{"ground beef", 250, 26, 0, 15, 0},
	{"beef", 250, 26, 0, 15, 0},
	{"salmon", 208, 20, 0, 13, 0},
	{"tuna", 132, 28, 0, 1.3, 0},
	{"shrimp", 99, 24, 0.2, 0.3, 0},
	{"tofu", 76, 8, 1.9, 4.8, 0},
	{"egg white", 52, 11, 0.7, 0.2, 33},
	{"egg", 155, 13, 1.1, 11, 50},
	{"greek yogurt", 59, 10, 3.6, 0.4, 0},
	{"yogurt", 61, 3.5, 4.7, 3.3, 0},
	{"milk", 42, 3.4, 5, 1, 0},
	{"cheese", 402, 25, 1.3, 33, 0},
	{"brown rice", 112, 2.3, 24, 0.8, 0},
	{"rice", 130, 2.7, 28, 0.3, 0},
	{"quinoa", 120, 4.4, 21, 1.9, 0},
	{"pasta", 131, 5, 25, 1.1, 0},
	{"oats", 389, 17, 66, 7, 0},
	{"bread", 265, 9, 49, 3.2, 30},
	{"sweet potato", 86, 1.6, 20, 0.1, 130},
	{"potato", 77, 2, 17, 0.1, 170},
	{"lentils", 116, 9, 20, 0.4, 0},
	{"beans", 127, 8.7, 23, 0.5, 0},
	{"broccoli", 34, 2.8, 7, 0.4, 0},
	{"spinach", 23, 2.9, 3.6, 0.4, 0},
	{"avocado", 160, 2, 9, 15, 150},
	{"banana", 89, 1.1, 23, 0.3, 120},
	{"apple", 52, 0.3, 14, 0.2, 180},
	{"orange", 47, 0.9, 12, 0.1, 130},
	{"berries", 57, 0.7, 14, 0.3, 0},
	{"almonds", 579, 21, 22, 50, 0},
	{"peanut butter", 588, 25, 20, 50, 0},
	{"olive oil", 884, 0, 0, 100, 0},
	{"butter", 717, 0.9, 0.1, 81, 0},
}

var (
	unknownFood = foodProfile{calories: 200, protein: 10, carbs: 25, fat: 8}

	quantityPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(kg|g|grams?|oz|ounces?|lbs?|pounds?|cups?|pieces?|pcs|slices?)?\b\s*(?:of\s+)?`)
)

const (
	defaultServingGrams = 100
	cupGrams            = 200
)

// EstimateMacros approximates the macros of a food description from a keyword
// table. The quantity comes from a leading number and unit; without one a single
// piece (or 100 g) is assumed. Unknown foods count as 200 kcal per 100 g serving.
func EstimateMacros(query string) model.Macros {
	q := strings.ToLower(strings.TrimSpace(query))

	food := unknownFood
	for _, f := range foodTable {
		if strings.Contains(q, f.keyword) {
			food = f
			break
		}
	}

	grams := servingGrams(food)
	if m := quantityPattern.FindStringSubmatch(q); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		grams = quantityGrams(n, m[2], food)
	}

	factor := grams / 100
	return model.Macros{
		Calories: int(math.Round(food.calories * factor)),
		Protein:  round1(food.protein * factor),
		Carbs:    round1(food.carbs * factor),
		Fat:      round1(food.fat * factor),
	}
}

func servingGrams(f foodProfile) float64 {
	if f.pieceGrams > 0 {
		return f.pieceGrams
	}
	return defaultServingGrams
}

func quantityGrams(n float64, unit string, f foodProfile) float64 {
	switch {
	case unit == "kg":
		return n * 1000
	case unit == "g" || strings.HasPrefix(unit, "gram"):
		return n
	case unit == "oz" || strings.HasPrefix(unit, "ounce"):
		return n * 28.35
	case strings.HasPrefix(unit, "lb") || strings.HasPrefix(unit, "pound"):
		return n * 453.6
	case strings.HasPrefix(unit, "cup"):
		return n * cupGrams
	default:
		return n * servingGrams(f)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
