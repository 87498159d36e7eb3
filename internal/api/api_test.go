package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefbotpro/backend/internal/model"
	"github.com/chefbotpro/backend/internal/service"
	"github.com/chefbotpro/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokens struct{}

func (stubTokens) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != "user-a-token" {
		return nil, service.ErrInvalidToken
	}
	return &types.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-a"}}, nil
}

type fakeDietPlans struct {
	err     error
	panics  bool
	userIDs []string
}

func (f *fakeDietPlans) Generate(ctx context.Context, req types.DietPlanRequest, userID string) (*model.DietPlanResponse, error) {
	f.userIDs = append(f.userIDs, userID)
	if f.panics {
		panic("assembler exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &model.DietPlanResponse{
		UserProfile: model.ProfileSummary{TargetCalories: 1709},
		WeeklyDietPlan: model.WeeklyDietPlan{
			StartDate: "2025-06-12",
		},
		Source: service.SourceFallbackTimeout,
	}, nil
}

type memoryStore struct {
	records map[string]*model.PlanRecord
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]*model.PlanRecord{}}
}

func (s *memoryStore) Save(ctx context.Context, userID, goal string, resp *model.DietPlanResponse) (*model.PlanRecord, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	id := uuid.New()
	resp.PlanID = id.String()
	r := &model.PlanRecord{ID: id, UserID: userID, Goal: goal, StartDate: resp.WeeklyDietPlan.StartDate, Source: resp.Source, Payload: model.PlanPayload(*resp)}
	s.records[id.String()] = r
	return r, nil
}

func (s *memoryStore) List(ctx context.Context, userID string) ([]model.PlanRecord, error) {
	var out []model.PlanRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memoryStore) Get(ctx context.Context, userID, planID string) (*model.PlanRecord, error) {
	r, ok := s.records[planID]
	if !ok || r.UserID != userID {
		return nil, service.ErrPlanNotFound
	}
	return r, nil
}

func (s *memoryStore) Delete(ctx context.Context, userID, planID string) error {
	if _, err := s.Get(ctx, userID, planID); err != nil {
		return err
	}
	delete(s.records, planID)
	return nil
}

type fakeExporter struct{}

func (fakeExporter) Export(ctx context.Context, record *model.PlanRecord) (*service.ExportResult, error) {
	return &service.ExportResult{
		Key:       "diet-plans/" + record.UserID + "/" + record.ID.String() + ".json",
		URL:       "https://bucket.example.com/signed",
		ExpiresAt: time.Date(2025, 6, 10, 14, 15, 0, 0, time.UTC),
	}, nil
}

type fakeChat struct {
	err         error
	skipHistory bool
}

func (f *fakeChat) ChatCompletion(ctx context.Context, userID, content string, skipHistory bool) (string, error) {
	f.skipHistory = skipHistory
	if f.err != nil {
		return "", f.err
	}
	return "Try grilled salmon, " + userID, nil
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) AnalyzeImage(ctx context.Context, mimeType string, data []byte, prompt string) (string, error) {
	return fmt.Sprintf("pasta carbonara (%s, %d bytes)", mimeType, len(data)), nil
}

func newRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), deps)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validPlanBody() map[string]any {
	return map[string]any{
		"height":         180,
		"weight":         80,
		"age":            30,
		"gender":         "male",
		"activityLevel":  "sedentary",
		"goal":           "cut",
		"dietPreference": "omnivore",
		"targetDate":     "2025-06-12",
	}
}

var authHeader = map[string]string{"Authorization": "Bearer user-a-token"}

func TestHealthCheck(t *testing.T) {
	r := newRouter(Dependencies{})
	w := doJSON(r, http.MethodGet, "/api/v1/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestGenerateDietPlan(t *testing.T) {
	t.Run("should return the plan for a guest without saving it", func(t *testing.T) {
		plans := &fakeDietPlans{}
		store := newMemoryStore()
		r := newRouter(Dependencies{DietPlans: plans, Plans: store, Tokens: stubTokens{}})

		w := doJSON(r, http.MethodPost, "/api/v1/diet-plans/generate", validPlanBody(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.DietPlanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, service.SourceFallbackTimeout, resp.Source)
		assert.Empty(t, resp.PlanID)
		assert.Empty(t, store.records)
		assert.Equal(t, []string{"guest"}, plans.userIDs)
	})

	t.Run("should attribute the X-User-ID header", func(t *testing.T) {
		plans := &fakeDietPlans{}
		r := newRouter(Dependencies{DietPlans: plans})

		w := doJSON(r, http.MethodPost, "/api/v1/diet-plans/generate", validPlanBody(), map[string]string{"X-User-ID": "anon-9"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"anon-9"}, plans.userIDs)
	})

	t.Run("should save plans for authenticated callers", func(t *testing.T) {
		store := newMemoryStore()
		r := newRouter(Dependencies{DietPlans: &fakeDietPlans{}, Plans: store, Tokens: stubTokens{}})

		w := doJSON(r, http.MethodPost, "/api/v1/diet-plans/generate", validPlanBody(), authHeader)

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.DietPlanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.PlanID)
		assert.Equal(t, "user-a", store.records[resp.PlanID].UserID)
	})

	t.Run("should still return the plan when saving fails", func(t *testing.T) {
		store := newMemoryStore()
		store.saveErr = errors.New("database is down")
		r := newRouter(Dependencies{DietPlans: &fakeDietPlans{}, Plans: store, Tokens: stubTokens{}})

		w := doJSON(r, http.MethodPost, "/api/v1/diet-plans/generate", validPlanBody(), authHeader)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "planId")
	})

	t.Run("should reject missing fields before generating", func(t *testing.T) {
		plans := &fakeDietPlans{}
		r := newRouter(Dependencies{DietPlans: plans})
		body := validPlanBody()
		delete(body, "targetDate")

		w := doJSON(r, http.MethodPost, "/api/v1/diet-plans/generate", body, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing required fields")
		assert.Empty(t, plans.userIDs)
	})

	cases := []struct {
		name    string
		plans   *fakeDietPlans
		status  int
		details string
	}{
		{"should map invalid requests to 400", &fakeDietPlans{err: fmt.Errorf("%w: targetDate", service.ErrInvalidDietPlanRequest)}, http.StatusBadRequest, "targetDate"},
		{"should surface network failures with details", &fakeDietPlans{err: &service.UpstreamNetworkError{Err: errors.New("connection refused")}}, http.StatusInternalServerError, "connection refused"},
		{"should hide unexpected errors behind a retry message", &fakeDietPlans{err: errors.New("boom")}, http.StatusInternalServerError, retryMessage},
		{"should convert panics into a retry message", &fakeDietPlans{panics: true}, http.StatusInternalServerError, retryMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(Dependencies{DietPlans: tc.plans})
			w := doJSON(r, http.MethodPost, "/api/v1/diet-plans/generate", validPlanBody(), nil)

			assert.Equal(t, tc.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.Contains(t, body["details"], tc.details)
		})
	}
}

func TestGenerateDietPlan_Offline(t *testing.T) {
	today := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	svc := service.NewDietPlanService(nil, nil, nil, service.WithClock(func() time.Time { return today }))
	r := newRouter(Dependencies{DietPlans: svc})

	w := doJSON(r, http.MethodPost, "/api/v1/diet-plans/generate", validPlanBody(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.DietPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, service.SourceFallbackOffline, resp.Source)
	assert.Equal(t, 1709, resp.UserProfile.TargetCalories)
	assert.Len(t, resp.WeeklyDietPlan.Days, 7)
	assert.Empty(t, resp.ValidationWarning)
}

func TestSavedDietPlans(t *testing.T) {
	store := newMemoryStore()
	r := newRouter(Dependencies{DietPlans: &fakeDietPlans{}, Plans: store, Exporter: fakeExporter{}, Tokens: stubTokens{}})

	w := doJSON(r, http.MethodPost, "/api/v1/diet-plans/generate", validPlanBody(), authHeader)
	require.Equal(t, http.StatusOK, w.Code)
	var created model.DietPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := "/api/v1/diet-plans/" + created.PlanID

	t.Run("should require a token", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/v1/diet-plans", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should list the caller's plans", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/v1/diet-plans", nil, authHeader)
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Plans []model.PlanRecord `json:"plans"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Plans, 1)
		assert.Equal(t, created.PlanID, body.Plans[0].ID.String())
	})

	t.Run("should fetch a saved plan", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, path, nil, authHeader)
		require.Equal(t, http.StatusOK, w.Code)
		var got model.DietPlanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, created.PlanID, got.PlanID)
	})

	t.Run("should export a saved plan", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, path+"/export", nil, authHeader)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "https://bucket.example.com/signed")
	})

	t.Run("should 404 on unknown plans", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/v1/diet-plans/"+uuid.NewString(), nil, authHeader)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should delete a saved plan", func(t *testing.T) {
		w := doJSON(r, http.MethodDelete, path, nil, authHeader)
		assert.Equal(t, http.StatusNoContent, w.Code)
		w = doJSON(r, http.MethodGet, path, nil, authHeader)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should answer 503 without an exporter", func(t *testing.T) {
		r := newRouter(Dependencies{Plans: store, Tokens: stubTokens{}})
		w := doJSON(r, http.MethodPost, path+"/export", nil, authHeader)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestEnergy(t *testing.T) {
	r := newRouter(Dependencies{})

	t.Run("should compute the energy targets", func(t *testing.T) {
		body := validPlanBody()
		delete(body, "targetDate")
		w := doJSON(r, http.MethodPost, "/api/v1/energy", body, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"bmr":1780,"tdee":2136,"targetCalories":1709,"bmi":24.7}`, w.Body.String())
	})

	t.Run("should reject missing fields", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/energy", map[string]any{"height": 175}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNutritionLookup(t *testing.T) {
	t.Run("should estimate without an API", func(t *testing.T) {
		r := newRouter(Dependencies{Nutrition: service.NewNutritionService(service.NutritionConfig{}, nil, nil, nil, nil)})
		w := doJSON(r, http.MethodPost, "/api/v1/nutrition/lookup", map[string]string{"query": "2 eggs"}, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var result model.NutritionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, service.NutritionSourceEstimate, result.Source)
		assert.Equal(t, 155, result.Macros.Calories)
	})

	t.Run("should require a query", func(t *testing.T) {
		r := newRouter(Dependencies{Nutrition: service.NewNutritionService(service.NutritionConfig{}, nil, nil, nil, nil)})
		w := doJSON(r, http.MethodPost, "/api/v1/nutrition/lookup", map[string]string{}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChat(t *testing.T) {
	t.Run("should relay the reply with history kept", func(t *testing.T) {
		chat := &fakeChat{}
		r := newRouter(Dependencies{Chat: chat})
		w := doJSON(r, http.MethodPost, "/api/v1/chat", map[string]string{"message": "dinner ideas?"}, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"reply":"Try grilled salmon, guest"}`, w.Body.String())
		assert.False(t, chat.skipHistory)
	})

	t.Run("should map upstream failures to 502", func(t *testing.T) {
		r := newRouter(Dependencies{Chat: &fakeChat{err: service.ErrUpstreamTimeout}})
		w := doJSON(r, http.MethodPost, "/api/v1/chat", map[string]string{"message": "hi"}, nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("should answer 503 without a chat client", func(t *testing.T) {
		r := newRouter(Dependencies{})
		w := doJSON(r, http.MethodPost, "/api/v1/chat", map[string]string{"message": "hi"}, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func imageUpload(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="dish.jpg"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vision/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestVisionAnalyze(t *testing.T) {
	t.Run("should analyze an uploaded photo", func(t *testing.T) {
		r := newRouter(Dependencies{Vision: fakeAnalyzer{}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, imageUpload(t, "image/jpeg", []byte("jpeg-bytes")))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"analysis":"pasta carbonara (image/jpeg, 10 bytes)"}`, w.Body.String())
	})

	t.Run("should reject unsupported types", func(t *testing.T) {
		r := newRouter(Dependencies{Vision: fakeAnalyzer{}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, imageUpload(t, "image/gif", []byte("gif")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should answer 503 without an analyzer", func(t *testing.T) {
		r := newRouter(Dependencies{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, imageUpload(t, "image/png", []byte("png")))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
