package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/auth"
	"github.com/prn-tf/recipebook/internal/cache/memory"
	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/lock"
	"github.com/prn-tf/recipebook/internal/pkg/password"
	"github.com/prn-tf/recipebook/internal/repository/sqlstore"
	"github.com/prn-tf/recipebook/internal/seed"
	"github.com/prn-tf/recipebook/internal/service"
)

const (
	adminPassword  = "s3gredo-forte"
	allowedOrigin  = "https://app.example.com"
	testRemoteAddr = "192.0.2.10:4321"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

// newTestAPI wires the full stack over an in-memory SQLite store seeded with
// reference data and one administrator, "ana".
func newTestAPI(t *testing.T, limiter *RateLimiter) *testAPI {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	db, err := sqlstore.Open(ctx, config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        ":memory:",
		BusyTimeout: 1000,
	}, logger)
	require.NoError(t, err)
	_, err = db.Migrate(ctx)
	require.NoError(t, err)
	store := sqlstore.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })

	cache := memory.NewCache(time.Minute)
	t.Cleanup(cache.Stop)

	hasher := password.NewHasher(password.Params{Time: 1, Memory: 1024, Threads: 1})
	issuer := auth.NewTokenIssuer(config.AuthConfig{
		TokenSecret: "0123456789abcdef0123456789abcdef",
		TokenTTL:    time.Hour,
		Issuer:      "recipebook-test",
	})
	verifier := auth.NewVerifier(issuer, cache, logger)

	_, err = seed.Reference(ctx, store, logger)
	require.NoError(t, err)
	_, err = seed.Admin(ctx, store, hasher, seed.AdminInput{
		Name:        "Ana Souza",
		Username:    "ana",
		Email:       "ana@example.com",
		Password:    adminPassword,
		AccountName: "Cozinha da Ana",
	}, logger)
	require.NoError(t, err)

	authn := service.NewAuthenticationService(store, hasher, issuer, verifier, logger)
	ingredients := service.NewIngredientService(store, authn, logger)
	services := Services{
		Auth:          authn,
		Users:         service.NewUsersService(store, authn, hasher, logger),
		Categories:    service.NewCategoryService(store, authn, logger),
		Difficulties:  service.NewDifficultyService(store, authn, logger),
		CategoryTypes: service.NewCategoryTypeService(store, authn, logger),
		Ingredients:   ingredients,
		Recipes:       service.NewRecipeService(store, authn, logger),
		Comments:      service.NewCommentService(store, authn, logger),
		Ratings:       service.NewRatingService(store, authn, cache, lock.NewMemoryLocker(0), time.Minute, logger),
		Favorites:     service.NewFavoritesService(store, authn, logger),
		Settings:      service.NewUserSettingsService(store, authn, logger),
	}

	rt := NewRouter(RouterConfig{
		Services:       services,
		Verifier:       verifier,
		Health:         store,
		Metrics:        NewMetrics(),
		RateLimiter:    limiter,
		AllowedOrigins: []string{allowedOrigin},
		MaxBodySize:    1 << 20,
		Logger:         logger,
	})

	return &testAPI{t: t, handler: rt.Handler()}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(a.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.RemoteAddr = testRemoteAddr
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(identifier, secret string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/auth/login", "", map[string]string{
		"identifier": identifier,
		"password":   secret,
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data auth.Token `json:"data"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(a.t, body.Data.Token)
	return body.Data.Token
}

// firstID returns the id of the first element of a list response.
func (a *testAPI) firstID(path, token string) int64 {
	a.t.Helper()
	rec := a.do(http.MethodGet, path, token, nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(a.t, body.Data)
	return body.Data[0].ID
}

func dataID(t *testing.T, rec *httptest.ResponseRecorder) int64 {
	t.Helper()
	var body struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotZero(t, body.Data.ID)
	return body.Data.ID
}

func failureOf(t *testing.T, rec *httptest.ResponseRecorder) apperr.Error {
	t.Helper()
	var body apperr.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRequestIDIsPropagated(t *testing.T) {
	api := newTestAPI(t, nil)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestRecipeLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)
	ana := api.login("ana", adminPassword)

	typeID := api.firstID("/category-types", "")
	difficultyID := api.firstID("/difficulties", "")

	rec := api.do(http.MethodPost, "/categories", ana, map[string]any{
		"name":   "Massas",
		"typeId": typeID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	categoryID := dataID(t, rec)

	rec = api.do(http.MethodPost, "/recipes", ana, map[string]any{
		"title":           "Macarrão ao alho",
		"instructions":    "Cozinhe a massa e doure o alho no azeite.",
		"servings":        "2 porções",
		"prepTimeMinutes": 10,
		"cookTimeMinutes": 15,
		"categoryId":      categoryID,
		"difficultyId":    difficultyID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	recipeID := dataID(t, rec)
	recipePath := "/recipes/" + itoa(recipeID)

	rec = api.do(http.MethodPost, "/users", "", map[string]any{
		"name":        "Bruno Lima",
		"username":    "bruno",
		"email":       "bruno@example.com",
		"password":    "senha-do-bruno",
		"accountName": "Casa do Bruno",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password_hash")
	bruno := api.login("bruno@example.com", "senha-do-bruno")

	t.Run("DraftIsHidden", func(t *testing.T) {
		rec := api.do(http.MethodGet, recipePath, bruno, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperr.CodeNotFound, failureOf(t, rec).Code)

		rec = api.do(http.MethodGet, recipePath, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = api.do(http.MethodGet, recipePath, ana, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("OnlyModeratorsApprove", func(t *testing.T) {
		rec := api.do(http.MethodPost, recipePath+"/approve", bruno, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(http.MethodPost, recipePath+"/approve", ana, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = api.do(http.MethodGet, recipePath, bruno, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RatingUpsert", func(t *testing.T) {
		rec := api.do(http.MethodPut, recipePath+"/rating", bruno, map[string]int{"value": 4})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rec = api.do(http.MethodPut, recipePath+"/rating", bruno, map[string]int{"value": 2})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = api.do(http.MethodGet, recipePath+"/rating", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"average":2,"count":1}`, extractData(t, rec))
	})

	t.Run("CommentAndFavorite", func(t *testing.T) {
		rec := api.do(http.MethodPost, recipePath+"/comments", bruno, map[string]any{
			"text":   "Ficou ótimo!",
			"rating": 5,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = api.do(http.MethodPut, recipePath+"/favorite", bruno, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = api.do(http.MethodGet, "/me/favorites", bruno, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"recipe_id":`+itoa(recipeID))
	})

	t.Run("UnknownFieldIsRejected", func(t *testing.T) {
		rec := api.do(http.MethodPut, "/me/settings", bruno, map[string]any{
			"theme":    "dark",
			"language": "en-US",
			"color":    "red",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apperr.CodeInputInvalid, failureOf(t, rec).Code)
	})
}

func TestValidationFailureListsFields(t *testing.T) {
	api := newTestAPI(t, nil)
	ana := api.login("ana", adminPassword)

	rec := api.do(http.MethodPost, "/recipes", ana, map[string]any{
		"instructions": "Misture tudo.",
		"servings":     "4",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	failure := failureOf(t, rec)
	assert.Equal(t, apperr.CodeInputInvalid, failure.Code)
	assert.Contains(t, failure.ValidationErrors, "title")
	assert.Contains(t, failure.ValidationErrors, "categoryId")
	assert.Contains(t, failure.ValidationErrors, "difficultyId")
}

func TestAuthentication(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperr.CodeAuthUnauthorized, failureOf(t, rec).Code)

	rec = api.do(http.MethodGet, "/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperr.CodeAuthTokenInvalid, failureOf(t, rec).Code)

	rec = api.do(http.MethodPost, "/auth/login", "", map[string]string{
		"identifier": "ana",
		"password":   "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := api.login("ana", adminPassword)
	rec = api.do(http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ana"`)

	rec = api.do(http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterIntoExistingAccount(t *testing.T) {
	api := newTestAPI(t, nil)
	ana := api.login("ana", adminPassword)

	rec := api.do(http.MethodGet, "/me", ana, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me struct {
		Data struct {
			AccountID int64 `json:"account_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.NotZero(t, me.Data.AccountID)

	body := map[string]any{
		"name":      "Carla Dias",
		"username":  "carla",
		"email":     "carla@example.com",
		"password":  "senha-da-carla",
		"accountId": me.Data.AccountID,
	}

	rec = api.do(http.MethodPost, "/users", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperr.CodeAuthUnauthorized, failureOf(t, rec).Code)

	rec = api.do(http.MethodPost, "/users", ana, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, extractData(t, rec), `"account_id":`+itoa(me.Data.AccountID))
}

func TestMetricsCountFailures(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodGet, "/recipes/9999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `recipebook_domain_failures_total{code="Resource.NotFound"} 1`)
	assert.Contains(t, body, `recipebook_http_requests_total{method="GET",route="/recipes/{id}",status="404"} 1`)
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1)
	t.Cleanup(limiter.Stop)
	api := newTestAPI(t, limiter)

	rec := api.do(http.MethodGet, "/difficulties", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/difficulties", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/recipes", nil)
	req.Header.Set("Origin", allowedOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, allowedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/recipes", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func extractData(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return string(body.Data)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
