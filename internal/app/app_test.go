package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"masterhub_backend/internal/app"
	"masterhub_backend/internal/config"
	"masterhub_backend/internal/identity"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	server *app.Server
	db     *gorm.DB
	redis  *miniredis.Miniredis
	mailer *testutil.RecordingMailer
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Domain  string `json:"domain"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T, tune func(cfg *config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.Auth.JWTSecret = testutil.JWTSecret
	if tune != nil {
		tune(&cfg)
	}

	mr, client := testutil.NewRedis(t)
	ts := &testServer{
		db:     testutil.NewDB(t),
		redis:  mr,
		mailer: &testutil.RecordingMailer{},
	}
	ts.server = app.SetupRouter(&cfg, app.Deps{
		DB:         ts.db,
		Redis:      client,
		Verifier:   identity.NewJWTVerifier(testutil.JWTSecret, "", testutil.JWTAudience),
		Translator: &testutil.FakeTranslator{Languages: map[string]string{"Привет": "ru"}},
		Mailer:     ts.mailer,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go ts.server.Hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		ts.server.Dispatcher.Wait(2 * time.Second)
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, http.Header, envelope) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.server.Router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec.Code, rec.Header(), env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type idResponse struct {
	ID string `json:"id"`
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	code, _, env := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "ok", decode[map[string]string](t, env)["status"])

	ts.redis.Close()
	code, _, env = ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", decode[map[string]string](t, env)["status"])
}

func TestTranslationLocalesFollowNormalizedConfig(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Translation.Locales = []string{"ru-RU", "th"}
	})
	category := testutil.CreateCategory(t, ts.db, "plumbing")
	clientToken := testutil.Token(t, "client-ext", "client@test.com")

	code, _, env := ts.do(t, http.MethodPost, "/api/v1/profiles/me", clientToken, map[string]any{
		"role": "client", "display_name": "Anna", "locale": "ru",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, _, env = ts.do(t, http.MethodPost, "/api/v1/jobs", clientToken, map[string]any{
		"category_id": category.ID,
		"title":       "Привет, нужен сантехник",
		"description": "Привет, течет кран на кухне",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	job := decode[idResponse](t, env)

	var stored models.Job
	require.NoError(t, ts.db.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, models.TranslationMap{
		"ru": "Привет, нужен сантехник",
		"en": "[en] Привет, нужен сантехник",
		"th": "[th] Привет, нужен сантехник",
	}, stored.TitleTranslations)

	code, _, env = ts.do(t, http.MethodGet, "/api/v1/jobs/"+job.ID+"?lang=en", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[en] Привет, нужен сантехник", decode[map[string]any](t, env)["title"])
}

func TestMarketplaceFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	category := testutil.CreateCategory(t, ts.db, "plumbing")

	clientToken := testutil.Token(t, "client-ext", "Client@Test.com")
	proToken := testutil.Token(t, "pro-ext", "pro@test.com")

	// 1. Профили
	code, _, env := ts.do(t, http.MethodPost, "/api/v1/profiles/me", clientToken, map[string]any{
		"role": "client", "display_name": "Anna", "locale": "en",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	client := decode[idResponse](t, env)

	code, _, env = ts.do(t, http.MethodPost, "/api/v1/profiles/me", proToken, map[string]any{
		"role": "pro", "display_name": "Ivan", "locale": "ru",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	pro := decode[idResponse](t, env)

	code, _, env = ts.do(t, http.MethodGet, "/api/v1/profiles/me", clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "client@test.com", decode[map[string]any](t, env)["email"])

	// 2. Заказ; специалист создать заказ не может
	jobBody := map[string]any{
		"category_id": category.ID,
		"title":       "Fix the kitchen sink",
		"description": "The sink is leaking, need a plumber this week",
	}
	code, _, env = ts.do(t, http.MethodPost, "/api/v1/jobs", proToken, jobBody)
	require.Equal(t, http.StatusForbidden, code)
	assert.False(t, env.Success)

	code, _, env = ts.do(t, http.MethodPost, "/api/v1/jobs", clientToken, jobBody)
	require.Equal(t, http.StatusCreated, code, env.Error)
	job := decode[idResponse](t, env)

	// анонимный зритель получает перевод по ?lang=
	code, _, env = ts.do(t, http.MethodGet, "/api/v1/jobs/"+job.ID+"?lang=ru", "", nil)
	require.Equal(t, http.StatusOK, code)
	jobView := decode[map[string]any](t, env)
	assert.Equal(t, "[ru] Fix the kitchen sink", jobView["title"])
	assert.Equal(t, "Fix the kitchen sink", jobView["original_title"])

	// 3. Отклик
	code, _, env = ts.do(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/proposals", proToken, map[string]any{
		"message": "Привет, могу прийти завтра утром",
		"price":   120,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	proposal := decode[idResponse](t, env)

	// 4. Принятие: только владелец заказа
	code, _, env = ts.do(t, http.MethodPost, "/api/v1/proposals/"+proposal.ID+"/accept", proToken, nil)
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, _, env = ts.do(t, http.MethodPost, "/api/v1/proposals/"+proposal.ID+"/accept", clientToken, nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	conversationID := decode[map[string]string](t, env)["conversation_id"]
	require.NotEmpty(t, conversationID)

	code, _, env = ts.do(t, http.MethodPost, "/api/v1/proposals/"+proposal.ID+"/accept", clientToken, nil)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_STATUS", env.Error.Code)

	var accepted models.Job
	require.NoError(t, ts.db.First(&accepted, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusInProgress, accepted.Status)

	// 5. Уведомление специалисту
	code, _, env = ts.do(t, http.MethodGet, "/api/v1/notifications/unread-count", proToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, decode[map[string]int64](t, env)["count"])

	require.True(t, ts.server.Dispatcher.Wait(2*time.Second))
	var proMails int
	for _, m := range ts.mailer.All() {
		if m.To == "pro@test.com" {
			proMails++
		}
	}
	assert.Equal(t, 1, proMails)

	// 6. Чат
	code, _, env = ts.do(t, http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", proToken, map[string]any{
		"content": "Привет! Буду в 9 утра",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, _, env = ts.do(t, http.MethodGet, "/api/v1/conversations", clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	conversations := decode[struct {
		Data []map[string]any `json:"data"`
	}](t, env).Data
	require.Len(t, conversations, 1)
	assert.EqualValues(t, 1, conversations[0]["unread_count"])
	assert.Equal(t, pro.ID, conversations[0]["counterpart_id"])

	// 7. Завершение и отзыв
	code, _, env = ts.do(t, http.MethodPatch, "/api/v1/jobs/"+job.ID+"/status", clientToken, map[string]any{"status": "done"})
	require.Equal(t, http.StatusOK, code, env.Error)

	code, _, env = ts.do(t, http.MethodPost, "/api/v1/reviews", clientToken, map[string]any{
		"job_id": job.ID, "pro_id": pro.ID, "rating": 5,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, _, env = ts.do(t, http.MethodGet, "/api/v1/pros/"+pro.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	proView := decode[map[string]any](t, env)
	assert.Nil(t, proView["email"])
	proDetails := proView["pro"].(map[string]any)
	assert.EqualValues(t, 5, proDetails["rating"])
	assert.EqualValues(t, 1, proDetails["completed_jobs"])

	var reviewed models.ProProfile
	require.NoError(t, ts.db.First(&reviewed, "profile_id = ?", pro.ID).Error)
	assert.Equal(t, 1, reviewed.ReviewsCount)
	assert.NotEqual(t, client.ID, pro.ID)
}

func TestAuthErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	code, _, env := ts.do(t, http.MethodGet, "/api/v1/profiles/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, _, env = ts.do(t, http.MethodGet, "/api/v1/profiles/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_TOKEN", env.Error.Code)

	// валидный токен, но профиля еще нет
	code, _, env = ts.do(t, http.MethodGet, "/api/v1/profiles/me", testutil.Token(t, "fresh", "fresh@test.com"), nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "PROFILE_REQUIRED", env.Error.Code)

	code, _, env = ts.do(t, http.MethodGet, "/api/v1/jobs/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestRateLimits(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.ProfileBootstrap = config.RatePolicyConfig{Limit: 1, Window: time.Minute}
		cfg.RateLimit.JobCreate = config.RatePolicyConfig{Limit: 1, Window: time.Minute}
	})
	category := testutil.CreateCategory(t, ts.db, "cleaning")

	token := testutil.Token(t, "limited", "limited@test.com")
	body := map[string]any{"role": "client", "display_name": "Limited"}

	code, hdr, _ := ts.do(t, http.MethodPost, "/api/v1/profiles/me", token, body)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "1", hdr.Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", hdr.Get("X-RateLimit-Remaining"))

	code, hdr, env := ts.do(t, http.MethodPost, "/api/v1/profiles/me", token, body)
	require.Equal(t, http.StatusTooManyRequests, code)
	assert.NotEmpty(t, hdr.Get("Retry-After"))
	assert.False(t, env.Success)

	jobBody := map[string]any{
		"category_id": category.ID,
		"title":       "Deep cleaning",
		"description": "Two rooms and a kitchen, this weekend",
	}
	code, _, _ = ts.do(t, http.MethodPost, "/api/v1/jobs", token, jobBody)
	require.Equal(t, http.StatusCreated, code)
	code, _, _ = ts.do(t, http.MethodPost, "/api/v1/jobs", token, jobBody)
	require.Equal(t, http.StatusTooManyRequests, code)

	// кэш недоступен: создание заказа пропускается, создание профиля нет
	ts.redis.Close()

	code, _, env = ts.do(t, http.MethodPost, "/api/v1/jobs", token, jobBody)
	assert.Equal(t, http.StatusCreated, code, env.Error)

	code, _, _ = ts.do(t, http.MethodPost, "/api/v1/profiles/me", testutil.Token(t, "other", "other@test.com"), body)
	assert.Equal(t, http.StatusTooManyRequests, code)
}
