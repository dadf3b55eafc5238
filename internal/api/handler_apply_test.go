package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"meeting-reservation-backend/config"
	"meeting-reservation-backend/internal/capacity"
	"meeting-reservation-backend/internal/db"
	"meeting-reservation-backend/internal/model"
	"meeting-reservation-backend/internal/store"
)

const testAdminToken = "test-admin-token"

// setupTestRouter builds the full router over an isolated in-memory database.
func setupTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.Migrate(gormDB))

	s := store.NewGormStore(gormDB)

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Admin.Token = testAdminToken
	def := 4
	cfg.Capacity.DefaultMaxPerGender = &def

	resolver := capacity.NewResolver(s, cfg.DefaultMax())
	evaluator := capacity.NewEvaluator(resolver, s)
	return NewRouter(cfg, s, resolver, evaluator, nil, nil), s
}

func doJSON(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func countApplications(t *testing.T, s store.Store) int {
	t.Helper()
	var n int64
	require.NoError(t, s.DB().Model(&model.Application{}).Count(&n).Error)
	return int(n)
}

func TestPostApply_Success(t *testing.T) {
	router, s := setupTestRouter(t)

	w := doJSON(router, "POST", "/api/apply", `{
		"name": "김민수",
		"age": 29,
		"gender": "남",
		"phone": "010-1111-2222",
		"kakaoId": "minsu",
		"desiredDate": "2026-01-15",
		"agreePrivacy": true
	}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	var app model.Application
	require.NoError(t, s.DB().First(&app).Error)
	assert.Equal(t, model.StatusPending, app.Status)
	assert.Equal(t, model.GenderMale, app.Gender)
	require.NotNil(t, app.Age)
	assert.Equal(t, 29, *app.Age)
	require.NotNil(t, app.DesiredDate)
	assert.Equal(t, "2026-01-15", *app.DesiredDate)
}

func TestPostApply_GenderAliasNormalized(t *testing.T) {
	router, s := setupTestRouter(t)

	w := doJSON(router, "POST", "/api/apply", `{
		"name": "Jane",
		"age": "25",
		"gender": "female",
		"phone": "010-3333-4444",
		"agreePrivacy": true
	}`, "")

	assert.Equal(t, http.StatusOK, w.Code)

	var app model.Application
	require.NoError(t, s.DB().First(&app).Error)
	assert.Equal(t, model.GenderFemale, app.Gender)
	assert.Nil(t, app.DesiredDate)
}

func TestPostApply_Honeypot(t *testing.T) {
	router, s := setupTestRouter(t)

	w := doJSON(router, "POST", "/api/apply", `{
		"name": "bot",
		"age": 30,
		"gender": "남",
		"phone": "010-0000-0000",
		"agreePrivacy": true,
		"website": "https://spam.example"
	}`, "")

	// Bots get a success response and no row.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.Equal(t, 0, countApplications(t, s))
}

func TestPostApply_ConsentRequired(t *testing.T) {
	router, s := setupTestRouter(t)

	w := doJSON(router, "POST", "/api/apply", `{
		"name": "김민수",
		"age": 29,
		"gender": "남",
		"phone": "010-1111-2222",
		"agreePrivacy": false
	}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "동의")
	assert.Equal(t, 0, countApplications(t, s))
}

func TestPostApply_ValidationFailures(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "Empty name",
			body: `{"name":"", "age":29, "gender":"남", "phone":"010-1111-2222", "agreePrivacy":true}`,
		},
		{
			name: "Unknown gender",
			body: `{"name":"김민수", "age":29, "gender":"unknown", "phone":"010-1111-2222", "agreePrivacy":true}`,
		},
		{
			name: "Missing phone",
			body: `{"name":"김민수", "age":29, "gender":"남", "agreePrivacy":true}`,
		},
		{
			name: "Implausible age",
			body: `{"name":"김민수", "age":7, "gender":"남", "phone":"010-1111-2222", "agreePrivacy":true}`,
		},
		{
			name: "Malformed desired date",
			body: `{"name":"김민수", "age":29, "gender":"남", "phone":"010-1111-2222", "desiredDate":"01/15/2026", "agreePrivacy":true}`,
		},
		{
			name: "Not JSON at all",
			body: `name=김민수`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, s := setupTestRouter(t)
			w := doJSON(router, "POST", "/api/apply", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), msgBadInput)
			assert.Equal(t, 0, countApplications(t, s))
		})
	}
}

func TestPostApply_ClosedDateRejected(t *testing.T) {
	router, s := setupTestRouter(t)

	zero := 0
	require.NoError(t, s.DB().Create(&model.DateSetting{
		Date: "2026-01-15", MaxFemale: &zero,
	}).Error)

	w := doJSON(router, "POST", "/api/apply", `{
		"name": "이수진",
		"age": 27,
		"gender": "여",
		"phone": "010-5555-6666",
		"desiredDate": "2026-01-15",
		"agreePrivacy": true
	}`, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"isClosed":true`)
	assert.Contains(t, w.Body.String(), "2026-01-15")
	assert.Equal(t, 0, countApplications(t, s))
}

func TestPostApply_OtherGenderNotGated(t *testing.T) {
	router, s := setupTestRouter(t)

	zero := 0
	require.NoError(t, s.DB().Create(&model.DateSetting{
		Date: "2026-01-15", MaxMale: &zero, MaxFemale: &zero,
	}).Error)

	w := doJSON(router, "POST", "/api/apply", `{
		"name": "박지원",
		"age": 31,
		"gender": "기타",
		"phone": "010-7777-8888",
		"desiredDate": "2026-01-15",
		"agreePrivacy": true
	}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, countApplications(t, s))
}
