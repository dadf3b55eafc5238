package internal

import (
	"context"
	"encoding/json"
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
	"meeting-reservation-backend/internal/api"
	"meeting-reservation-backend/internal/capacity"
	"meeting-reservation-backend/internal/db"
	"meeting-reservation-backend/internal/model"
	"meeting-reservation-backend/internal/store"
)

const adminToken = "integration-admin-token"

func newTestServer(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.Migrate(gormDB))

	appStore := store.NewGormStore(gormDB)

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Admin.Token = adminToken
	def := 4
	cfg.Capacity.DefaultMaxPerGender = &def

	resolver := capacity.NewResolver(appStore, cfg.DefaultMax())
	evaluator := capacity.NewEvaluator(resolver, appStore)
	return api.NewRouter(cfg, appStore, resolver, evaluator, nil, nil), appStore
}

func request(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func confirmApplicant(t *testing.T, s store.Store, gender model.Gender, date string) {
	t.Helper()
	app := model.Application{
		Name:        "신청자",
		Gender:      gender,
		Phone:       "010-0000-0000",
		DesiredDate: &date,
		Status:      model.StatusConfirmed,
	}
	require.NoError(t, s.CreateApplication(context.Background(), &app))
}

// TestMaleCapacityClosure walks the core scenario: default capacity 4, four
// confirmed male applicants on one date, and a fifth male applicant at the
// door.
func TestMaleCapacityClosure(t *testing.T) {
	router, s := newTestServer(t)
	const date = "2026-01-15"

	for i := 0; i < 4; i++ {
		confirmApplicant(t, s, model.GenderMale, date)
	}

	// The date reads as closed for men, open for women.
	w := request(router, "GET", "/api/availability?date="+date, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var avail struct {
		OK             bool   `json:"ok"`
		Date           string `json:"date"`
		Male           int    `json:"male"`
		Female         int    `json:"female"`
		MaxMale        int    `json:"maxMale"`
		MaxFemale      int    `json:"maxFemale"`
		IsMaleClosed   bool   `json:"isMaleClosed"`
		IsFemaleClosed bool   `json:"isFemaleClosed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.True(t, avail.OK)
	assert.Equal(t, date, avail.Date)
	assert.Equal(t, 4, avail.Male)
	assert.Equal(t, 4, avail.MaxMale)
	assert.True(t, avail.IsMaleClosed)
	assert.False(t, avail.IsFemaleClosed)

	// A fifth male application is rejected with the closure message.
	w = request(router, "POST", "/api/apply", `{
		"name": "최영호",
		"age": 33,
		"gender": "남",
		"phone": "010-9999-0000",
		"desiredDate": "2026-01-15",
		"agreePrivacy": true
	}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "2026-01-15")
	assert.Contains(t, w.Body.String(), "4/4")
	assert.Contains(t, w.Body.String(), `"isClosed":true`)

	// A female application on the same date still goes through.
	w = request(router, "POST", "/api/apply", `{
		"name": "이수진",
		"age": 28,
		"gender": "여",
		"phone": "010-1234-0000",
		"desiredDate": "2026-01-15",
		"agreePrivacy": true
	}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestOverridePrecedence exercises the date > weekday > default chain through
// the admin settings endpoints.
func TestOverridePrecedence(t *testing.T) {
	router, _ := newTestServer(t)
	// 2026-01-16 is a Friday (weekday 5).
	const date = "2026-01-16"

	maxMaleOf := func() int {
		w := request(router, "GET", "/api/availability?date="+date, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			MaxMale int `json:"maxMale"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.MaxMale
	}

	assert.Equal(t, 4, maxMaleOf())

	w := request(router, "POST", "/api/admin/settings",
		`{"type":"weekday","weekday":5,"maxMale":1,"maxFemale":1}`, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, maxMaleOf())

	w = request(router, "POST", "/api/admin/settings",
		`{"date":"2026-01-16","maxMale":3,"maxFemale":3}`, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, maxMaleOf())

	// Dropping the date row falls back to the weekday row, not the default.
	w = request(router, "DELETE", "/api/admin/settings?date=2026-01-16", "", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, maxMaleOf())

	w = request(router, "DELETE", "/api/admin/settings?weekday=5", "", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, maxMaleOf())
}

// TestZeroFemaleCapacity covers the explicit max_female:0 rejection scenario.
func TestZeroFemaleCapacity(t *testing.T) {
	router, s := newTestServer(t)

	w := request(router, "POST", "/api/admin/settings",
		`{"date":"2026-01-15","maxMale":4,"maxFemale":0}`, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(router, "POST", "/api/apply", `{
		"name": "이수진",
		"age": 27,
		"gender": "여",
		"phone": "010-5555-6666",
		"desiredDate": "2026-01-15",
		"agreePrivacy": true
	}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"isClosed":true`)

	var n int64
	require.NoError(t, s.DB().Model(&model.Application{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestHoneypotSilentDrop(t *testing.T) {
	router, s := newTestServer(t)

	w := request(router, "POST", "/api/apply", `{
		"name": "bot",
		"age": 30,
		"gender": "남",
		"phone": "010-0000-0000",
		"agreePrivacy": true,
		"website": "http://spam.example"
	}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	var n int64
	require.NoError(t, s.DB().Model(&model.Application{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestConsentRequired(t *testing.T) {
	router, _ := newTestServer(t)

	w := request(router, "POST", "/api/apply", `{
		"name": "김민수",
		"age": 29,
		"gender": "남",
		"phone": "010-1111-2222",
		"agreePrivacy": false
	}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "동의")
}

// TestMonthViews checks the confirmed-only availability aggregate against the
// any-status calendar aggregate over the same month.
func TestMonthViews(t *testing.T) {
	router, s := newTestServer(t)

	confirmApplicant(t, s, model.GenderMale, "2026-01-10")
	confirmApplicant(t, s, model.GenderFemale, "2026-01-10")

	pendingDate := "2026-01-10"
	pending := model.Application{
		Name:        "대기자",
		Gender:      model.GenderOther,
		Phone:       "010-2222-3333",
		DesiredDate: &pendingDate,
		Status:      model.StatusPending,
	}
	require.NoError(t, s.CreateApplication(context.Background(), &pending))

	// Availability month view: confirmed rows only.
	w := request(router, "GET", "/api/availability?month=2026-01", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var availResp struct {
		OK     bool `json:"ok"`
		ByDate []struct {
			Date        string `json:"date"`
			MaleCount   int    `json:"maleCount"`
			FemaleCount int    `json:"femaleCount"`
			MaxMale     int    `json:"maxMale"`
		} `json:"byDate"`
		DefaultMaxPerGender int `json:"defaultMaxPerGender"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &availResp))
	assert.True(t, availResp.OK)
	assert.Equal(t, 4, availResp.DefaultMaxPerGender)
	require.Len(t, availResp.ByDate, 31)
	assert.Equal(t, "2026-01-01", availResp.ByDate[0].Date)

	day10 := availResp.ByDate[9]
	assert.Equal(t, "2026-01-10", day10.Date)
	assert.Equal(t, 1, day10.MaleCount)
	assert.Equal(t, 1, day10.FemaleCount)
	assert.Equal(t, 4, day10.MaxMale)

	// Status month view: every status counts, including 기타.
	w = request(router, "GET", "/api/status?month=2026-01", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var statusResp struct {
		OK     bool                             `json:"ok"`
		Month  string                           `json:"month"`
		ByDate map[string]store.GenderBreakdown `json:"byDate"`
		Male   int                              `json:"male"`
		Female int                              `json:"female"`
		Total  int                              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statusResp))
	assert.True(t, statusResp.OK)
	assert.Equal(t, "2026-01", statusResp.Month)
	assert.Equal(t, store.GenderBreakdown{Male: 1, Female: 1, Other: 1, Total: 3}, statusResp.ByDate["2026-01-10"])
	assert.Equal(t, 1, statusResp.Male)
	assert.Equal(t, 1, statusResp.Female)
	assert.Equal(t, 3, statusResp.Total)
}
