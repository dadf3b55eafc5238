package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meeting-reservation-backend/internal/dateutil"
	"meeting-reservation-backend/internal/model"
)

// GetSettings handles GET /api/admin/settings. No auth: availability checks
// on the client need the same rows.
//
//	?type=weekday            -> all weekday overrides
//	?date=YYYY-MM-DD         -> one date override (data null when absent)
//	?type=date&month=YYYY-MM -> a month of date overrides
func (h *Handler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("type") == "weekday" {
		settings, err := h.store.ListWeekdaySettings(ctx)
		if err != nil {
			log.Printf("Failed to list weekday settings: %v", err)
			serverError(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": settings, "defaultMaxPerGender": h.resolver.DefaultMax()})
		return
	}

	if raw := c.Query("date"); raw != "" {
		date, err := dateutil.ParseDate(raw)
		if err != nil {
			badRequest(c, msgBadInput)
			return
		}
		setting, err := h.store.GetDateSetting(ctx, date)
		if err != nil {
			log.Printf("Failed to fetch date setting %s: %v", date, err)
			serverError(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": setting, "defaultMaxPerGender": h.resolver.DefaultMax()})
		return
	}

	month := c.Query("month")
	start, end, err := dateutil.MonthRange(month)
	if err != nil {
		badRequest(c, msgBadInput)
		return
	}
	settings, err := h.store.ListDateSettings(ctx, start, end)
	if err != nil {
		log.Printf("Failed to list date settings for %s: %v", month, err)
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": settings, "defaultMaxPerGender": h.resolver.DefaultMax()})
}

type upsertSettingRequest struct {
	Type      string `json:"type"`
	Date      string `json:"date"`
	Weekday   *int   `json:"weekday"`
	MaxMale   *int   `json:"maxMale"`
	MaxFemale *int   `json:"maxFemale"`
}

// UpsertSetting handles POST /api/admin/settings. The row is fully replaced;
// omitted max values are stored as the configured default.
func (h *Handler) UpsertSetting(c *gin.Context) {
	var req upsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgBadInput)
		return
	}

	maxMale := h.resolver.DefaultMax()
	if req.MaxMale != nil {
		maxMale = *req.MaxMale
	}
	maxFemale := h.resolver.DefaultMax()
	if req.MaxFemale != nil {
		maxFemale = *req.MaxFemale
	}
	if maxMale < 0 || maxFemale < 0 {
		badRequest(c, msgBadInput)
		return
	}

	ctx := c.Request.Context()

	if req.Type == "weekday" || (req.Weekday != nil && req.Date == "") {
		if req.Weekday == nil || *req.Weekday < 0 || *req.Weekday > 6 {
			badRequest(c, msgBadInput)
			return
		}
		setting := model.WeekdaySetting{Weekday: *req.Weekday, MaxMale: &maxMale, MaxFemale: &maxFemale}
		if err := h.store.UpsertWeekdaySetting(ctx, &setting); err != nil {
			log.Printf("Failed to upsert weekday setting %d: %v", setting.Weekday, err)
			serverError(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		badRequest(c, msgBadInput)
		return
	}
	setting := model.DateSetting{Date: date, MaxMale: &maxMale, MaxFemale: &maxFemale}
	if err := h.store.UpsertDateSetting(ctx, &setting); err != nil {
		log.Printf("Failed to upsert date setting %s: %v", date, err)
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteSetting handles DELETE /api/admin/settings?date=|weekday=. Removing
// a row makes later resolution fall through to the next tier.
func (h *Handler) DeleteSetting(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("weekday"); raw != "" {
		weekday, err := strconv.Atoi(raw)
		if err != nil || weekday < 0 || weekday > 6 {
			badRequest(c, msgBadInput)
			return
		}
		if err := h.store.DeleteWeekdaySetting(ctx, weekday); err != nil {
			log.Printf("Failed to delete weekday setting %d: %v", weekday, err)
			serverError(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	date, err := dateutil.ParseDate(c.Query("date"))
	if err != nil {
		badRequest(c, msgBadInput)
		return
	}
	if err := h.store.DeleteDateSetting(ctx, date); err != nil {
		log.Printf("Failed to delete date setting %s: %v", date, err)
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
