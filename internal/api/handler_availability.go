package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"meeting-reservation-backend/internal/dateutil"
)

// GetAvailability handles GET /api/availability with either ?date=YYYY-MM-DD
// or ?month=YYYY-MM.
func (h *Handler) GetAvailability(c *gin.Context) {
	if month := c.Query("month"); month != "" {
		h.monthAvailability(c, month)
		return
	}

	date, err := dateutil.ParseDate(c.Query("date"))
	if err != nil {
		badRequest(c, msgBadInput)
		return
	}

	status, err := h.evaluator.DateStatus(c.Request.Context(), date)
	if err != nil {
		log.Printf("Failed to evaluate availability for %s: %v", date, err)
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"date":           date,
		"male":           status.MaleCount,
		"female":         status.FemaleCount,
		"maxMale":        status.MaxMale,
		"maxFemale":      status.MaxFemale,
		"isMaleClosed":   status.IsMaleClosed,
		"isFemaleClosed": status.IsFemaleClosed,
	})
}

// dateAvailability is one calendar cell of the month view.
type dateAvailability struct {
	Date           string `json:"date"`
	MaleCount      int    `json:"maleCount"`
	FemaleCount    int    `json:"femaleCount"`
	MaxMale        int    `json:"maxMale"`
	MaxFemale      int    `json:"maxFemale"`
	IsMaleClosed   bool   `json:"isMaleClosed"`
	IsFemaleClosed bool   `json:"isFemaleClosed"`
}

func (h *Handler) monthAvailability(c *gin.Context, month string) {
	days, err := dateutil.MonthDays(month)
	if err != nil {
		badRequest(c, msgBadInput)
		return
	}
	start, end, err := dateutil.MonthRange(month)
	if err != nil {
		badRequest(c, msgBadInput)
		return
	}

	ctx := c.Request.Context()
	counts, err := h.store.CountConfirmedByDate(ctx, start, end)
	if err != nil {
		log.Printf("Failed to count confirmed applications for %s: %v", month, err)
		serverError(c)
		return
	}

	byDate := make([]dateAvailability, 0, len(days))
	for _, day := range days {
		limits, err := h.resolver.Resolve(ctx, day)
		if err != nil {
			log.Printf("Failed to resolve capacity for %s: %v", day, err)
			serverError(c)
			return
		}
		tally := counts[day]
		byDate = append(byDate, dateAvailability{
			Date:           day,
			MaleCount:      tally.Male,
			FemaleCount:    tally.Female,
			MaxMale:        limits.MaxMale,
			MaxFemale:      limits.MaxFemale,
			IsMaleClosed:   tally.Male >= limits.MaxMale,
			IsFemaleClosed: tally.Female >= limits.MaxFemale,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":                  true,
		"byDate":              byDate,
		"defaultMaxPerGender": h.resolver.DefaultMax(),
	})
}
