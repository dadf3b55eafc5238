package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"meeting-reservation-backend/internal/dateutil"
)

// GetMonthStatus handles GET /api/status?month=YYYY-MM. Unlike availability
// it aggregates applications of every status; the calendar view uses it.
func (h *Handler) GetMonthStatus(c *gin.Context) {
	month := c.Query("month")
	start, end, err := dateutil.MonthRange(month)
	if err != nil {
		badRequest(c, msgBadInput)
		return
	}

	byDate, err := h.store.CountAllByDate(c.Request.Context(), start, end)
	if err != nil {
		log.Printf("Failed to aggregate applications for %s: %v", month, err)
		serverError(c)
		return
	}

	var male, female, total int
	for _, b := range byDate {
		male += b.Male
		female += b.Female
		total += b.Total
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"month":  month,
		"byDate": byDate,
		"male":   male,
		"female": female,
		"total":  total,
	})
}
