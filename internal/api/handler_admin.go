package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meeting-reservation-backend/internal/dateutil"
	"meeting-reservation-backend/internal/model"
	"meeting-reservation-backend/internal/store"
)

// ListApplications handles GET /api/admin/applications?status=&month=.
func (h *Handler) ListApplications(c *gin.Context) {
	var filter store.ApplicationFilter

	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseStatus(raw)
		if !ok {
			badRequest(c, msgBadInput)
			return
		}
		filter.Status = &status
	}

	if month := c.Query("month"); month != "" {
		from, to, err := dateutil.MonthTimeRange(month)
		if err != nil {
			badRequest(c, msgBadInput)
			return
		}
		filter.CreatedFrom = &from
		filter.CreatedTo = &to
	}

	apps, err := h.store.ListApplications(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Failed to list applications: %v", err)
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "data": apps})
}

type updateApplicationRequest struct {
	ID     int64   `json:"id" binding:"required"`
	Status string  `json:"status" binding:"required"`
	Note   *string `json:"note"`
}

// UpdateApplication handles PATCH /api/admin/applications. Any transition
// within the four-state vocabulary is allowed.
func (h *Handler) UpdateApplication(c *gin.Context) {
	var req updateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgBadInput)
		return
	}

	status, ok := model.ParseStatus(req.Status)
	if !ok {
		badRequest(c, msgBadInput)
		return
	}

	err := h.store.UpdateApplicationStatus(c.Request.Context(), req.ID, status, req.Note)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"ok": false, "message": msgBadInput})
		return
	}
	if err != nil {
		log.Printf("Failed to update application %d: %v", req.ID, err)
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteApplication handles DELETE /api/admin/applications?id=.
func (h *Handler) DeleteApplication(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		badRequest(c, msgBadInput)
		return
	}

	err = h.store.DeleteApplication(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"ok": false, "message": msgBadInput})
		return
	}
	if err != nil {
		log.Printf("Failed to delete application %d: %v", id, err)
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
