package api

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"meeting-reservation-backend/internal/capacity"
	"meeting-reservation-backend/internal/notification"
	"meeting-reservation-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	resolver  *capacity.Resolver
	evaluator *capacity.Evaluator
	pool      *notification.WorkerPool // nil when push is not configured
	webpush   *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, resolver *capacity.Resolver, evaluator *capacity.Evaluator, pool *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:     s,
		resolver:  resolver,
		evaluator: evaluator,
		pool:      pool,
		webpush:   webpushOptions,
	}
}

const (
	msgBadInput    = "입력값을 확인해주세요."
	msgServerError = "서버 오류가 발생했습니다."
)

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"ok": false, "message": message})
}

func serverError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "message": msgServerError})
}
