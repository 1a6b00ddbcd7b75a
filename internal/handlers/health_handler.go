package handlers

import (
	"context"
	"net/http"
	"time"

	"masterhub_backend/internal/database"
	"masterhub_backend/internal/logger"
	"masterhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	*BaseHandler
	redis redis.Cmdable
}

func NewHealthHandler(base *BaseHandler, redisClient redis.Cmdable) *HealthHandler {
	return &HealthHandler{BaseHandler: base, redis: redisClient}
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Check - база обязательна; недоступный redis только деградирует сервис
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{Status: "ok", Database: "ok", Redis: "ok"}
	code := http.StatusOK

	if err := database.Ping(ctx, h.GetDB(c)); err != nil {
		logger.CtxWarn(ctx, "health check: database unavailable", "error", err.Error())
		status.Database = "unavailable"
		status.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	if h.redis == nil {
		status.Redis = "disabled"
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		logger.CtxWarn(ctx, "health check: redis unavailable", "error", err.Error())
		status.Redis = "unavailable"
		if code == http.StatusOK {
			status.Status = "degraded"
		}
	}

	if code != http.StatusOK {
		appErr := apperrors.New(apperrors.CodeExternalServiceError, "health", "Service unavailable", code).WithDetails(status)
		c.JSON(code, apperrors.ErrorResponse{Success: false, Error: appErr})
		return
	}
	h.OK(c, status)
}
