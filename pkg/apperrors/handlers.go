package apperrors

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

var defaultHandler = &GinErrorHandler{Debug: true}

// SetDebug переключает раскрытие деталей 5xx ошибок (false в production)
func SetDebug(debug bool) {
	defaultHandler = &GinErrorHandler{Debug: debug}
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode == 0 {
		appErr = appErr.WithError(err)
		appErr.HTTPCode = http.StatusInternalServerError
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		slog.Error("server error", "code", appErr.Code, "domain", appErr.Domain, "error", appErr.Unwrap())
		if !h.Debug {
			masked := *appErr
			masked.Details = nil
			appErr = &masked
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Success: false, Error: appErr})
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
