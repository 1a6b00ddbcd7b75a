package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesCopies(t *testing.T) {
	withDetails := ErrProfileRequired.WithDetails(map[string]string{"hint": "x"})
	wrapped := fmt.Errorf("middleware: %w", withDetails)

	assert.True(t, errors.Is(wrapped, ErrProfileRequired))
	assert.False(t, errors.Is(wrapped, ErrInvalidToken))
	assert.Nil(t, ErrProfileRequired.Details, "WithDetails must not mutate the shared error")
}

func TestStatusAndCode(t *testing.T) {
	cause := errors.New("deadlock")

	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"not found", NotFound("job", "Job not found"), http.StatusNotFound, CodeNotFound},
		{"invalid state", InvalidState("job", "Job is not open"), http.StatusBadRequest, CodeInvalidStatus},
		{"conflict", Conflict("proposal", "Already submitted"), http.StatusConflict, CodeConflict},
		{"rate limited", RateLimited("job_create"), http.StatusTooManyRequests, CodeLimitExceeded},
		{"transaction", TransactionFailed("proposal", cause), http.StatusInternalServerError, CodeTransactionFailed},
		{"plain error", cause, http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusCode(tt.err))
			assert.Equal(t, tt.code, CodeOf(tt.err))
		})
	}

	assert.True(t, errors.Is(TransactionFailed("proposal", cause), cause))
}

func TestHandleError_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		debug       bool
		err         error
		wantStatus  int
		wantCode    ErrorCode
		wantDetails bool
	}{
		{"client error keeps details", false, ValidationError(map[string]string{"title": "required"}), http.StatusBadRequest, CodeValidationFailed, true},
		{"server error masked in production", false, InternalError(errors.New("boom")).WithDetails("stack"), http.StatusInternalServerError, CodeInternalError, false},
		{"server error shown in debug", true, InternalError(errors.New("boom")).WithDetails("stack"), http.StatusInternalServerError, CodeInternalError, true},
	}

	t.Cleanup(func() { SetDebug(true) })
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDebug(tt.debug)
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			HandleError(c, tt.err)

			assert.True(t, c.IsAborted())
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code    ErrorCode   `json:"code"`
					Details interface{} `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantDetails, body.Error.Details != nil)
		})
	}
}
