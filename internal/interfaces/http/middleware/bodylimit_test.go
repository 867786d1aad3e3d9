package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitEngine(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(BodyLimit(limit))
	engine.POST("/proforma-invoices", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "cut at %d", tooLarge.Limit)
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	})
	return engine
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name       string
		limit      int64
		body       string
		chunked    bool
		wantStatus int
		wantBody   string
	}{
		{name: "within limit", limit: 64, body: `{"exporter_id":"x"}`, wantStatus: http.StatusOK, wantBody: "19"},
		{name: "exactly at limit", limit: 4, body: "abcd", wantStatus: http.StatusOK, wantBody: "4"},
		{name: "declared length over limit", limit: 8, body: strings.Repeat("x", 32), wantStatus: http.StatusRequestEntityTooLarge, wantBody: "REQUEST_TOO_LARGE"},
		{name: "chunked body over limit", limit: 8, body: strings.Repeat("x", 32), chunked: true, wantStatus: http.StatusRequestEntityTooLarge, wantBody: "cut at 8"},
		{name: "disabled", limit: 0, body: strings.Repeat("x", 32), wantStatus: http.StatusOK, wantBody: "32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/proforma-invoices", strings.NewReader(tt.body))
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			bodyLimitEngine(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
