package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newInternalRouter(token string, ips []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/internal/run", InternalTokenAuth(token, ips), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestInternalTokenAuth(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		ips    []string
		header string
		want   int
	}{
		{"disabled when no token configured", "", nil, "Bearer anything", http.StatusForbidden},
		{"missing header", "secret", nil, "", http.StatusUnauthorized},
		{"wrong scheme", "secret", nil, "Basic secret", http.StatusUnauthorized},
		{"wrong token", "secret", nil, "Bearer nope", http.StatusForbidden},
		{"ip not allowed", "secret", []string{"10.1.1.1"}, "Bearer secret", http.StatusForbidden},
		{"valid token", "secret", nil, "Bearer secret", http.StatusOK},
		{"valid token from allowed ip", "secret", []string{"192.0.2.1"}, "Bearer secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newInternalRouter(tt.token, tt.ips)
			req := httptest.NewRequest(http.MethodPost, "/internal/run", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
