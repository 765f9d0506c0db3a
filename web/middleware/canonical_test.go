package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRedirectRouter(canonicalHost string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CanonicalHostRedirect(canonicalHost))
	engine.GET("/status", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return engine
}

func TestCanonicalHostRedirect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		host         string
		forwarded    string
		wantStatus   int
		wantLocation string
	}{
		{
			name:       "canonical host passes through",
			host:       "win.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "canonical host with port passes through",
			host:       "win.example.com:8080",
			wantStatus: http.StatusOK,
		},
		{
			name:       "host comparison is case insensitive",
			host:       "WIN.Example.COM",
			wantStatus: http.StatusOK,
		},
		{
			name:         "other host redirects permanently",
			host:         "example.com",
			wantStatus:   http.StatusMovedPermanently,
			wantLocation: "http://win.example.com/status?poll=1",
		},
		{
			name:         "redirect keeps https behind a proxy",
			host:         "example.com",
			forwarded:    "https",
			wantStatus:   http.StatusMovedPermanently,
			wantLocation: "https://win.example.com/status?poll=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := newRedirectRouter("win.example.com")

			req := httptest.NewRequest(http.MethodGet, "/status?poll=1", nil)
			req.Host = tt.host
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
		})
	}
}
