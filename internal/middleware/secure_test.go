package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSecureHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecureHeaders())

	var nonces []string
	r.GET("/", func(c *gin.Context) {
		nonce, _ := c.Get(NonceKey)
		nonces = append(nonces, nonce.(string))
		c.Status(http.StatusOK)
	})

	var headers []string
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		csp := w.Header().Get("Content-Security-Policy")
		require.Contains(t, csp, "default-src 'none'")
		require.Contains(t, csp, "img-src 'self' https://lh3.googleusercontent.com")
		require.Contains(t, csp, "'nonce-"+nonces[i]+"'")
		headers = append(headers, csp)
	}

	// the nonce is per request, never per process
	require.NotEqual(t, nonces[0], nonces[1])
	require.NotEqual(t, headers[0], headers[1])
}
