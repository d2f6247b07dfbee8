package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimeoutEngine(d time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Timeout(TimeoutConfig{Duration: d}))

	engine.GET("/fast", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	engine.GET("/slow", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			return
		case <-time.After(time.Second):
			c.JSON(http.StatusOK, gin.H{"ok": true})
		}
	})
	return engine
}

func TestTimeoutPassesFastRequests(t *testing.T) {
	engine := newTimeoutEngine(100 * time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fast", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeoutRejectsSlowRequests(t *testing.T) {
	engine := newTimeoutEngine(20 * time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusGatewayTimeout, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusGatewayTimeout, body.Code)
	assert.Equal(t, "request timeout", body.Message)
}
