package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// loginRouter monte LoginRateLimit devant un handler qui relit le body,
// comme le fait le vrai handler de login avec ShouldBindJSON
func loginRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginRateLimit(), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		*seen = string(body)
		c.Status(http.StatusOK)
	})
	return r
}

func TestLoginRateLimitKeepsBodyWithoutEmail(t *testing.T) {
	var seen string
	r := loginRouter(&seen)

	body := `{"password":"hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, seen)
}

func TestLoginRateLimitKeepsBodyOnInvalidJSON(t *testing.T) {
	var seen string
	r := loginRouter(&seen)

	body := `pas du json`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, seen)
}
