package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/javajoker/modhub-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-test-secret")
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(I18nMiddleware())
	r.GET("/x", append(handlers, func(c *gin.Context) {
		role, _ := utils.GetRoleFromContext(c)
		c.String(http.StatusOK, role)
	})...)
	return r
}

func get(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, role string) map[string]string {
	token, err := utils.GenerateJWT(uuid.New(), "tester", role, 1)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(AuthRequired())

	assert.Equal(t, http.StatusUnauthorized, get(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, map[string]string{"Authorization": "Token abc"}).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, map[string]string{"Authorization": "Bearer nope"}).Code)

	w := get(r, bearer(t, "user"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", w.Body.String())
}

func TestAdminRequired(t *testing.T) {
	r := newEngine(AuthRequired(), AdminRequired())

	assert.Equal(t, http.StatusForbidden, get(r, bearer(t, "user")).Code)
	assert.Equal(t, http.StatusOK, get(r, bearer(t, "admin")).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine(OptionalAuth())

	w := get(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = get(r, map[string]string{"Authorization": "Bearer broken"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = get(r, bearer(t, "admin"))
	assert.Equal(t, "admin", w.Body.String())
}

func TestPreferredLanguage(t *testing.T) {
	assert.Equal(t, "en", preferredLanguage(""))
	assert.Equal(t, "zh_TW", preferredLanguage("zh-TW,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", preferredLanguage("fr-FR"))
}

func TestRateLimiter(t *testing.T) {
	limits := &RateLimits{General: NewRateLimiter(rate.Every(time.Hour), 2)}
	r := newEngine(limits.GeneralRateLimit())

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, nil).Code)

	var none *RateLimits
	open := newEngine(none.AuthRateLimit())
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(open, nil).Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://modhub.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://modhub.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://modhub.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestExtractResource(t *testing.T) {
	id := uuid.New().String()
	assert.Equal(t, "items", extractResourceType("/v1/items/"+id+"/files"))
	assert.Equal(t, "health", extractResourceType("/health"))
	assert.Equal(t, id, extractResourceID("/v1/items/"+id+"/files"))
	assert.Empty(t, extractResourceID("/v1/games/demo-game"))
}
