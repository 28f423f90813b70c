package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
	"github.com/noah-isme/elite-academy-api/pkg/logger"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

type recordingObserver struct {
	paths    []string
	statuses []int
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	r.paths = append(r.paths, path)
	r.statuses = append(r.statuses, status)
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := stubValidator{
		"student": {UserID: "u-student", Role: models.RoleStudent},
		"admin":   {UserID: "u-admin", Role: models.RoleAdmin},
	}
	r := gin.New()
	group := r.Group("/subjects", JWT(tokens), Authorize(models.ResourceSubjects, ""))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(logger.ContextUserIDKey)})
	}
	group.GET("/", handler)
	group.POST("/", handler)
	group.DELETE("/:id/", handler)
	return r
}

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRejectsMissingAndInvalidTokens(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/subjects/", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/subjects/", "forged").Code)

	req := httptest.NewRequest(http.MethodGet, "/subjects/", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorizeReadOnlyForStudents(t *testing.T) {
	r := newRouter()

	w := perform(r, http.MethodGet, "/subjects/", "student")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-student")

	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodPost, "/subjects/", "student").Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodDelete, "/subjects/abc/", "student").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodDelete, "/subjects/abc/", "admin").Code)
}

func TestAuthorizeWithoutPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", Authorize(models.ResourceSubjects, models.ActionList), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/", "").Code)
}

func TestCurrentPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentPrincipal(c))

	c.Set(ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleParent, Superuser: true})
	assert.Equal(t, &models.Principal{UserID: "u-1", Role: models.RoleParent, Superuser: true}, CurrentPrincipal(c))

	c.Set(ContextUserKey, errors.New("not claims"))
	assert.Nil(t, CurrentPrincipal(c))
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/fees/:id/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	perform(r, http.MethodGet, "/fees/123/", "")
	perform(r, http.MethodGet, "/nowhere", "")

	assert.Equal(t, []string{"/fees/:id/", "unmatched"}, observer.paths)
	assert.Equal(t, []int{http.StatusTeapot, http.StatusNotFound}, observer.statuses)
}
