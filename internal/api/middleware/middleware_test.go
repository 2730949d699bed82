package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobwallah/internal/utils"
)

func newRouter(tokens *utils.TokenIssuer, allowQuery bool, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	l := logrus.New()
	l.SetOutput(io.Discard)

	r := gin.New()
	r.Use(RequestLogger(l))
	g := r.Group("/", JWTAuth(tokens, allowQuery))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
	})
	return r
}

func do(r http.Handler, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour, "jobwallah")
	good, _, err := tokens.Issue("user-1", "recruiter")
	require.NoError(t, err)
	foreign, _, err := utils.NewTokenIssuer("other-secret", time.Hour, "jobwallah").Issue("user-1", "recruiter")
	require.NoError(t, err)

	r := newRouter(tokens, false)

	w := do(r, "/whoami", good)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user-1","role":"recruiter"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/whoami", foreign).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/whoami?token="+good, "").Code)

	withQuery := newRouter(tokens, true)
	assert.Equal(t, http.StatusOK, do(withQuery, "/whoami?token="+good, "").Code)
}

func TestRequireRole(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour, "jobwallah")
	recruiter, _, err := tokens.Issue("r-1", "recruiter")
	require.NoError(t, err)
	applicant, _, err := tokens.Issue("a-1", "applicant")
	require.NoError(t, err)

	r := newRouter(tokens, false, "recruiter")

	assert.Equal(t, http.StatusOK, do(r, "/whoami", recruiter).Code)

	w := do(r, "/whoami", applicant)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"code":"FORBIDDEN","message":"requires role: recruiter"}`, w.Body.String())
}
