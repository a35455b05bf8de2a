package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/config"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── 测试替身 ──

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	allowAfter int // 前 allowAfter 次放行
	calls      int
	keys       []string
	err        error
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.calls++
	f.keys = append(f.keys, key)
	if f.err != nil {
		return false, f.err
	}
	return f.calls <= f.allowAfter, nil
}

type fakeUserService struct {
	profile *dto.UserResponse
	err     error
}

func (f *fakeUserService) GetProfile(_ context.Context, _ string) (*dto.UserResponse, error) {
	return f.profile, f.err
}
func (f *fakeUserService) UpsertProfile(_ context.Context, _ string, _ *dto.UpsertProfileRequest) (*dto.UserResponse, error) {
	return nil, nil
}
func (f *fakeUserService) Leaderboard(_ context.Context, _ int) ([]dto.LeaderboardEntry, error) {
	return nil, nil
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "middleware-test-secret-2026",
		Issuer:         "skillup-connect",
		AccessTokenTTL: 15 * time.Minute,
	})
}

// echoUser 返回中间件注入的上下文值
func echoUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString(CtxUserID),
		"role":    c.GetString(CtxRole),
		"jti":     c.GetString(CtxTokenJTI),
	})
}

func doRequest(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := newTestJWT()
	token, err := mgr.GenerateAccessToken("learner-1", "job_seeker")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", JWTAuth(mgr, nil, zap.NewNop()), echoUser)

	w := doRequest(r, "GET", "/x", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"learner-1"`)
}

func TestJWTAuth_MissingOrMalformedHeader(t *testing.T) {
	r := gin.New()
	r.GET("/x", JWTAuth(newTestJWT(), nil, zap.NewNop()), echoUser)

	cases := map[string]string{
		"missing":   "",
		"no bearer": "Token abc",
		"garbage":   "Bearer not-a-jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			h := map[string]string{}
			if header != "" {
				h["Authorization"] = header
			}
			w := doRequest(r, "GET", "/x", h)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuth_Blacklisted(t *testing.T) {
	mgr := newTestJWT()
	token, err := mgr.GenerateAccessToken("learner-1", "job_seeker")
	require.NoError(t, err)
	claims, err := mgr.ParseToken(token)
	require.NoError(t, err)

	bl := &fakeBlacklist{revoked: map[string]bool{claims.ID: true}}
	r := gin.New()
	r.GET("/x", JWTAuth(mgr, bl, zap.NewNop()), echoUser)

	w := doRequest(r, "GET", "/x", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_BlacklistErrorDegrades(t *testing.T) {
	mgr := newTestJWT()
	token, err := mgr.GenerateAccessToken("learner-1", "job_seeker")
	require.NoError(t, err)

	bl := &fakeBlacklist{err: errors.New("redis down")}
	r := gin.New()
	r.GET("/x", JWTAuth(mgr, bl, zap.NewNop()), echoUser)

	w := doRequest(r, "GET", "/x", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_MissingExpRejected(t *testing.T) {
	claims := jwtv5.RegisteredClaims{ID: "jti-no-exp", Subject: "learner-1", Issuer: "skillup-connect"}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).
		SignedString([]byte("middleware-test-secret-2026"))
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", JWTAuth(newTestJWT(), nil, zap.NewNop()), echoUser)

	w := doRequest(r, "GET", "/x", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ── CurrentUser / RoleAuth ──

func withUser(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxUserID, uid)
		c.Next()
	}
}

func TestCurrentUser_InjectsProfileRole(t *testing.T) {
	svc := &fakeUserService{profile: &dto.UserResponse{UID: "r1", Name: "Rita", Role: "recruiter"}}
	r := gin.New()
	r.GET("/x", withUser("r1"), CurrentUser(svc, zap.NewNop()), echoUser)

	w := doRequest(r, "GET", "/x", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"recruiter"`)
}

func TestCurrentUser_ProfileMissing(t *testing.T) {
	svc := &fakeUserService{err: service.ErrUserNotFound}
	r := gin.New()
	r.GET("/x", withUser("ghost"), CurrentUser(svc, zap.NewNop()), echoUser)

	w := doRequest(r, "GET", "/x", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentUser_StoreError(t *testing.T) {
	svc := &fakeUserService{err: errors.New("db down")}
	r := gin.New()
	r.GET("/x", withUser("r1"), CurrentUser(svc, zap.NewNop()), echoUser)

	w := doRequest(r, "GET", "/x", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRoleAuth(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(CtxRole, role)
			}
			c.Next()
		}
	}

	cases := []struct {
		name string
		role string
		want int
	}{
		{"allowed", "recruiter", http.StatusOK},
		{"wrong role", "job_seeker", http.StatusForbidden},
		{"no role", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", withRole(tc.role), RoleAuth("recruiter"), echoUser)
			w := doRequest(r, "GET", "/x", nil)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

// ── RateLimit ──

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	limiter := &fakeLimiter{allowAfter: 2}
	r := gin.New()
	r.POST("/workshops/:id/register", withUser("learner-1"), RateLimit(limiter, 2, time.Minute, zap.NewNop()), echoUser)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := doRequest(r, "POST", "/workshops/ws-1/register", nil)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	// 按路由模板计数，不同工作坊共享同一配额
	assert.Equal(t, "rate_limit:learner-1:POST:/workshops/:id/register", limiter.keys[0])
}

func TestRateLimit_NilOrErrorDegrades(t *testing.T) {
	r := gin.New()
	r.POST("/a", RateLimit(nil, 1, time.Minute, zap.NewNop()), echoUser)
	r.POST("/b", RateLimit(&fakeLimiter{err: errors.New("redis down")}, 1, time.Minute, zap.NewNop()), echoUser)

	assert.Equal(t, http.StatusOK, doRequest(r, "POST", "/a", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "POST", "/b", nil).Code)
}

// ── RequestID ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	w := doRequest(r, "GET", "/x", map[string]string{requestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	// 含空白或超长的上游 ID 被替换
	w = doRequest(r, "GET", "/x", map[string]string{requestIDHeader: strings.Repeat("a", 65)})
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	w = doRequest(r, "GET", "/x", nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

// ── BodyLimit ──

func TestBodyLimit_RejectsDeclaredOversize(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodyLimit(16), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/x", strings.NewReader(strings.Repeat("a", 32)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req = httptest.NewRequest("POST", "/x", strings.NewReader("small"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ── CORS / SecurityHeaders ──

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/x", echoUser)

	w := doRequest(r, "OPTIONS", "/x", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", echoUser)

	w := doRequest(r, "GET", "/x", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
