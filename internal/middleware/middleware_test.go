package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/buildrr-backend/internal/config"
	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

type authFunc func(ctx context.Context, raw string) (*model.User, error)

func (f authFunc) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	return f(ctx, raw)
}

var errBadToken = &service.Error{Kind: service.ErrUnauthenticated, Message: "Token is invalid"}

// tokens accepts "good" for a member and "boss" for an admin.
var tokens = authFunc(func(_ context.Context, raw string) (*model.User, error) {
	switch raw {
	case "good":
		return &model.User{ID: 7, Role: model.RoleMember, IsActive: true}, nil
	case "boss":
		return &model.User{ID: 1, Role: model.RoleAdmin, IsActive: true}, nil
	case "":
		return nil, &service.Error{Kind: service.ErrUnauthenticated, Message: "Token is missing"}
	}
	return nil, errBadToken
})

func newContext(method, target, authz string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"Bearer abc": "abc",
		"bearer abc": "abc",
		"abc":        "abc",
		"":           "",
		"Bearer  x ": "x",
	} {
		c, _ := newContext(http.MethodGet, "/", header)
		assert.Equal(t, want, bearerToken(c), header)
	}
}

func TestBearerAuth(t *testing.T) {
	mw := BearerAuth(tokens)

	c, rec := newContext(http.MethodGet, "/api/profile", "Bearer good")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, CurrentUser(c))
	assert.Equal(t, uint64(7), CurrentUser(c).ID)

	c, _ = newContext(http.MethodGet, "/api/profile", "Bearer forged")
	err := mw(okHandler)(c)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
	assert.Nil(t, CurrentUser(c))

	c, _ = newContext(http.MethodGet, "/api/profile", "")
	err = mw(okHandler)(c)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
	assert.Equal(t, "Token is missing", service.PublicMessage(err))
}

func TestOptionalBearer(t *testing.T) {
	mw := OptionalBearer(tokens)

	c, _ := newContext(http.MethodPost, "/api/quote", "Bearer good")
	require.NoError(t, mw(okHandler)(c))
	assert.NotNil(t, CurrentUser(c))

	// A bad token degrades to a guest request.
	c, rec := newContext(http.MethodPost, "/api/quote", "Bearer forged")
	require.NoError(t, mw(okHandler)(c))
	assert.Nil(t, CurrentUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	chain := BearerAuth(tokens)(RequireRole(model.RoleAdmin)(okHandler))

	c, rec := newContext(http.MethodGet, "/api/admin/users", "Bearer boss")
	require.NoError(t, chain(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newContext(http.MethodGet, "/api/admin/users", "Bearer good")
	err := chain(c)
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Equal(t, "Admin access required", service.PublicMessage(err))

	// Without a guard in front the role check sees a guest.
	c, _ = newContext(http.MethodGet, "/api/admin/users", "")
	assert.ErrorIs(t, RequireRole(model.RoleAdmin)(okHandler)(c), service.ErrUnauthenticated)
}

func TestRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/login", "")
	c.SetPath("/api/login")
	c.Request().RemoteAddr = "10.0.0.9:5555"

	cfg := config.RateLimitConfig{Prefix: "rl"}
	assert.Equal(t, "rl:ip:10.0.0.9:route:POST /api/login", rateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:anon", rateKey(cfg, c))
	SetUser(c, &model.User{ID: 42})
	assert.Equal(t, "rl:user:42", rateKey(cfg, c))

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.9", rateKey(cfg, c))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(3), asInt64(int64(3)))
	assert.Equal(t, int64(3), asInt64(3))
	assert.Equal(t, int64(3), asInt64(3.9))
	assert.Equal(t, int64(12), asInt64("12"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	mw := RateLimit(config.RateLimitConfig{Enabled: true}, nil, logger.Nop())
	c, rec := newContext(http.MethodPost, "/api/contact", "")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestCachePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Extra": {"a", "b"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"content":[]}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"content":[]}`, string(body))

	_, _, _, ok = decodePayload(payload[:5])
	assert.False(t, ok)
	_, _, _, ok = decodePayload(append([]byte{0, 0, 0, 200, 0, 0, 1, 0}, '{'))
	assert.False(t, ok)
}

func TestCachedHeaders_DropPerResponseValues(t *testing.T) {
	live := http.Header{}
	live.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	live.Set(echo.HeaderXRequestID, "req-first")
	live.Set(echo.HeaderContentLength, "14")
	live.Set("X-Cache", "MISS")

	stored := storableHeader(live)
	assert.Equal(t, echo.MIMEApplicationJSON, stored.Get(echo.HeaderContentType))
	assert.Empty(t, stored.Get(echo.HeaderXRequestID))
	assert.Empty(t, stored.Get(echo.HeaderContentLength))
	assert.Empty(t, stored.Get("X-Cache"))
	assert.Equal(t, "req-first", live.Get(echo.HeaderXRequestID))

	// A hit keeps the id of the request being served, even for entries
	// written before request ids were stripped.
	dst := http.Header{}
	dst.Set(echo.HeaderXRequestID, "req-second")
	replayHeader(dst, live)
	assert.Equal(t, []string{"req-second"}, dst.Values(echo.HeaderXRequestID))
	assert.Equal(t, echo.MIMEApplicationJSON, dst.Get(echo.HeaderContentType))
	assert.Empty(t, dst.Get(echo.HeaderContentLength))
	assert.Empty(t, dst.Get("X-Cache"))
}

func TestCacheKey(t *testing.T) {
	a, _ := newContext(http.MethodGet, "/api/content?page=home", "")
	a.SetPath("/api/content")
	b, _ := newContext(http.MethodGet, "/api/content?page=home", "")
	b.SetPath("/api/content")
	other, _ := newContext(http.MethodGet, "/api/content?page=about", "")
	other.SetPath("/api/content")

	assert.Equal(t, cacheKey("content", a), cacheKey("content", b))
	assert.NotEqual(t, cacheKey("content", a), cacheKey("content", other))
	assert.Regexp(t, `^content:[0-9a-f]{40}$`, cacheKey("content", a))
}

func TestResponseCache_WithoutRedis(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true, Prefix: "content"}, nil, logger.Nop())
	c, rec := newContext(http.MethodGet, "/api/content", "")
	require.NoError(t, rc.Middleware()(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, rc.Purge(context.Background()))
}

func TestCaptureWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.False(t, cw.truncated)
	_, err = cw.Write([]byte("def"))
	require.NoError(t, err)
	assert.True(t, cw.truncated)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logger.NewWithWriter(&buf, "info")))
	e.GET("/healthz", okHandler)
	e.GET("/boom", func(echo.Context) error { return errors.New("boom") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "/healthz", line["path"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.Equal(t, "info", line["level"])

	buf.Reset()
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(http.StatusInternalServerError), line["status"])
	assert.Equal(t, "warn", line["level"])
}
