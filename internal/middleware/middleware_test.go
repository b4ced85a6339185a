package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/config"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/utils"
)

const secret = "test-secret"

func serve(t *testing.T, mw []echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	var seen echo.Context
	h := func(c echo.Context) error {
		seen = c
		return c.String(http.StatusOK, "ok")
	}
	e.GET("/v1/bookings/:id", h, mw...)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func bearer(t *testing.T, uid uint64, role string, ttl int) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, uid, role, ttl)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func TestJWTAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/1", nil)
	req.Header.Set("Authorization", bearer(t, 10, model.RoleUser, 5))
	rec, c := serve(t, []echo.MiddlewareFunc{JWTAuth(secret)}, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(10), c.Get("user_id"))
	assert.Equal(t, model.RoleUser, c.Get("role"))

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Token abc",
		"wrong secret": "",
		"expired":      bearer(t, 10, model.RoleUser, -1),
	}
	other, err := utils.NewAccessToken("other", 10, model.RoleUser, 5)
	require.NoError(t, err)
	cases["wrong secret"] = "Bearer " + other.Token

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/bookings/1", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec, _ := serve(t, []echo.MiddlewareFunc{JWTAuth(secret)}, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	mw := []echo.MiddlewareFunc{JWTAuth(secret), RequireRole(model.RoleAdmin)}

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/1", nil)
	req.Header.Set("Authorization", bearer(t, 10, model.RoleUser, 5))
	rec, _ := serve(t, mw, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/bookings/1", nil)
	req.Header.Set("Authorization", bearer(t, 1, model.RoleAdmin, 5))
	rec, _ = serve(t, mw, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/7", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings/:id")

	cfg := config.RateLimitConfig{Prefix: "rl"}
	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:GET /v1/bookings/:id", buildRateKey(cfg, c))

	c.Set("user_id", uint64(10))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:10", buildRateKey(cfg, c))
	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:10.0.0.1:route:GET /v1/bookings/:id", buildRateKey(cfg, c))
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	mw := []echo.MiddlewareFunc{
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil),
		NewRedisCache(config.CacheConfig{Enabled: false}, nil, nil),
	}
	rec, _ := serve(t, mw, httptest.NewRequest(http.MethodGet, "/v1/bookings/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))

	assert.NoError(t, NewCacheInvalidator(config.CacheConfig{Prefix: "cache:fields"}, nil).Invalidate(context.Background()))
}

func TestCachePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"success":true}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"success":true}`, string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
	_, _, _, ok = decodePayload(append([]byte{0, 0, 0, 200, 0, 0, 1, 0}, 'x'))
	assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	ctx := func(target string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	}
	cfg := config.CacheConfig{Prefix: "cache:fields"}
	a := cacheKeyFrom(cfg, ctx("/v1/fields?status=active"))
	b := cacheKeyFrom(cfg, ctx("/v1/fields?status=inactive"))
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^cache:fields:[0-9a-f]{40}$`, a)

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, ctx("/v1/fields?status=active")), cacheKeyFrom(cfg, ctx("/v1/fields?status=inactive")))
	assert.NotEqual(t, cacheKeyFrom(cfg, ctx("/v1/fields/1")), cacheKeyFrom(cfg, ctx("/v1/fields/2")))
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.False(t, cw.truncated())
	_, err = cw.Write([]byte("defg"))
	require.NoError(t, err)
	assert.True(t, cw.truncated())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdefg", rec.Body.String())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/3", nil)
	rec, _ := serve(t, []echo.MiddlewareFunc{RequestLogger(zap.New(core))}, req)

	require.Equal(t, http.StatusOK, rec.Code)
	rid := rec.Header().Get(echo.HeaderXRequestID)
	assert.NotEmpty(t, rid)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, rid, fields["request_id"])
	assert.Equal(t, "/v1/bookings/:id", fields["route"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.IsType(t, time.Duration(0), fields["latency"])

	req = httptest.NewRequest(http.MethodGet, "/v1/bookings/3", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec, _ = serve(t, []echo.MiddlewareFunc{RequestLogger(zap.New(core))}, req)
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}
