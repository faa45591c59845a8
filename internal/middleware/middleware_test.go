package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-seat-picker/internal/config"
    "github.com/iliyamo/cinema-seat-picker/internal/utils"
)

func newRedis(t *testing.T) *redis.Client {
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return rdb
}

func TestSessionAuth(t *testing.T) {
    e := echo.New()
    e.GET("/me", func(c echo.Context) error {
        return c.String(http.StatusOK, SessionID(c))
    }, SessionAuth(SessionAuthConfig{Secret: "secret", TTL: time.Minute}))

    tok, err := utils.NewSessionToken("secret", "sid-1", time.Minute)
    require.NoError(t, err)

    // bearer
    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set("Authorization", "Bearer "+tok.Token)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "sid-1", rec.Body.String())

    // cookie
    req = httptest.NewRequest(http.MethodGet, "/me", nil)
    req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok.Token})
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusOK, rec.Code)

    // missing
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    // forged
    req = httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set("Authorization", "Bearer "+tok.Token+"x")
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuth_RefreshesAgingToken(t *testing.T) {
    e := echo.New()
    e.GET("/me", func(c echo.Context) error {
        return c.String(http.StatusOK, SessionID(c))
    }, SessionAuth(SessionAuthConfig{Secret: "secret", TTL: time.Minute}))

    cases := []struct {
        name    string
        ttl     time.Duration
        refresh bool
    }{
        {"fresh token kept", time.Minute, false},
        {"aging token re-issued", 10 * time.Second, true},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            tok, err := utils.NewSessionToken("secret", "sid-1", tc.ttl)
            require.NoError(t, err)
            req := httptest.NewRequest(http.MethodGet, "/me", nil)
            req.Header.Set("Authorization", "Bearer "+tok.Token)
            rec := httptest.NewRecorder()
            e.ServeHTTP(rec, req)
            require.Equal(t, http.StatusOK, rec.Code)

            fresh := rec.Header().Get(SessionTokenHeader)
            if !tc.refresh {
                assert.Empty(t, fresh)
                assert.Empty(t, rec.Result().Cookies())
                return
            }
            require.NotEmpty(t, fresh)
            claims, err := utils.ParseSessionToken("secret", fresh)
            require.NoError(t, err)
            assert.Equal(t, "sid-1", claims.SessionID)
            assert.True(t, claims.Exp.After(tok.Exp))

            cookies := rec.Result().Cookies()
            require.Len(t, cookies, 1)
            assert.Equal(t, SessionCookie, cookies[0].Name)
            assert.Equal(t, fresh, cookies[0].Value)
        })
    }
}

func TestTokenBucket(t *testing.T) {
    rdb := newRedis(t)
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            time.Hour,
        KeyStrategy:    "ip",
        Prefix:         "rl",
    }
    e := echo.New()
    e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, rdb))

    codes := make([]int, 0, 3)
    for i := 0; i < 3; i++ {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
        codes = append(codes, rec.Code)
        if rec.Code == http.StatusTooManyRequests {
            assert.NotEmpty(t, rec.Header().Get("Retry-After"))
        }
    }
    assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestTokenBucket_DisabledIsPassThrough(t *testing.T) {
    e := echo.New()
    e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
        NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))
    for i := 0; i < 5; i++ {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
        assert.Equal(t, http.StatusNoContent, rec.Code)
    }
}

func TestRedisCache(t *testing.T) {
    rdb := newRedis(t)
    cfg := config.CacheConfig{
        Enabled:      true,
        Methods:      map[string]bool{"GET": true},
        TTL:          time.Minute,
        Prefix:       "cache",
        MaxBodyBytes: 1024,
    }
    calls := 0
    e := echo.New()
    e.GET("/screening", func(c echo.Context) error {
        calls++
        c.Response().Header().Set("X-Custom", "1")
        return c.JSON(http.StatusOK, echo.Map{"titulo": "Duna"})
    }, NewRedisCache(cfg, rdb))

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/screening", nil))
    assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
    first := rec.Body.String()

    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/screening", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
    assert.Equal(t, "1", rec.Header().Get("X-Custom"))
    assert.Equal(t, first, rec.Body.String())
    assert.Equal(t, 1, calls)
}

func TestPayloadCodec(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(201, hdr, []byte("{}"))
    require.NoError(t, err)
    status, got, body, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, 201, status)
    assert.Equal(t, hdr, got)
    assert.Equal(t, "{}", string(body))

    _, _, _, ok = decodePayload([]byte{0, 0})
    assert.False(t, ok)
}
