package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-seat-picker/internal/utils"
)

// SessionCookie is the cookie the HTML page carries its session token in.
const SessionCookie = "seat_session"

// SessionTokenHeader carries a re-issued session token for API clients.
const SessionTokenHeader = "X-Session-Token"

// SessionAuthConfig configures SessionAuth.  TTL is the idle lifetime a token
// is re-issued for once less than half of it remains.
type SessionAuthConfig struct {
    Secret       string
    TTL          time.Duration
    CookieSecure bool
}

// SetSessionCookie stores tok in the seat_session cookie.
func SetSessionCookie(c echo.Context, tok utils.SessionToken, secure bool) {
    c.SetCookie(&http.Cookie{
        Name:     SessionCookie,
        Value:    tok.Token,
        Path:     "/",
        Expires:  tok.Exp,
        HttpOnly: true,
        Secure:   secure,
        SameSite: http.SameSiteStrictMode,
    })
}

// SessionAuth validates the session token from the Authorization header
// (Bearer) or, failing that, the seat_session cookie, and stores the session
// id in the context under "session_id".  A token past half its life is
// re-issued in both the cookie and the X-Session-Token header, so an active
// page is only cut off by the session store's idle expiry.
func SessionAuth(cfg SessionAuthConfig) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := ""
            if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
                raw = strings.TrimPrefix(auth, "Bearer ")
            } else if ck, err := c.Cookie(SessionCookie); err == nil {
                raw = ck.Value
            }
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session token"})
            }
            claims, err := utils.ParseSessionToken(cfg.Secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
            }
            if cfg.TTL > 0 && time.Until(claims.Exp) < cfg.TTL/2 {
                tok, err := utils.NewSessionToken(cfg.Secret, claims.SessionID, cfg.TTL)
                if err != nil {
                    c.Logger().Errorf("refresh session token: %v", err)
                } else {
                    SetSessionCookie(c, tok, cfg.CookieSecure)
                    c.Response().Header().Set(SessionTokenHeader, tok.Token)
                }
            }
            c.Set("session_id", claims.SessionID)
            return next(c)
        }
    }
}

// SessionID returns the id stored by SessionAuth, or "" when absent.
func SessionID(c echo.Context) string {
    if v, ok := c.Get("session_id").(string); ok {
        return v
    }
    return ""
}
