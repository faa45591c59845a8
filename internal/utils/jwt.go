package utils // package utils provides helpers for signing and verifying session tokens

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidSessionToken is returned for tokens that fail signature, expiry
// or claim checks.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionToken is a signed HS256 JWT that names a mounted page.  The browser
// keeps it in a cookie; API clients send it as a Bearer token.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// SessionClaims are the verified claims of a session token.
type SessionClaims struct {
    SessionID string
    Exp       time.Time
}

// NewSessionToken signs a token for sessionID valid for at least ttl.  The
// claims are sid (session id), exp and iat; exp is rounded up to the next
// whole second since JWT dates carry no fraction.
func NewSessionToken(secret, sessionID string, ttl time.Duration) (SessionToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl + time.Second - 1).Truncate(time.Second)
    claims := jwt.MapClaims{
        "sid": sessionID,
        "exp": exp.Unix(),
        "iat": now.Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns its claims.  Only HMAC signing
// methods are accepted.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSessionToken
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return SessionClaims{}, ErrInvalidSessionToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return SessionClaims{}, ErrInvalidSessionToken
    }
    sid, ok := claims["sid"].(string)
    if !ok || sid == "" {
        return SessionClaims{}, ErrInvalidSessionToken
    }
    exp, err := claims.GetExpirationTime()
    if err != nil || exp == nil {
        return SessionClaims{}, ErrInvalidSessionToken
    }
    return SessionClaims{SessionID: sid, Exp: exp.Time}, nil
}
