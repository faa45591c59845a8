package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
    tok, err := NewSessionToken("secret", "01HXYZ", time.Minute)
    require.NoError(t, err)
    assert.True(t, tok.Exp.After(time.Now()))

    claims, err := ParseSessionToken("secret", tok.Token)
    require.NoError(t, err)
    assert.Equal(t, "01HXYZ", claims.SessionID)
    assert.True(t, claims.Exp.Equal(tok.Exp))
}

func TestNewSessionToken_ExpiryRoundsUp(t *testing.T) {
    before := time.Now()
    tok, err := NewSessionToken("secret", "abc", 1500*time.Millisecond)
    require.NoError(t, err)
    assert.Zero(t, tok.Exp.Nanosecond())
    assert.False(t, tok.Exp.Before(before.Add(1500*time.Millisecond)))
    assert.True(t, tok.Exp.Before(before.Add(3*time.Second)))
}

func TestParseSessionToken_Rejects(t *testing.T) {
    good, err := NewSessionToken("secret", "abc", time.Minute)
    require.NoError(t, err)
    expired, err := NewSessionToken("secret", "abc", -time.Minute)
    require.NoError(t, err)
    noSid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "exp": time.Now().Add(time.Minute).Unix(),
    }).SignedString([]byte("secret"))
    require.NoError(t, err)
    noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": "abc"}).SignedString([]byte("secret"))
    require.NoError(t, err)

    cases := []struct {
        name   string
        secret string
        raw    string
    }{
        {"wrong secret", "other", good.Token},
        {"expired", "secret", expired.Token},
        {"missing sid", "secret", noSid},
        {"missing exp", "secret", noExp},
        {"garbage", "secret", "not-a-jwt"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := ParseSessionToken(tc.secret, tc.raw)
            assert.ErrorIs(t, err, ErrInvalidSessionToken)
        })
    }
}
