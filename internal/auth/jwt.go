package auth

import (
	"errors"
	"math/rand"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrBadToken = errors.New("invalid or expired token")

// TokenCodec signs and verifies the two handshake tokens: one carrying the
// identity, one carrying the role. They are issued together at login and
// travel as separate cookies.
type TokenCodec struct {
	secret string
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl}
}

func (c *TokenCodec) sign(claims jwt.MapClaims) (string, error) {
	now := time.Now()
	claims["exp"] = now.Add(c.ttl).Unix()
	claims["iat"] = now.Unix()
	claims["jti"] = randomCode(10)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.secret))
}

// IssueIdentity signs the identity token for a username.
func (c *TokenCodec) IssueIdentity(username string) (string, error) {
	return c.sign(jwt.MapClaims{"username": username})
}

// IssueRole signs the role token.
func (c *TokenCodec) IssueRole(role string) (string, error) {
	return c.sign(jwt.MapClaims{"role": role})
}

// Verify parses and validates a token, returning its claims.
func (c *TokenCodec) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(c.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrBadToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrBadToken
	}
	return claims, nil
}

// TTL is the issue-time lifetime of tokens; logout blacklisting uses it as
// the upper bound on how long a revoked token must stay listed.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

func ClaimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

const codeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(length int) string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, length)
	for i := range b {
		b[i] = codeCharset[seededRand.Intn(len(codeCharset))]
	}
	return string(b)
}
