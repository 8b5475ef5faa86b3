package service

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/firezonehub/backend/internal/hash"
)

// AdminTokens gates the admin surface. The shared password is verified
// server-side only; on success a short-lived signed token is issued and
// admin routes require it. The isAdmin flag on the user record stays a pure
// UI hint.
type AdminTokens struct {
	Secret       []byte
	TTL          time.Duration
	PasswordHash string // bcrypt, preferred
	Password     string // plain fallback for dev setups
}

var ErrBadPassword = errors.New("wrong admin password")

func (s *AdminTokens) VerifyPassword(password string) bool {
	if password == "" {
		return false
	}
	if s.PasswordHash != "" {
		return hash.CheckPassword(s.PasswordHash, password)
	}
	if s.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.Password), []byte(password)) == 1
}

func (s *AdminTokens) Issue(now time.Time) (string, time.Time, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (s *AdminTokens) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(echo.HeaderAuthorization)
		raw = strings.TrimPrefix(raw, "Bearer ")
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "admin token missing")
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.Secret, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["role"] != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}

		return next(c)
	}
}
