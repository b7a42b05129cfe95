// Package auth provides optional bearer-token protection for the per-user
// API routes. When no secret is configured the middleware is a no-op, which
// matches deployments where the mobile client talks to the proxy directly.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const TokenDuration = 24 * time.Hour

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JwtMiddleware validates Bearer tokens on routes carrying a :user_id
// parameter. The token's user_id claim must match the path parameter so one
// user cannot read another's dashboard. An empty secret disables the check.
func JwtMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing bearer token"})
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				log.Debug().Err(err).Msg("Token validation failed")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			}

			claims, ok := token.Claims.(*CustomClaims)
			if !ok || claims.UserID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token claims"})
			}
			if pathUser := c.Param("user_id"); pathUser != "" && pathUser != claims.UserID {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Token does not match requested user"})
			}

			c.Set("user_id", claims.UserID)
			return next(c)
		}
	}
}

// GenerateToken signs a token for the user, mainly for tests and local
// tooling.
func GenerateToken(secret, userID string) (string, error) {
	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fcalapp",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
