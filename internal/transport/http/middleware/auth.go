// Package middleware provides authentication middleware for the HTTP servers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SellerClaims are the JWT claims carried by a seller's bearer token.
type SellerClaims struct {
	SellerID string `json:"seller_id"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// SellerAuth validates the bearer token on every request and stores the
// acting seller's identity on the echo context.
func SellerAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing token"})
			}

			tokenStr := strings.TrimPrefix(h, "Bearer ")
			token, err := jwt.ParseWithClaims(tokenStr, &SellerClaims{}, func(t *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			claims := token.Claims.(*SellerClaims)
			c.Set("seller_id", claims.SellerID)
			c.Set("seller_name", claims.Name)
			return next(c)
		}
	}
}

// WebhookAuth validates the shared-secret header used by the provider
// callbacks. An empty configured secret disables the check (local dev).
func WebhookAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret != "" && c.Request().Header.Get("X-Webhook-Secret") != secret {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid webhook secret"})
			}
			return next(c)
		}
	}
}

// SellerID returns the authenticated seller id from the context.
func SellerID(c echo.Context) string {
	v, _ := c.Get("seller_id").(string)
	return v
}

// SellerName returns the authenticated seller display name from the context.
func SellerName(c echo.Context) string {
	v, _ := c.Get("seller_name").(string)
	return v
}
