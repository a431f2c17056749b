package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
)

const principalKey = "auth_principal"

// Claims describes the JWT payload accepted on protected routes. Identity is
// issued elsewhere; this service only validates signatures and expiry.
type Claims struct {
	Name        string   `json:"name,omitempty"`
	Departments []string `json:"departments,omitempty"`
	jwt.RegisteredClaims
}

// Principal represents the authenticated caller.
type Principal struct {
	SubjectID   string
	Name        string
	Departments []string
}

// BearerAuth validates HS256 bearer tokens and stores the caller's principal
// in context locals.
func BearerAuth(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "invalid authorization header")
		}

		claims, err := parseToken(parts[1], key)
		if err != nil {
			return unauthorized(c, "invalid token")
		}

		c.Locals(principalKey, &Principal{
			SubjectID:   claims.Subject,
			Name:        claims.Name,
			Departments: claims.Departments,
		})
		return c.Next()
	}
}

func parseToken(tokenStr string, key []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// PrincipalFromContext retrieves the authenticated caller set by BearerAuth.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	})
}
