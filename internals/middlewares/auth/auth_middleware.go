// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"sekolahku_backend/internals/configs"
)

// AuthMiddleware memverifikasi bearer token dan menyimpan klaim
// (user_id, userRole, user_name) ke Locals. Manajemen user/credential
// ada di service auth eksternal; di sini hanya verifikasi tanda tangan.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[ERROR] Gagal parse token:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		c.Locals("user_id", userID.String())

		storeBasicClaimsToLocals(c, claims)
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1], nil
		}
		return "", errors.New("invalid Authorization header")
	}
	if tok := c.Cookies("access_token"); tok != "" {
		return tok, nil
	}
	return "", errors.New("missing bearer token")
}

func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return errors.New("missing exp claim")
	}
	if time.Now().Add(-leeway).Unix() > int64(exp) {
		return errors.New("token expired")
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, ok := claims["user_id"].(string)
	if !ok || raw == "" {
		if sub, okSub := claims["sub"].(string); okSub {
			raw = sub
		}
	}
	if raw == "" {
		return uuid.Nil, errors.New("missing user_id claim")
	}
	return uuid.Parse(raw)
}

func storeBasicClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	if role, ok := claims["role"].(string); ok {
		c.Locals("userRole", role)
	}
	if name, ok := claims["user_name"].(string); ok {
		c.Locals("user_name", name)
	}
}
