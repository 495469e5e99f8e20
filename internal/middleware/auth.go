package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const UserIDContextKey = "user_id"

// Claims is the access token payload issued by the auth service.
type Claims struct {
	UserID uuid.UUID `json:"id"`
	jwt.RegisteredClaims
}

// AuthRequired accepts an HS256 access token signed with secret and stores
// the caller's user id in the request locals. Token issuance lives in the
// auth service.
func AuthRequired(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return Unauthorized("Missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return Unauthorized("Invalid authorization header format")
		}

		claims, err := ParseAccessToken(parts[1], key)
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		c.Locals(UserIDContextKey, claims.UserID)
		return c.Next()
	}
}

func ParseAccessToken(token string, key []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.UserID == uuid.Nil {
		return nil, errors.New("token carries no user id")
	}
	return claims, nil
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, Unauthorized("User not authenticated")
	}
	return userID, nil
}
