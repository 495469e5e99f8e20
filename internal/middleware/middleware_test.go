package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/middleware"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims middleware.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(zap.NewNop())})
	app.Get("/me", middleware.AuthRequired(secret), func(c *fiber.Ctx) error {
		id, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	app := newApp()
	userID := uuid.New()
	valid := middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("Valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(secret), valid))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, userID.String(), string(body))
	})

	cases := map[string]string{
		"Missing header": "",
		"Wrong scheme":   "Basic abc",
		"Wrong secret":   "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), valid),
		"Wrong method":   "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(secret), valid),
		"Expired": "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), middleware.Claims{
			UserID:           userID,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		}),
		"No user id": "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), middleware.Claims{}),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("bad: %w", domain.ErrValidation), fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("load: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: nope", domain.ErrForbidden), fiber.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("query: %w", domain.ErrStoreTimeout), fiber.StatusServiceUnavailable, "STORE_TIMEOUT"},
		{fmt.Errorf("%w: stopped", domain.ErrPartialDelete), fiber.StatusInternalServerError, "PARTIAL_DELETE"},
		{fmt.Errorf("%w: stopped at comment: %w", domain.ErrPartialDelete, domain.ErrStoreTimeout), fiber.StatusInternalServerError, "PARTIAL_DELETE"},
		{fmt.Errorf("%w: %w", domain.ErrPartialDelete, errors.Join(domain.ErrNotFound, domain.ErrStoreTimeout)), fiber.StatusInternalServerError, "PARTIAL_DELETE"},
		{fmt.Errorf("%w: purge failed", domain.ErrConsistency), fiber.StatusInternalServerError, "CONSISTENCY_ERROR"},
		{middleware.BadRequest("Invalid post ID"), fiber.StatusBadRequest, "BAD_REQUEST"},
		{fmt.Errorf("unexpected"), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(zap.NewNop())})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.TraceID)
		})
	}
}
