package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler fiber.Handler) (int, APIResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload APIResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	return resp.StatusCode, payload
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	status, payload := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "", fiber.Map{"id": 1})
	})
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
}

func TestSendErrorDerivesCodeFromStatus(t *testing.T) {
	cases := map[int]string{
		fiber.StatusUnauthorized: CodeUnauthenticated,
		fiber.StatusForbidden:    CodeForbidden,
		fiber.StatusBadRequest:   CodeValidationError,
		fiber.StatusNotFound:     CodeNotFound,
		fiber.StatusConflict:     CodeConflict,
		fiber.StatusBadGateway:   CodeDependencyFailure,
	}
	for status, code := range cases {
		gotStatus, payload := performRequest(t, func(c *fiber.Ctx) error {
			return SendError(c, status, "nope")
		})
		require.Equal(t, status, gotStatus)
		require.False(t, payload.Success)
		require.Equal(t, code, payload.Code)
	}
}

func TestSendErrorCodeExplicit(t *testing.T) {
	status, payload := performRequest(t, func(c *fiber.Ctx) error {
		return SendErrorCode(c, fiber.StatusConflict, CodeConflict, "tag in use")
	})
	require.Equal(t, fiber.StatusConflict, status)
	require.Equal(t, CodeConflict, payload.Code)
	require.Equal(t, "tag in use", payload.Message)
}
