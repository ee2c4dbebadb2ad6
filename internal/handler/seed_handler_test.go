package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hagwonlab/hagwon-api/internal/handler"
	"github.com/hagwonlab/hagwon-api/internal/service"
)

type mockSeedService struct {
	err       error
	result    service.SeedResult
	lastToken string
	lastEmail string
}

func (m *mockSeedService) Bootstrap(_ context.Context, token, adminEmail, _, _ string) (service.SeedResult, error) {
	m.lastToken = token
	m.lastEmail = adminEmail
	if m.err != nil {
		return service.SeedResult{}, m.err
	}
	return m.result, nil
}

func TestSeedHandler_BootstrapSuccess(t *testing.T) {
	svc := &mockSeedService{result: service.SeedResult{AdminCreated: true, TagsCreated: 6}}
	app := fiber.New()
	handler.NewSeedHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/seed"))

	body, err := json.Marshal(map[string]string{
		"admin_email":    "admin@hagwon.local",
		"admin_password": "changeme",
		"admin_name":     "원장",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/seed/bootstrap", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Seed-Token", "secret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			AdminCreated bool `json:"admin_created"`
			TagsCreated  int  `json:"tags_created"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.True(t, response.Data.AdminCreated)
	require.Equal(t, 6, response.Data.TagsCreated)
	require.Equal(t, "secret", svc.lastToken)
	require.Equal(t, "admin@hagwon.local", svc.lastEmail)
}

func TestSeedHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "disabled", err: service.ErrSeedDisabled, statusCode: fiber.StatusForbidden},
		{name: "unauthorized", err: service.ErrSeedUnauthorized, statusCode: fiber.StatusForbidden},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSeedService{err: tc.err}
			app := fiber.New()
			handler.NewSeedHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/seed"))

			req := httptest.NewRequest(http.MethodPost, "/api/seed/bootstrap", bytes.NewReader([]byte("{}")))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}
