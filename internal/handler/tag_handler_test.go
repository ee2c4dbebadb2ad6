package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/handler"
	"github.com/hagwonlab/hagwon-api/internal/service"
)

type mockTagService struct {
	deleteErr error
	statsResp dto.TagStatsResponse
}

func (m *mockTagService) List(_ context.Context) ([]dto.TagUsageResponse, error) {
	return []dto.TagUsageResponse{}, nil
}

func (m *mockTagService) Get(_ context.Context, _ uint) (dto.TagUsageResponse, error) {
	return dto.TagUsageResponse{}, nil
}

func (m *mockTagService) Create(_ context.Context, _ dto.TagCreateRequest, _ service.ActivityActor) (dto.TagResponse, error) {
	return dto.TagResponse{}, nil
}

func (m *mockTagService) Update(_ context.Context, _ uint, _ dto.TagUpdateRequest, _ service.ActivityActor) (dto.TagResponse, error) {
	return dto.TagResponse{}, nil
}

func (m *mockTagService) Delete(_ context.Context, _ uint, _ service.ActivityActor) error {
	return m.deleteErr
}

func (m *mockTagService) Stats(_ context.Context) (dto.TagStatsResponse, error) {
	return m.statsResp, nil
}

func newTagApp(svc service.TagService) *fiber.App {
	app := fiber.New()
	handler.NewTagHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/tags"), passthrough)
	return app
}

func TestTagHandler_DeleteConflictCarriesBreakdown(t *testing.T) {
	svc := &mockTagService{
		deleteErr: &service.TagInUseError{
			Breakdown: dto.TagUsageBreakdown{Students: 2, Classes: 1},
		},
	}
	app := newTagApp(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tags/3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var response struct {
		Success bool                  `json:"success"`
		Code    string                `json:"code"`
		Data    dto.TagUsageBreakdown `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.False(t, response.Success)
	require.Equal(t, "CONFLICT", response.Code)
	require.Equal(t, int64(2), response.Data.Students)
	require.Equal(t, int64(1), response.Data.Classes)
}

func TestTagHandler_DeleteNotFound(t *testing.T) {
	svc := &mockTagService{deleteErr: service.ErrTagNotFound}
	app := newTagApp(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tags/3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTagHandler_StatsRoutesBeforeID(t *testing.T) {
	svc := &mockTagService{
		statsResp: dto.TagStatsResponse{TotalTags: 4, AvgTagsPerItem: 1.25},
	}
	app := newTagApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.TagStatsResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, int64(4), response.Data.TotalTags)
	require.InDelta(t, 1.25, response.Data.AvgTagsPerItem, 0.001)
}
