package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/repository"
	"github.com/hagwonlab/hagwon-api/internal/schooling"
)

// SearchService runs tag-based filters across entity kinds.
type SearchService interface {
	ByTags(ctx context.Context, payload dto.SearchByTagsRequest) (dto.SearchByTagsResponse, error)
}

type searchService struct {
	repo      repository.SearchRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSearchService constructs the search service.
func NewSearchService(repo repository.SearchRepository, classes repository.ClassRepository, validator *validator.Validate, logger zerolog.Logger) SearchService {
	return &searchService{
		repo:      repo,
		classes:   classes,
		validator: validator,
		logger:    logger.With().Str("component", "search_service").Logger(),
	}
}

func (s *searchService) ByTags(ctx context.Context, payload dto.SearchByTagsRequest) (dto.SearchByTagsResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SearchByTagsResponse{}, err
	}

	logic := repository.SearchLogic(payload.Logic)
	response := dto.SearchByTagsResponse{
		TargetType: payload.TargetType,
		Logic:      payload.Logic,
	}

	switch payload.TargetType {
	case dto.SearchTargetStudents:
		students, err := s.repo.FilterStudents(ctx, payload.TagIDs, logic)
		if err != nil {
			return dto.SearchByTagsResponse{}, err
		}
		response.Students = make([]dto.StudentResponse, 0, len(students))
		for _, student := range students {
			response.Students = append(response.Students, dto.NewStudentResponse(student, schooling.GradeNow(student.BirthDate)))
		}
		response.Count = len(response.Students)

	case dto.SearchTargetClasses:
		classes, err := s.repo.FilterClasses(ctx, payload.TagIDs, logic)
		if err != nil {
			return dto.SearchByTagsResponse{}, err
		}

		ids := make([]uint, 0, len(classes))
		for _, class := range classes {
			ids = append(ids, class.ID)
		}
		enrollments, err := s.classes.EnrollmentCounts(ctx, ids)
		if err != nil {
			return dto.SearchByTagsResponse{}, err
		}
		sessions, err := s.classes.SessionCounts(ctx, ids)
		if err != nil {
			return dto.SearchByTagsResponse{}, err
		}

		response.Classes = make([]dto.ClassResponse, 0, len(classes))
		for _, class := range classes {
			response.Classes = append(response.Classes, dto.NewClassResponse(class, enrollments[class.ID], sessions[class.ID]))
		}
		response.Count = len(response.Classes)

	case dto.SearchTargetSessions:
		sessions, err := s.repo.FilterSessions(ctx, payload.TagIDs, logic)
		if err != nil {
			return dto.SearchByTagsResponse{}, err
		}
		response.Sessions = make([]dto.SessionResponse, 0, len(sessions))
		for _, session := range sessions {
			response.Sessions = append(response.Sessions, dto.NewSessionResponse(session))
		}
		response.Count = len(response.Sessions)

	case dto.SearchTargetMaterials:
		materials, err := s.repo.FilterMaterials(ctx, payload.TagIDs, logic)
		if err != nil {
			return dto.SearchByTagsResponse{}, err
		}
		response.Materials = make([]dto.MaterialResponse, 0, len(materials))
		for _, material := range materials {
			response.Materials = append(response.Materials, dto.NewMaterialResponse(material))
		}
		response.Count = len(response.Materials)
	}

	return response, nil
}
