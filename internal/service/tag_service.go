package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
)

const (
	tagStatsCacheKey = "hagwon:tags:stats"
	// CategoryUncategorized groups tags without a category in stats.
	CategoryUncategorized = "미분류"
)

var (
	// ErrTagNotFound indicates the tag does not exist.
	ErrTagNotFound = errors.New("tag not found")
	// ErrTagNameTaken indicates another tag already carries the name.
	ErrTagNameTaken = errors.New("tag name already in use")
)

// TagInUseError rejects deletion of a referenced tag and reports where the
// references live.
type TagInUseError struct {
	Breakdown dto.TagUsageBreakdown
}

func (e *TagInUseError) Error() string {
	return fmt.Sprintf("tag is referenced by %d entities", e.Breakdown.Total())
}

// TagService orchestrates tag management and usage statistics.
type TagService interface {
	List(ctx context.Context) ([]dto.TagUsageResponse, error)
	Get(ctx context.Context, id uint) (dto.TagUsageResponse, error)
	Create(ctx context.Context, payload dto.TagCreateRequest, actor ActivityActor) (dto.TagResponse, error)
	Update(ctx context.Context, id uint, payload dto.TagUpdateRequest, actor ActivityActor) (dto.TagResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	Stats(ctx context.Context) (dto.TagStatsResponse, error)
}

type tagService struct {
	repo      repository.TagRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewTagService constructs the tag service. The cache client may be nil;
// stats are then recomputed on every call.
func NewTagService(repo repository.TagRepository, cache *redis.Client, cacheTTL time.Duration, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) TagService {
	return &tagService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "tag_service").Logger(),
	}
}

func (s *tagService) List(ctx context.Context) ([]dto.TagUsageResponse, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	usage, err := s.repo.UsageForAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TagUsageResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, usageResponse(tag, usage[tag.ID]))
	}
	return responses, nil
}

func (s *tagService) Get(ctx context.Context, id uint) (dto.TagUsageResponse, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TagUsageResponse{}, ErrTagNotFound
		}
		return dto.TagUsageResponse{}, err
	}

	usage, err := s.repo.Usage(ctx, id)
	if err != nil {
		return dto.TagUsageResponse{}, err
	}

	return usageResponse(tag, usage), nil
}

func (s *tagService) Create(ctx context.Context, payload dto.TagCreateRequest, actor ActivityActor) (dto.TagResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TagResponse{}, err
	}

	name := strings.TrimSpace(payload.Name)
	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return dto.TagResponse{}, ErrTagNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TagResponse{}, err
	}

	tag := models.Tag{
		Name:        name,
		Color:       strings.TrimSpace(payload.Color),
		Category:    strings.TrimSpace(payload.Category),
		Description: strings.TrimSpace(payload.Description),
	}

	if err := s.repo.Create(ctx, &tag); err != nil {
		return dto.TagResponse{}, err
	}

	s.invalidateStats(ctx)
	s.recordTagActivity(ctx, actor, "tag.created", tag.ID)

	return dto.NewTagResponse(tag), nil
}

func (s *tagService) Update(ctx context.Context, id uint, payload dto.TagUpdateRequest, actor ActivityActor) (dto.TagResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TagResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		if existing, err := s.repo.GetByName(ctx, name); err == nil && existing.ID != id {
			return dto.TagResponse{}, ErrTagNameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TagResponse{}, err
		}
		updates["name"] = name
	}
	if payload.Color != nil {
		updates["color"] = strings.TrimSpace(*payload.Color)
	}
	if payload.Category != nil {
		updates["category"] = strings.TrimSpace(*payload.Category)
	}
	if payload.Description != nil {
		updates["description"] = strings.TrimSpace(*payload.Description)
	}

	tag, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TagResponse{}, ErrTagNotFound
		}
		return dto.TagResponse{}, err
	}

	s.invalidateStats(ctx)
	s.recordTagActivity(ctx, actor, "tag.updated", id)

	return dto.NewTagResponse(tag), nil
}

// Delete removes an unused tag. A referenced tag is rejected with the
// per-kind usage breakdown so the caller can see what still points at it.
func (s *tagService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	usage, err := s.repo.Usage(ctx, id)
	if err != nil {
		return err
	}
	if usage.Total() > 0 {
		return &TagInUseError{Breakdown: breakdownFromUsage(usage)}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	s.invalidateStats(ctx)
	s.recordTagActivity(ctx, actor, "tag.deleted", id)
	return nil
}

func (s *tagService) Stats(ctx context.Context) (dto.TagStatsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, tagStatsCacheKey).Result(); err == nil && cached != "" {
			var response dto.TagStatsResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	response, err := s.computeStats(ctx)
	if err != nil {
		return dto.TagStatsResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, tagStatsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache tag stats")
			}
		}
	}

	return response, nil
}

func (s *tagService) computeStats(ctx context.Context) (dto.TagStatsResponse, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return dto.TagStatsResponse{}, err
	}

	usage, err := s.repo.UsageForAll(ctx)
	if err != nil {
		return dto.TagStatsResponse{}, err
	}

	totals, err := s.repo.EntityTotals(ctx)
	if err != nil {
		return dto.TagStatsResponse{}, err
	}

	tagged, err := s.repo.TaggedTotals(ctx)
	if err != nil {
		return dto.TagStatsResponse{}, err
	}

	var assignments int64
	usageResponses := make([]dto.TagUsageResponse, 0, len(tags))
	categories := make(map[string]int64)
	for _, tag := range tags {
		u := usage[tag.ID]
		assignments += u.Total()
		usageResponses = append(usageResponses, usageResponse(tag, u))

		category := tag.Category
		if category == "" {
			category = CategoryUncategorized
		}
		categories[category]++
	}

	// highest usage first; ties keep ID order from the listing
	sort.SliceStable(usageResponses, func(i, j int) bool {
		return usageResponses[i].UsageCount > usageResponses[j].UsageCount
	})
	if len(usageResponses) > 5 {
		usageResponses = usageResponses[:5]
	}

	// average is associations over ALL entities, tagged or not
	entityCount := totals.Sum()
	avg := 0.0
	if entityCount > 0 {
		avg = math.Round(float64(assignments)/float64(entityCount)*100) / 100
	}

	return dto.TagStatsResponse{
		TotalTags:        int64(len(tags)),
		TotalTaggedItems: assignments,
		UntaggedCount: dto.UntaggedCount{
			Students:  totals.Students - tagged.Students,
			Classes:   totals.Classes - tagged.Classes,
			Sessions:  totals.Sessions - tagged.Sessions,
			Materials: totals.Materials - tagged.Materials,
			Total:     totals.Sum() - tagged.Sum(),
		},
		AvgTagsPerItem: avg,
		TopTags:        usageResponses,
		CategoryCounts: categories,
	}, nil
}

func (s *tagService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, tagStatsCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate tag stats cache")
	}
}

func (s *tagService) recordTagActivity(ctx context.Context, actor ActivityActor, action string, id uint) {
	if s.activity == nil {
		return
	}
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "tag",
		EntityID:   &id,
	})
}

func usageResponse(tag models.Tag, usage repository.TagUsage) dto.TagUsageResponse {
	breakdown := breakdownFromUsage(usage)
	return dto.TagUsageResponse{
		TagResponse: dto.NewTagResponse(tag),
		UsageCount:  breakdown.Total(),
		Breakdown:   breakdown,
	}
}

func breakdownFromUsage(usage repository.TagUsage) dto.TagUsageBreakdown {
	return dto.TagUsageBreakdown{
		Students:  usage.Students,
		Classes:   usage.Classes,
		Sessions:  usage.Sessions,
		Materials: usage.Materials,
	}
}
