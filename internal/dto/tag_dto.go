package dto

import "github.com/hagwonlab/hagwon-api/internal/models"

// TagCreateRequest carries fields for a new tag.
type TagCreateRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	Color       string `json:"color" validate:"omitempty,max=16"`
	Category    string `json:"category" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"omitempty,max=512"`
}

// TagUpdateRequest carries optional tag field updates.
type TagUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=64"`
	Color       *string `json:"color" validate:"omitempty,max=16"`
	Category    *string `json:"category" validate:"omitempty,max=64"`
	Description *string `json:"description" validate:"omitempty,max=512"`
}

// TagResponse is the public view of a tag.
type TagResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewTagResponse maps a tag model to its public view.
func NewTagResponse(tag models.Tag) TagResponse {
	return TagResponse{
		ID:          tag.ID,
		Name:        tag.Name,
		Color:       tag.Color,
		Category:    tag.Category,
		Description: tag.Description,
	}
}

// NewTagResponses maps a slice of tag models.
func NewTagResponses(tags []models.Tag) []TagResponse {
	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, NewTagResponse(tag))
	}
	return responses
}

// TagUsageBreakdown splits a tag's usage by entity kind.
type TagUsageBreakdown struct {
	Students  int64 `json:"students"`
	Classes   int64 `json:"classes"`
	Sessions  int64 `json:"sessions"`
	Materials int64 `json:"materials"`
}

// Total sums the per-kind usage counts.
func (b TagUsageBreakdown) Total() int64 {
	return b.Students + b.Classes + b.Sessions + b.Materials
}

// TagUsageResponse is a tag with its usage counts attached.
type TagUsageResponse struct {
	TagResponse
	UsageCount int64             `json:"usage_count"`
	Breakdown  TagUsageBreakdown `json:"breakdown"`
}

// UntaggedCount reports entities without a single tag, per kind.
type UntaggedCount struct {
	Students  int64 `json:"students"`
	Classes   int64 `json:"classes"`
	Sessions  int64 `json:"sessions"`
	Materials int64 `json:"materials"`
	Total     int64 `json:"total"`
}

// TagStatsResponse is the aggregate usage report across all tags.
type TagStatsResponse struct {
	TotalTags        int64              `json:"total_tags"`
	TotalTaggedItems int64              `json:"total_tagged_items"`
	UntaggedCount    UntaggedCount      `json:"untagged_count"`
	AvgTagsPerItem   float64            `json:"avg_tags_per_item"`
	TopTags          []TagUsageResponse `json:"top_tags"`
	CategoryCounts   map[string]int64   `json:"category_counts"`
}
