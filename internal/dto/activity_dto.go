package dto

import (
	"time"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// ActivityListRequest narrows and pages the audit trail.
type ActivityListRequest struct {
	Page       int
	PageSize   int
	ActorID    uint
	Action     string
	EntityType string
}

// ActivityResponse is the public view of an audit entry.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityResponse maps an activity log model to its public view.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	metadata := make(map[string]interface{}, len(entry.Metadata))
	for key, value := range entry.Metadata {
		metadata[key] = value
	}

	return ActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadata,
		CreatedAt:  entry.CreatedAt,
	}
}

// ActivityListResponse pages audit entries.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
