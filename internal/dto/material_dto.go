package dto

import (
	"time"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// MaterialCreateRequest carries fields for a new learning material. The
// content field accepts rich text and is sanitised server-side.
type MaterialCreateRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content"`
	FileURL string `json:"file_url" validate:"omitempty,url,max=512"`
	TagIDs  []uint `json:"tag_ids"`
}

// MaterialUpdateRequest carries optional material field updates.
type MaterialUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content"`
	FileURL *string `json:"file_url" validate:"omitempty,url,max=512"`
	TagIDs  *[]uint `json:"tag_ids"`
}

// MaterialListRequest narrows and pages the material listing.
type MaterialListRequest struct {
	Page     int
	PageSize int
	Search   string
	OwnerID  uint
}

// MaterialResponse is the public view of a material.
type MaterialResponse struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	FileURL   string        `json:"file_url,omitempty"`
	OwnerID   uint          `json:"owner_id"`
	Tags      []TagResponse `json:"tags"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewMaterialResponse maps a material model to its public view.
func NewMaterialResponse(material models.Material) MaterialResponse {
	return MaterialResponse{
		ID:        material.ID,
		Title:     material.Title,
		Content:   material.Content,
		FileURL:   material.FileURL,
		OwnerID:   material.OwnerID,
		Tags:      NewTagResponses(material.Tags),
		CreatedAt: material.CreatedAt,
	}
}

// MaterialListResponse pages material results.
type MaterialListResponse struct {
	Items      []MaterialResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
