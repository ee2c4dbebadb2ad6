package dto

// Tag filter logic modes.
const (
	SearchLogicAnd = "AND"
	SearchLogicOr  = "OR"
)

// Recognised search target kinds.
const (
	SearchTargetStudents  = "students"
	SearchTargetClasses   = "classes"
	SearchTargetSessions  = "sessions"
	SearchTargetMaterials = "materials"
)

// SearchByTagsRequest selects entities of one kind by tag membership. AND
// requires every listed tag; OR requires at least one.
type SearchByTagsRequest struct {
	TagIDs     []uint `json:"tag_ids" validate:"required,min=1"`
	Logic      string `json:"logic" validate:"required,oneof=AND OR"`
	TargetType string `json:"target_type" validate:"required,oneof=students classes sessions materials"`
}

// SearchByTagsResponse carries the matches for the requested kind. Exactly
// one of the result slices is populated.
type SearchByTagsResponse struct {
	TargetType string             `json:"target_type"`
	Logic      string             `json:"logic"`
	Count      int                `json:"count"`
	Students   []StudentResponse  `json:"students,omitempty"`
	Classes    []ClassResponse    `json:"classes,omitempty"`
	Sessions   []SessionResponse  `json:"sessions,omitempty"`
	Materials  []MaterialResponse `json:"materials,omitempty"`
}
