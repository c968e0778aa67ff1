package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/mathieu/apply-pilot/internal/types"
)

// Application is the persistent aggregate for one job application. It is
// created once a document pair has been compiled; afterwards only status,
// document paths, stored drafts and updated_at change.
type Application struct {
	ID           string            `json:"id"`
	Company      string            `json:"company"`
	Position     string            `json:"position"`
	Location     string            `json:"location,omitempty"`
	Salary       string            `json:"salary,omitempty"`
	ContractType string            `json:"contractType,omitempty"`
	Status       string            `json:"status"`
	AppliedDate  time.Time         `json:"appliedDate"`
	MatchScore   int               `json:"matchScore"`
	Description  string            `json:"description,omitempty"`
	URL          string            `json:"url,omitempty"`
	CVPath       string            `json:"cvPath,omitempty"`
	CoverPath    string            `json:"coverPath,omitempty"`
	LogoURL      string            `json:"logoUrl,omitempty"`
	Language     string            `json:"language"`
	CVData       *types.CVDraft    `json:"cvData,omitempty"`
	CoverData    *types.CoverDraft `json:"coverData,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ListFilter narrows ListApplications results.
type ListFilter struct {
	Status string // exact status match when set
	Search string // case-insensitive substring over company/position/location
}

// NewApplicationID returns a short random identifier, the first block of a
// UUID, which is what the dashboard displays.
func NewApplicationID() string {
	return uuid.NewString()[:8]
}
