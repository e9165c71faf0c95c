package forms

import (
	"time"

	"github.com/lexora/lexora-server/users"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus accepts an empty value, meaning any status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case "", StatusPending, StatusApproved, StatusRejected:
		return Status(s), true
	}
	return "", false
}

const (
	CreatorLawyer = "lawyer"
	CreatorAdmin  = "admin"

	DefaultPracticeArea = "General"
)

// Form is a legal form template listed in the marketplace.
type Form struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	CategoryID      int64     `json:"category_id"`
	CategoryName    string    `json:"category_name,omitempty"`
	PracticeArea    string    `json:"practice_area"`
	FileURL         string    `json:"file_url,omitempty"`
	Price           float64   `json:"price"`
	IsFree          bool      `json:"is_free"`
	CreatedBy       string    `json:"created_by"`
	CreatedByType   string    `json:"created_by_type"`
	Status          Status    `json:"status"`
	ApprovedBy      string    `json:"approved_by,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// DefaultCategories is served whenever the category table cannot be read.
func DefaultCategories() []Category {
	return []Category{
		{ID: 1, Name: "Contracts", DisplayOrder: 1, IsActive: true},
		{ID: 2, Name: "Legal Documents", DisplayOrder: 2, IsActive: true},
		{ID: 3, Name: "Court Forms", DisplayOrder: 3, IsActive: true},
		{ID: 4, Name: "Business Forms", DisplayOrder: 4, IsActive: true},
		{ID: 5, Name: "Personal Legal", DisplayOrder: 5, IsActive: true},
	}
}

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	CategoryID   *int64
	PracticeArea string
	IsFree       *bool
	Search       string // substring of title or description
	Status       Status
	CreatedBy    string
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	ID   string
	Role users.RoleType
}

func (a Actor) IsAdmin() bool {
	return a.Role == users.RoleAdmin
}

// CreateInput is a new form submission.
type CreateInput struct {
	Title        string
	Description  string
	CategoryID   int64
	PracticeArea string
	Price        float64
	IsFree       bool
	FileURL      string
}

// Update is a partial update. Nil fields are left unchanged.
type Update struct {
	Title        *string
	Description  *string
	CategoryID   *int64
	PracticeArea *string
	Price        *float64
	IsFree       *bool
	FileURL      *string
}

type Stats struct {
	TotalForms     int64 `json:"totalForms"`
	ApprovedForms  int64 `json:"approvedForms"`
	PendingForms   int64 `json:"pendingForms"`
	TotalDownloads int64 `json:"totalDownloads"`
}
