package models

import "time"

// Note represents a note owned by a single user
type Note struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"` // Ownership is implied by the authenticated caller
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListParams controls pagination and ordering of a note listing.
// Page is zero-based. Size is capped by the service.
type ListParams struct {
	Page          int
	Size          int
	SortField     string
	SortAscending bool
}

// NotePage is one page of a user's notes together with paging metadata.
type NotePage struct {
	Content       []Note `json:"content"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
}
