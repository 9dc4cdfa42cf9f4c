package models

import "time"

// Paper is a thin metadata record for an academic paper. The discussion core
// only ever sees its ExternalID as an opaque key.
type Paper struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null" json:"external_id"` // e.g. "arxiv:2401.01234" or a DOI
	Title      string    `gorm:"not null" json:"title"`
	Authors    string    `json:"authors,omitempty"`
	Abstract   string    `gorm:"type:text" json:"abstract,omitempty"`
	DOI        string    `gorm:"index" json:"doi,omitempty"`
	URL        string    `json:"url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreatePaperRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Authors    string `json:"authors"`
	Abstract   string `json:"abstract"`
	DOI        string `json:"doi"`
	URL        string `json:"url"`
}
