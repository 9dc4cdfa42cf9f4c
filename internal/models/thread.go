package models

import "time"

type Thread struct {
	ID          int        `gorm:"primaryKey" json:"id"`
	PubID       int        `gorm:"not null;index" json:"pub_id"`
	AuthorID    int        `gorm:"not null" json:"author_id"`
	AnchorID    *string    `gorm:"index" json:"anchor_id,omitempty"` // opaque reference to a paper region, never validated here
	Title       string     `json:"title"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Deleted     bool       `gorm:"not null;default:false" json:"deleted"`
	IsAnonymous bool       `gorm:"not null;default:false" json:"is_anonymous"`
	Upvotes     int        `gorm:"not null;default:0" json:"upvotes"`
	Downvotes   int        `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt   time.Time  `json:"created_at"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`

	// Filled at read time from the vote ledger, never stored
	CurrentUserVote *int `gorm:"-" json:"current_user_vote,omitempty"`
}

type CreateThreadRequest struct {
	Body        string `json:"body" binding:"required"`
	Title       string `json:"title"`
	AnchorID    string `json:"anchor_id"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type UpdateThreadRequest struct {
	Body  string  `json:"body" binding:"required"`
	Title *string `json:"title,omitempty"`
}
