package models

import "time"

type Reply struct {
	ID          int        `gorm:"primaryKey" json:"id"`
	ThreadID    int        `gorm:"not null;index" json:"thread_id"`
	ParentID    *int       `gorm:"index" json:"parent_id,omitempty"` // nil for top-level replies
	AuthorID    int        `gorm:"not null" json:"author_id"`
	AnchorID    *string    `json:"anchor_id,omitempty"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Deleted     bool       `gorm:"not null;default:false" json:"deleted"`
	IsAnonymous bool       `gorm:"not null;default:false" json:"is_anonymous"`
	Upvotes     int        `gorm:"not null;default:0" json:"upvotes"`
	Downvotes   int        `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt   time.Time  `json:"created_at"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`

	CurrentUserVote *int `gorm:"-" json:"current_user_vote,omitempty"`
}

type CreateReplyRequest struct {
	Body        string `json:"body" binding:"required"`
	AnchorID    string `json:"anchor_id"`
	ParentID    *int   `json:"parent_id,omitempty"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type UpdateReplyRequest struct {
	Body string `json:"body" binding:"required"`
}
