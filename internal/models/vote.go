package models

import "time"

// Vote model - one row per (user, target), the ledger of individual voter
// intent. The denormalized counters on Thread/Reply are maintained from it.
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"user_id"`
	TargetType string    `gorm:"size:16;not null;uniqueIndex:idx_votes_user_target" json:"target_type"` // "thread" or "reply"
	TargetID   int       `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"target_id"`
	Sign       int       `gorm:"not null" json:"sign"` // 1 or -1
	CreatedAt  time.Time `json:"created_at"`
}

type CastVoteRequest struct {
	Sign int `json:"sign" binding:"required,oneof=-1 1"`
}
