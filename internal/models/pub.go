package models

import "time"

// Pub is the single discussion space attached to one paper.
// Created once per paper and never mutated or deleted afterwards.
type Pub struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PaperID   string    `gorm:"uniqueIndex;not null" json:"paper_id"` // opaque external paper key, e.g. "arxiv:2401.01234"
	CreatedAt time.Time `json:"created_at"`
}

type OpenPubRequest struct {
	PaperID string `json:"paper_id" binding:"required"`
}
