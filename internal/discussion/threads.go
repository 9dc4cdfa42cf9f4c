package discussion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/paperpub/backend/internal/models"
)

// GormThreadStore is the gorm-backed ThreadStore.
type GormThreadStore struct {
	db *gorm.DB
}

func NewThreadStore(db *gorm.DB) *GormThreadStore {
	return &GormThreadStore{db: db}
}

func (s *GormThreadStore) Start(ctx context.Context, in StartThread) (*models.Thread, error) {
	var pub models.Pub
	if err := s.db.WithContext(ctx).First(&pub, in.PubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pub %d: %w", in.PubID, ErrNotFound)
		}
		return nil, fmt.Errorf("resolve pub: %w", err)
	}

	thread := models.Thread{
		PubID:       in.PubID,
		AuthorID:    in.AuthorID,
		Title:       in.Title,
		Body:        in.Body,
		AnchorID:    normalizeAnchor(in.AnchorID),
		IsAnonymous: in.IsAnonymous,
	}
	if err := s.db.WithContext(ctx).Create(&thread).Error; err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	return &thread, nil
}

func (s *GormThreadStore) Get(ctx context.Context, threadID int) (*models.Thread, error) {
	var thread models.Thread
	err := s.db.WithContext(ctx).First(&thread, threadID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}
	return &thread, nil
}

func (s *GormThreadStore) Edit(ctx context.Context, threadID int, body string, title *string) (*models.Thread, error) {
	thread, err := s.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"body":      body,
		"edited_at": now,
	}
	if title != nil {
		updates["title"] = *title
	}
	if err := s.db.WithContext(ctx).Model(thread).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("edit thread: %w", err)
	}

	thread.Body = body
	thread.EditedAt = &now
	if title != nil {
		thread.Title = *title
	}
	return thread, nil
}

// Delete tombstones the thread, then tombstones every reply currently under
// it. The two updates are sequential, not one transaction: a reply inserted
// while the cascade runs may or may not be caught.
func (s *GormThreadStore) Delete(ctx context.Context, threadID int) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id = ?", threadID).
		Updates(map[string]interface{}{"deleted": true, "edited_at": now})
	if res.Error != nil {
		return fmt.Errorf("delete thread: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("thread %d: %w", threadID, ErrNotFound)
	}

	if err := s.db.WithContext(ctx).Model(&models.Reply{}).
		Where("thread_id = ?", threadID).
		Updates(map[string]interface{}{"deleted": true, "edited_at": now}).Error; err != nil {
		return fmt.Errorf("cascade replies: %w", err)
	}
	return nil
}

func (s *GormThreadStore) List(ctx context.Context, in ListThreads) []models.Thread {
	q := s.db.WithContext(ctx).Where("pub_id = ?", in.PubID)
	if in.AnchorID != nil {
		q = q.Where("anchor_id = ?", *in.AnchorID)
	}
	if !in.IncludeDeleted {
		q = q.Where("deleted = ?", false)
	}

	switch in.SortBy {
	case SortOldest:
		q = q.Order("created_at asc")
	case SortNet:
		q = q.Order("upvotes - downvotes desc").Order("created_at desc")
	default:
		q = q.Order("created_at desc")
	}

	var threads []models.Thread
	if err := q.Find(&threads).Error; err != nil {
		// Read queries degrade to empty rather than failing the caller.
		log.Printf("list threads for pub %d: %v", in.PubID, err)
		return []models.Thread{}
	}
	if threads == nil {
		threads = []models.Thread{}
	}

	if in.UserID != nil && len(threads) > 0 {
		s.annotateVotes(ctx, *in.UserID, threads)
	}
	return threads
}

// annotateVotes fills CurrentUserVote on each thread with one batched ledger
// query. This is a read-time join; the sign is never stored on the thread.
func (s *GormThreadStore) annotateVotes(ctx context.Context, userID int, threads []models.Thread) {
	ids := make([]int, len(threads))
	for i, t := range threads {
		ids[i] = t.ID
	}

	var votes []models.Vote
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, string(TargetThread), ids).
		Find(&votes).Error; err != nil {
		log.Printf("annotate thread votes for user %d: %v", userID, err)
		return
	}

	byTarget := make(map[int]int, len(votes))
	for _, v := range votes {
		byTarget[v.TargetID] = v.Sign
	}
	for i := range threads {
		if sign, ok := byTarget[threads[i].ID]; ok {
			v := sign
			threads[i].CurrentUserVote = &v
		}
	}
}

// normalizeAnchor maps the empty string to nil so threads without an anchor
// never match an anchor filter on "".
func normalizeAnchor(anchor string) *string {
	if anchor == "" {
		return nil
	}
	return &anchor
}
