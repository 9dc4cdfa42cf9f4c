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

// GormReplyStore is the gorm-backed ReplyStore.
type GormReplyStore struct {
	db *gorm.DB
}

func NewReplyStore(db *gorm.DB) *GormReplyStore {
	return &GormReplyStore{db: db}
}

func (s *GormReplyStore) Create(ctx context.Context, in CreateReply) (*models.Reply, error) {
	var thread models.Thread
	if err := s.db.WithContext(ctx).First(&thread, in.ThreadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("thread %d: %w", in.ThreadID, ErrNotFound)
		}
		return nil, fmt.Errorf("resolve thread: %w", err)
	}

	// The one referential-integrity check done at write time: a parent must
	// exist and belong to the same thread. It is never re-validated later.
	if in.ParentID != nil {
		var parent models.Reply
		if err := s.db.WithContext(ctx).First(&parent, *in.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("parent reply %d: %w", *in.ParentID, ErrNotFound)
			}
			return nil, fmt.Errorf("resolve parent reply: %w", err)
		}
		if parent.ThreadID != in.ThreadID {
			return nil, ErrMismatch
		}
	}

	reply := models.Reply{
		ThreadID:    in.ThreadID,
		ParentID:    in.ParentID,
		AuthorID:    in.AuthorID,
		Body:        in.Body,
		AnchorID:    normalizeAnchor(in.AnchorID),
		IsAnonymous: in.IsAnonymous,
	}
	if err := s.db.WithContext(ctx).Create(&reply).Error; err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return &reply, nil
}

func (s *GormReplyStore) Get(ctx context.Context, replyID int) (*models.Reply, error) {
	var reply models.Reply
	err := s.db.WithContext(ctx).First(&reply, replyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reply: %w", err)
	}
	return &reply, nil
}

func (s *GormReplyStore) Edit(ctx context.Context, replyID int, body string) (*models.Reply, error) {
	reply, err := s.Get(ctx, replyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(reply).
		Updates(map[string]interface{}{"body": body, "edited_at": now}).Error; err != nil {
		return nil, fmt.Errorf("edit reply: %w", err)
	}
	reply.Body = body
	reply.EditedAt = &now
	return reply, nil
}

// Delete tombstones a single reply. No cascade: descendants keep their
// parent pointer and are flattened at read time by BuildReplyTree.
func (s *GormReplyStore) Delete(ctx context.Context, replyID int) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.Reply{}).
		Where("id = ?", replyID).
		Updates(map[string]interface{}{"deleted": true, "edited_at": now})
	if res.Error != nil {
		return fmt.Errorf("delete reply: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reply %d: %w", replyID, ErrNotFound)
	}
	return nil
}

func (s *GormReplyStore) List(ctx context.Context, in ListReplies) []models.Reply {
	q := s.db.WithContext(ctx).Where("thread_id = ?", in.ThreadID)
	if !in.IncludeDeleted {
		q = q.Where("deleted = ?", false)
	}

	switch in.SortBy {
	case SortReplyNet:
		q = q.Order("upvotes - downvotes desc").Order("created_at asc")
	case SortReplyUp:
		q = q.Order("upvotes desc").Order("created_at asc")
	case SortReplyDown:
		q = q.Order("downvotes desc").Order("created_at asc")
	default:
		// Conversational order: oldest first.
		q = q.Order("created_at asc")
	}

	var replies []models.Reply
	if err := q.Find(&replies).Error; err != nil {
		log.Printf("list replies for thread %d: %v", in.ThreadID, err)
		return []models.Reply{}
	}
	if replies == nil {
		replies = []models.Reply{}
	}
	return replies
}
