package discussion

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/paperpub/backend/internal/models"
)

// GormVoteLedger is the gorm-backed VoteLedger.
type GormVoteLedger struct {
	db *gorm.DB
}

func NewVoteLedger(db *gorm.DB) *GormVoteLedger {
	return &GormVoteLedger{db: db}
}

func (l *GormVoteLedger) Cast(ctx context.Context, target TargetType, targetID, userID, sign int) (*VoteResult, error) {
	if sign != 1 && sign != -1 {
		return nil, fmt.Errorf("invalid vote sign %d", sign)
	}
	if _, _, err := l.counters(ctx, target, targetID); err != nil {
		return nil, err
	}

	tx := l.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin vote: %w", tx.Error)
	}

	var existing models.Vote
	err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, string(target), targetID).First(&existing).Error

	var current *int
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No vote yet: insert and bump the matching counter.
		vote := models.Vote{
			UserID:     userID,
			TargetType: string(target),
			TargetID:   targetID,
			Sign:       sign,
		}
		if err := tx.Create(&vote).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("record vote: %w", err)
		}
		if err := l.adjust(tx, target, targetID, sign, +1); err != nil {
			tx.Rollback()
			return nil, err
		}
		s := sign
		current = &s

	case err != nil:
		tx.Rollback()
		return nil, fmt.Errorf("read vote: %w", err)

	case existing.Sign == sign:
		// Same arrow again: toggle the vote off.
		if err := tx.Delete(&existing).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("remove vote: %w", err)
		}
		if err := l.adjust(tx, target, targetID, sign, -1); err != nil {
			tx.Rollback()
			return nil, err
		}

	default:
		// Opposite arrow: switch, moving one count across.
		if err := tx.Model(&models.Vote{}).Where("id = ?", existing.ID).
			UpdateColumn("sign", sign).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("switch vote: %w", err)
		}
		if err := l.adjust(tx, target, targetID, existing.Sign, -1); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := l.adjust(tx, target, targetID, sign, +1); err != nil {
			tx.Rollback()
			return nil, err
		}
		s := sign
		current = &s
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit vote: %w", err)
	}

	up, down, err := l.counters(ctx, target, targetID)
	if err != nil {
		return nil, err
	}
	return &VoteResult{Upvotes: up, Downvotes: down, CurrentUserVote: current}, nil
}

func (l *GormVoteLedger) UserVote(ctx context.Context, userID int, target TargetType, targetID int) (int, error) {
	var vote models.Vote
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, string(target), targetID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get user vote: %w", err)
	}
	return vote.Sign, nil
}

func (l *GormVoteLedger) UserVotes(ctx context.Context, userID int, target TargetType, targetIDs []int) (map[int]int, error) {
	signs := make(map[int]int, len(targetIDs))
	if len(targetIDs) == 0 {
		return signs, nil
	}

	var votes []models.Vote
	if err := l.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, string(target), targetIDs).
		Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("get user votes: %w", err)
	}
	for _, v := range votes {
		signs[v.TargetID] = v.Sign
	}
	return signs, nil
}

// adjust moves a counter on the target by one, atomically in SQL so
// concurrent casts never lose an update. Decrements are floored at zero.
func (l *GormVoteLedger) adjust(tx *gorm.DB, target TargetType, targetID, sign, delta int) error {
	col := "upvotes"
	if sign < 0 {
		col = "downvotes"
	}

	var expr interface{}
	if delta > 0 {
		expr = gorm.Expr(col + " + 1")
	} else {
		expr = gorm.Expr("GREATEST(" + col + " - 1, 0)")
	}

	q := tx.Model(&models.Thread{})
	if target == TargetReply {
		q = tx.Model(&models.Reply{})
	}
	if err := q.Where("id = ?", targetID).UpdateColumn(col, expr).Error; err != nil {
		return fmt.Errorf("update %s counter: %w", col, err)
	}
	return nil
}

// counters reads the target's current tallies, doubling as the existence
// check for Cast.
func (l *GormVoteLedger) counters(ctx context.Context, target TargetType, targetID int) (int, int, error) {
	switch target {
	case TargetThread:
		var t models.Thread
		if err := l.db.WithContext(ctx).First(&t, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, 0, fmt.Errorf("thread %d: %w", targetID, ErrNotFound)
			}
			return 0, 0, fmt.Errorf("resolve vote target: %w", err)
		}
		return t.Upvotes, t.Downvotes, nil
	case TargetReply:
		var r models.Reply
		if err := l.db.WithContext(ctx).First(&r, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, 0, fmt.Errorf("reply %d: %w", targetID, ErrNotFound)
			}
			return 0, 0, fmt.Errorf("resolve vote target: %w", err)
		}
		return r.Upvotes, r.Downvotes, nil
	default:
		return 0, 0, fmt.Errorf("unknown vote target type %q", target)
	}
}
