package discussion

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/paperpub/backend/internal/models"
)

// PubStore is the gorm-backed PubRegistry.
type PubStore struct {
	db *gorm.DB
}

func NewPubStore(db *gorm.DB) *PubStore {
	return &PubStore{db: db}
}

func (s *PubStore) Open(ctx context.Context, paperID string) (*models.Pub, error) {
	// Look before inserting so a duplicate surfaces as ErrConflict rather
	// than a driver-specific unique violation. The unique index still backs
	// this up under concurrent opens.
	var existing models.Pub
	if err := s.db.WithContext(ctx).Where("paper_id = ?", paperID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("pub for paper %q: %w", paperID, ErrConflict)
	}

	pub := models.Pub{PaperID: paperID}
	if err := s.db.WithContext(ctx).Create(&pub).Error; err != nil {
		return nil, fmt.Errorf("create pub: %w", err)
	}
	return &pub, nil
}

func (s *PubStore) FindByPaper(ctx context.Context, paperID string) (*models.Pub, error) {
	var pub models.Pub
	err := s.db.WithContext(ctx).Where("paper_id = ?", paperID).First(&pub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pub by paper: %w", err)
	}
	return &pub, nil
}

func (s *PubStore) Get(ctx context.Context, pubID int) (*models.Pub, error) {
	var pub models.Pub
	err := s.db.WithContext(ctx).First(&pub, pubID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pub: %w", err)
	}
	return &pub, nil
}
