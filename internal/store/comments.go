package store

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sujalbistaa/confide/internal/models"
)

// CommentStore handles append-only comments and the comments_count
// counter on the parent confession.
type CommentStore struct {
	db *gorm.DB
}

// Add inserts a comment and increments the parent's comments_count in
// one transaction. Content must be non-empty after trimming.
func (s *CommentStore) Add(confessionID uint, content, anonID string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if confessionID == 0 || content == "" || anonID == "" {
		return nil, fmt.Errorf("%w: confession_id, content, and anon_id are required", ErrValidation)
	}

	now := time.Now().UTC()
	comment := models.Comment{
		ConfessionID: confessionID,
		Content:      content,
		AnonID:       anonID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ContentTTL),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Confession{}).
			Where("id = ?", confessionID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListFor returns the unexpired comments on a confession, oldest
// first.
func (s *CommentStore) ListFor(confessionID uint) ([]models.Comment, error) {
	if confessionID == 0 {
		return nil, fmt.Errorf("%w: confession_id is required", ErrValidation)
	}
	var comments []models.Comment
	err := s.db.
		Where("confession_id = ?", confessionID).
		Where("expires_at > ?", time.Now().UTC()).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}
