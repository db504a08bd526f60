package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sujalbistaa/confide/internal/models"
)

// Kind selects which engagement table an operation targets. Likes and
// reports share the exact same shape and rules; only likes can be
// removed.
type Kind string

const (
	KindLike   Kind = "like"
	KindReport Kind = "report"
)

// Engagement is the store-level view of a like or report row.
type Engagement struct {
	ID           uint      `json:"id"`
	ConfessionID uint      `json:"confession_id"`
	AnonID       string    `json:"anon_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// EngagementStore handles likes and reports plus their denormalized
// counters on the parent confession.
type EngagementStore struct {
	db *gorm.DB
}

// counterColumn maps a kind to the confession column it maintains.
func (k Kind) counterColumn() string {
	if k == KindReport {
		return "reports_count"
	}
	return "likes_count"
}

func (k Kind) pastTense() string {
	if k == KindReport {
		return "reported"
	}
	return "liked"
}

// Add records a like or report. The row insert and the parent counter
// increment commit in one transaction. A second engagement by the same
// (confession_id, anon_id) pair fails with ErrConflict — caught early
// by the existence check, or at the unique index if two requests race.
func (s *EngagementStore) Add(kind Kind, confessionID uint, anonID string) (*Engagement, error) {
	if confessionID == 0 || anonID == "" {
		return nil, fmt.Errorf("%w: confession_id and anon_id are required", ErrValidation)
	}

	exists, err := s.Has(kind, confessionID, anonID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: already %s", ErrConflict, kind.pastTense())
	}

	engagement := Engagement{
		ConfessionID: confessionID,
		AnonID:       anonID,
		CreatedAt:    time.Now().UTC(),
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		switch kind {
		case KindReport:
			row := models.Report{ConfessionID: confessionID, AnonID: anonID, CreatedAt: engagement.CreatedAt}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			engagement.ID = row.ID
		default:
			row := models.Like{ConfessionID: confessionID, AnonID: anonID, CreatedAt: engagement.CreatedAt}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			engagement.ID = row.ID
		}
		return tx.Model(&models.Confession{}).
			Where("id = ?", confessionID).
			UpdateColumn(kind.counterColumn(), gorm.Expr(kind.counterColumn()+" + 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: already %s", ErrConflict, kind.pastTense())
		}
		return nil, err
	}
	return &engagement, nil
}

// Remove deletes a like and decrements likes_count, floored at zero.
// Reports have no removal path.
func (s *EngagementStore) Remove(confessionID uint, anonID string) error {
	if confessionID == 0 || anonID == "" {
		return fmt.Errorf("%w: confession_id and anon_id are required", ErrValidation)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var like models.Like
		err := tx.Where("confession_id = ? AND anon_id = ?", confessionID, anonID).First(&like).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: like", ErrNotFound)
			}
			return err
		}
		if err := tx.Delete(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Confession{}).
			Where("id = ?", confessionID).
			UpdateColumn("likes_count",
				gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error
	})
}

// Has reports whether the pair already has an engagement of this kind.
func (s *EngagementStore) Has(kind Kind, confessionID uint, anonID string) (bool, error) {
	if confessionID == 0 || anonID == "" {
		return false, fmt.Errorf("%w: confession_id and anon_id are required", ErrValidation)
	}

	var count int64
	query := s.db.Model(&models.Like{})
	if kind == KindReport {
		query = s.db.Model(&models.Report{})
	}
	err := query.Where("confession_id = ? AND anon_id = ?", confessionID, anonID).Count(&count).Error
	return count > 0, err
}
