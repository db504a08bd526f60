package store

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sujalbistaa/confide/internal/models"
)

// ConfessionStore handles confession CRUD and the feed queries.
type ConfessionStore struct {
	db *gorm.DB
}

// Create inserts a new confession. Content must be non-empty after
// trimming; anon_id falls back to "anonymous" when the client sends
// none. Expiry is fixed at 30 days from creation.
func (s *ConfessionStore) Create(content, anonID string, city, ip *string) (*models.Confession, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if anonID == "" {
		anonID = "anonymous"
	}

	now := time.Now().UTC()
	confession := models.Confession{
		Content:   content,
		AnonID:    anonID,
		City:      city,
		IP:        ip,
		CreatedAt: now,
		ExpiresAt: now.Add(ContentTTL),
		Status:    true,
	}
	if err := s.db.Create(&confession).Error; err != nil {
		return nil, err
	}
	return &confession, nil
}

// visible scopes a query to confessions that are not hidden and not
// expired. Every feed starts from this.
func (s *ConfessionStore) visible() *gorm.DB {
	return s.db.Model(&models.Confession{}).
		Where("status = ?", true).
		Where("expires_at > ?", time.Now().UTC())
}

// ListAll returns every visible confession, newest first.
func (s *ConfessionStore) ListAll() ([]models.Confession, error) {
	var confessions []models.Confession
	err := s.visible().Order("created_at desc").Find(&confessions).Error
	return confessions, err
}

// ListNear returns visible confessions from the given city posted in
// the last 48 hours, newest first.
func (s *ConfessionStore) ListNear(city string) ([]models.Confession, error) {
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", ErrValidation)
	}
	var confessions []models.Confession
	err := s.visible().
		Where("city = ?", city).
		Where("created_at >= ?", time.Now().UTC().Add(-FreshWindow)).
		Order("created_at desc").
		Find(&confessions).Error
	return confessions, err
}

// ListTrending returns the most-liked visible confessions of the last
// 48 hours. created_at breaks ties so pagination stays deterministic.
func (s *ConfessionStore) ListTrending() ([]models.Confession, error) {
	var confessions []models.Confession
	err := s.visible().
		Where("created_at >= ?", time.Now().UTC().Add(-FreshWindow)).
		Order("likes_count desc, created_at desc").
		Limit(TrendingLimit).
		Find(&confessions).Error
	return confessions, err
}

// ListRandom returns the last 48 hours of visible confessions in a
// fresh random order on every call.
func (s *ConfessionStore) ListRandom() ([]models.Confession, error) {
	var confessions []models.Confession
	err := s.visible().
		Where("created_at >= ?", time.Now().UTC().Add(-FreshWindow)).
		Find(&confessions).Error
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(confessions), func(i, j int) {
		confessions[i], confessions[j] = confessions[j], confessions[i]
	})
	return confessions, nil
}

// ListMine returns the caller's own visible confessions, newest first.
func (s *ConfessionStore) ListMine(anonID string) ([]models.Confession, error) {
	if anonID == "" {
		return nil, fmt.Errorf("%w: anon_id is required", ErrValidation)
	}
	var confessions []models.Confession
	err := s.visible().
		Where("anon_id = ?", anonID).
		Order("created_at desc").
		Find(&confessions).Error
	return confessions, err
}

// Hide soft-deletes a confession by flipping status to false. The row
// and its engagement children stay in place.
func (s *ConfessionStore) Hide(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var confession models.Confession
		if err := tx.First(&confession, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: confession %d", ErrNotFound, id)
			}
			return err
		}
		return tx.Model(&confession).Update("status", false).Error
	})
}
