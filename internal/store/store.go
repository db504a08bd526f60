// Package store implements the data-access layer: confessions, likes,
// reports and comments over a single GORM connection. Handlers own
// HTTP concerns; everything touching the database lives here.
package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	// ContentTTL is how long confessions and comments stay visible.
	ContentTTL = 30 * 24 * time.Hour
	// FreshWindow bounds the near/trending/random feeds.
	FreshWindow = 48 * time.Hour
	// TrendingLimit caps the trending feed.
	TrendingLimit = 20
)

// Sentinel errors. Handlers map these to HTTP statuses; anything else
// coming out of a store is a persistence failure (500).
var (
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("already exists")
	ErrNotFound   = errors.New("not found")
)

// Stores bundles the three stores over one shared connection.
type Stores struct {
	Confessions *ConfessionStore
	Engagements *EngagementStore
	Comments    *CommentStore
}

// New wires all stores to the given database.
func New(db *gorm.DB) *Stores {
	return &Stores{
		Confessions: &ConfessionStore{db: db},
		Engagements: &EngagementStore{db: db},
		Comments:    &CommentStore{db: db},
	}
}
