package models

import "time"

// Confession is a single anonymous post. It is never physically
// deleted: Status=false hides it, and ExpiresAt cuts it out of every
// feed 30 days after creation.
type Confession struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Content       string    `gorm:"not null" json:"content"`
	AnonID        string    `gorm:"not null;index" json:"anon_id"`
	City          *string   `json:"city"`
	IP            *string   `json:"-"` // Never exposed through the API
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `gorm:"index" json:"expires_at"`
	Status        bool      `gorm:"not null;default:true" json:"status"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	ReportsCount  int       `gorm:"not null;default:0" json:"reports_count"`
	Likes         []Like    `gorm:"foreignKey:ConfessionID" json:"-"`
	Reports       []Report  `gorm:"foreignKey:ConfessionID" json:"-"`
	Comments      []Comment `gorm:"foreignKey:ConfessionID" json:"-"`
}

// Like marks that an anon_id liked a confession. The composite unique
// index makes a concurrent duplicate insert fail at the database
// instead of relying on the handler's existence check.
type Like struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ConfessionID uint      `gorm:"not null;uniqueIndex:idx_likes_confession_anon" json:"confession_id"`
	AnonID       string    `gorm:"not null;uniqueIndex:idx_likes_confession_anon" json:"anon_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Report has the same shape and uniqueness rule as Like. There is no
// delete path for reports.
type Report struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ConfessionID uint      `gorm:"not null;uniqueIndex:idx_reports_confession_anon" json:"confession_id"`
	AnonID       string    `gorm:"not null;uniqueIndex:idx_reports_confession_anon" json:"anon_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Comment is append-only: never updated, never deleted, expires 30
// days after creation like its parent.
type Comment struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ConfessionID uint      `gorm:"not null;index" json:"confession_id"`
	Content      string    `gorm:"not null" json:"content"`
	AnonID       string    `gorm:"not null" json:"anon_id"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `gorm:"index" json:"expires_at"`
}
