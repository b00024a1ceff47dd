package models

import (
	"time"
)

// Like and Dislike are separate ledgers with one row per (user, post) pair.
// The composite unique index keeps racing duplicate votes out; the toggle
// service keeps the two tables mutually exclusive.

type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    int64     `gorm:"not null;index;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Dislike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_dislike_user_post" json:"user_id"`
	PostID    int64     `gorm:"not null;index;uniqueIndex:idx_dislike_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
