package data

import (
	"time"

	"gorm.io/gorm"
)

// Review represents the reviews table
type Review struct {
	ID         string  `gorm:"primaryKey;size:64"`
	MovieID    int64   `gorm:"not null;index:idx_reviews_movie_id"`
	MovieTitle string  `gorm:"not null;size:255;index:idx_reviews_movie_title,expression:LOWER(movie_title)"`
	Author     string  `gorm:"not null;size:100"`
	Content    string  `gorm:"not null;type:text"`
	Rating     float64 `gorm:"not null;type:decimal(2,1);check:rating >= 0.5 AND rating <= 5.0 AND MOD(rating * 10, 5) = 0"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}

// UserProfile represents the user_profiles table
type UserProfile struct {
	ID        string  `gorm:"primaryKey;size:64"`
	Handle    string  `gorm:"uniqueIndex;not null;size:100"`
	Nickname  string  `gorm:"size:100"`
	AvatarURL *string `gorm:"column:avatar_url;size:512"`
	Bio       *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (UserProfile) TableName() string {
	return "user_profiles"
}
