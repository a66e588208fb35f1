package model

import "time"

// Favorite marks a song as a favourite of one user. Unique per (user, song).
type Favorite struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_favorites_user_song" json:"userId"`
	SongID    int64     `gorm:"not null;uniqueIndex:uq_favorites_user_song" json:"songId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName maps Favorite to the favorites table.
func (Favorite) TableName() string {
	return "favorites"
}
