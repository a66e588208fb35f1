package model

import "time"

// Playlist is one user's copy of a scanned repository folder. Playlists are
// never shared: two users importing the same source each get their own rows,
// distinguished by UserID, while (SourceID, FolderPath) identifies the same
// logical playlist across users.
type Playlist struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:uq_playlists_user_source_path" json:"userId"`
	SourceID   int64     `gorm:"not null;uniqueIndex:uq_playlists_user_source_path" json:"sourceId"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	FolderPath string    `gorm:"column:folder_path;size:512;not null;uniqueIndex:uq_playlists_user_source_path,length:255" json:"folderPath"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName maps Playlist to the playlists table.
func (Playlist) TableName() string {
	return "playlists"
}
