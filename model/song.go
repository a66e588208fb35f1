package model

import "time"

// UnknownDuration is the sentinel duration assigned at import time. The
// playback subsystem reports the true media duration later.
const UnknownDuration float64 = -1

// Song is a single audio file discovered in a source repository. UniqueLink
// is globally unique and derived from the repository path, so the same file
// imported by different users resolves to one Song row.
type Song struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	PlaylistID      int64     `gorm:"not null;index" json:"playlistId"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	DurationSeconds float64   `gorm:"column:duration_seconds" json:"durationSeconds"`
	FileURI         string    `gorm:"column:file_uri;size:1024;not null" json:"fileUri"`
	CoverArtURI     string    `gorm:"column:cover_art_uri;size:1024" json:"coverArtUri,omitempty"`
	SizeBytes       int64     `gorm:"column:size_bytes" json:"sizeBytes"`
	UniqueLink      string    `gorm:"column:unique_link;size:768;uniqueIndex:uq_songs_unique_link,length:512;not null" json:"uniqueLink"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName maps Song to the songs table.
func (Song) TableName() string {
	return "songs"
}
