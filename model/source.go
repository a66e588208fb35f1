package model

import "time"

// Source is a shared registration of one remote repository as a music
// library origin. Sources are shared across users; the identity key for
// lookup and dedup is LocationURI, not ID.
type Source struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	LocationURI  string    `gorm:"column:location_uri;size:512;uniqueIndex:uq_sources_location_uri,length:512;not null" json:"locationUri"`
	CreatedBy    int64     `gorm:"not null" json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSyncedAt time.Time `gorm:"column:last_synced_at" json:"lastSyncedAt"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
}

// TableName maps Source to the sources table.
func (Source) TableName() string {
	return "sources"
}
