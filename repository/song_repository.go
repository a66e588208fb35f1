package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/muntasir-dev/MusicStream/model"

	"gorm.io/gorm"
)

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	CreateSong(ctx context.Context, song *model.Song) error
	GetSongByID(ctx context.Context, id int64) (*model.Song, error)
	GetSongByUniqueLink(ctx context.Context, uniqueLink string) (*model.Song, error)
	ListSongsByPlaylist(ctx context.Context, playlistID int64) ([]*model.Song, error)
	UpdateSongDuration(ctx context.Context, id int64, durationSeconds float64) error
}

// gormSongRepository implements SongRepository on GORM.
type gormSongRepository struct {
	db *gorm.DB
}

// NewGormSongRepository creates a new gormSongRepository.
func NewGormSongRepository(db *gorm.DB) SongRepository {
	return &gormSongRepository{db: db}
}

// CreateSong inserts a new song. A concurrent import racing on the same
// unique link loses with gorm.ErrDuplicatedKey; callers fall back to the
// lookup-and-reuse path.
func (r *gormSongRepository) CreateSong(ctx context.Context, song *model.Song) error {
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("failed to create song %s: %w", song.UniqueLink, err)
	}
	return nil
}

// GetSongByID retrieves a song by its ID.
func (r *gormSongRepository) GetSongByID(ctx context.Context, id int64) (*model.Song, error) {
	var song model.Song
	err := r.db.WithContext(ctx).First(&song, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Song not found
		}
		return nil, fmt.Errorf("failed to query song by ID %d: %w", id, err)
	}
	return &song, nil
}

// GetSongByUniqueLink retrieves a song by its globally unique link.
func (r *gormSongRepository) GetSongByUniqueLink(ctx context.Context, uniqueLink string) (*model.Song, error) {
	var song model.Song
	err := r.db.WithContext(ctx).Where("unique_link = ?", uniqueLink).First(&song).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Song not found
		}
		return nil, fmt.Errorf("failed to query song by unique link %s: %w", uniqueLink, err)
	}
	return &song, nil
}

// ListSongsByPlaylist retrieves the songs of one playlist ordered by title.
func (r *gormSongRepository) ListSongsByPlaylist(ctx context.Context, playlistID int64) ([]*model.Song, error) {
	var songs []*model.Song
	err := r.db.WithContext(ctx).
		Where("playlist_id = ?", playlistID).
		Order("title").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list songs for playlist %d: %w", playlistID, err)
	}
	return songs, nil
}

// UpdateSongDuration records the true media duration reported by the
// playback subsystem.
func (r *gormSongRepository) UpdateSongDuration(ctx context.Context, id int64, durationSeconds float64) error {
	err := r.db.WithContext(ctx).
		Model(&model.Song{}).
		Where("id = ?", id).
		Update("duration_seconds", durationSeconds).Error
	if err != nil {
		return fmt.Errorf("failed to update duration for song %d: %w", id, err)
	}
	return nil
}
