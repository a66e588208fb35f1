package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/muntasir-dev/MusicStream/model"

	"gorm.io/gorm"
)

// PlaylistRepository defines the interface for playlist data operations.
type PlaylistRepository interface {
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) error
	GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error)
	ListPlaylistsByUser(ctx context.Context, userID int64) ([]*model.Playlist, error)
	ListPlaylistsByUserAndSource(ctx context.Context, userID, sourceID int64) ([]*model.Playlist, error)
	CountPlaylistsByUserAndSource(ctx context.Context, userID, sourceID int64) (int64, error)
}

// gormPlaylistRepository implements PlaylistRepository on GORM.
type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository creates a new gormPlaylistRepository.
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

// CreatePlaylist inserts a new playlist row.
func (r *gormPlaylistRepository) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("failed to create playlist %s for user %d: %w", playlist.FolderPath, playlist.UserID, err)
	}
	return nil
}

// GetPlaylistByID retrieves a playlist by its ID.
func (r *gormPlaylistRepository) GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).First(&playlist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Playlist not found
		}
		return nil, fmt.Errorf("failed to query playlist by ID %d: %w", id, err)
	}
	return &playlist, nil
}

// ListPlaylistsByUser retrieves all playlists of one user.
func (r *gormPlaylistRepository) ListPlaylistsByUser(ctx context.Context, userID int64) ([]*model.Playlist, error) {
	var playlists []*model.Playlist
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists for user %d: %w", userID, err)
	}
	return playlists, nil
}

// ListPlaylistsByUserAndSource retrieves the playlists one user imported
// from one source; the diffing baseline for refresh.
func (r *gormPlaylistRepository) ListPlaylistsByUserAndSource(ctx context.Context, userID, sourceID int64) ([]*model.Playlist, error) {
	var playlists []*model.Playlist
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND source_id = ?", userID, sourceID).
		Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists for user %d source %d: %w", userID, sourceID, err)
	}
	return playlists, nil
}

// CountPlaylistsByUserAndSource counts playlists of one user against one
// source; the import idempotence guard.
func (r *gormPlaylistRepository) CountPlaylistsByUserAndSource(ctx context.Context, userID, sourceID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Playlist{}).
		Where("user_id = ? AND source_id = ?", userID, sourceID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count playlists for user %d source %d: %w", userID, sourceID, err)
	}
	return count, nil
}
