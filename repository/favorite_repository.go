package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/muntasir-dev/MusicStream/model"

	"gorm.io/gorm"
)

// FavoriteRepository defines the interface for favourite data operations.
type FavoriteRepository interface {
	AddFavorite(ctx context.Context, favorite *model.Favorite) error
	RemoveFavorite(ctx context.Context, userID, songID int64) error
	ListFavoriteSongsByUser(ctx context.Context, userID int64) ([]*model.Song, error)
}

// gormFavoriteRepository implements FavoriteRepository on GORM.
type gormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new gormFavoriteRepository.
func NewGormFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &gormFavoriteRepository{db: db}
}

// AddFavorite marks a song as favourite. Favouriting twice is a no-op.
func (r *gormFavoriteRepository) AddFavorite(ctx context.Context, favorite *model.Favorite) error {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil // Already a favourite
		}
		return fmt.Errorf("failed to add favorite for user %d song %d: %w", favorite.UserID, favorite.SongID, err)
	}
	return nil
}

// RemoveFavorite unmarks a song.
func (r *gormFavoriteRepository) RemoveFavorite(ctx context.Context, userID, songID int64) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&model.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite for user %d song %d: %w", userID, songID, err)
	}
	return nil
}

// ListFavoriteSongsByUser retrieves the favourite songs of one user.
func (r *gormFavoriteRepository) ListFavoriteSongsByUser(ctx context.Context, userID int64) ([]*model.Song, error) {
	var songs []*model.Song
	err := r.db.WithContext(ctx).
		Model(&model.Song{}).
		Joins("JOIN favorites ON favorites.song_id = songs.id").
		Where("favorites.user_id = ?", userID).
		Order("songs.title").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite songs for user %d: %w", userID, err)
	}
	return songs, nil
}
