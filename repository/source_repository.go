package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muntasir-dev/MusicStream/model"

	"gorm.io/gorm"
)

// SourceRepository defines the interface for source data operations. Sources
// are shared rows; the lookup key for dedup is the location URI.
type SourceRepository interface {
	CreateSource(ctx context.Context, source *model.Source) error
	GetSourceByID(ctx context.Context, id int64) (*model.Source, error)
	GetSourceByLocationURI(ctx context.Context, locationURI string) (*model.Source, error)
	ListSourcesByUser(ctx context.Context, userID int64) ([]*model.Source, error)
	TouchLastSynced(ctx context.Context, id int64, syncedAt time.Time) error
}

// gormSourceRepository implements SourceRepository on GORM.
type gormSourceRepository struct {
	db *gorm.DB
}

// NewGormSourceRepository creates a new gormSourceRepository.
func NewGormSourceRepository(db *gorm.DB) SourceRepository {
	return &gormSourceRepository{db: db}
}

// CreateSource inserts a new source. A concurrent import of the same
// location URI loses the race with gorm.ErrDuplicatedKey, which callers
// recover by re-resolving the existing row.
func (r *gormSourceRepository) CreateSource(ctx context.Context, source *model.Source) error {
	if err := r.db.WithContext(ctx).Create(source).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("failed to create source %s: %w", source.LocationURI, err)
	}
	return nil
}

// GetSourceByID retrieves a source by its ID.
func (r *gormSourceRepository) GetSourceByID(ctx context.Context, id int64) (*model.Source, error) {
	var source model.Source
	err := r.db.WithContext(ctx).First(&source, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Source not found
		}
		return nil, fmt.Errorf("failed to query source by ID %d: %w", id, err)
	}
	return &source, nil
}

// GetSourceByLocationURI retrieves a source by its exact location URI.
func (r *gormSourceRepository) GetSourceByLocationURI(ctx context.Context, locationURI string) (*model.Source, error) {
	var source model.Source
	err := r.db.WithContext(ctx).Where("location_uri = ?", locationURI).First(&source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Source not found
		}
		return nil, fmt.Errorf("failed to query source by location URI %s: %w", locationURI, err)
	}
	return &source, nil
}

// ListSourcesByUser retrieves the sources the given user has at least one
// playlist against.
func (r *gormSourceRepository) ListSourcesByUser(ctx context.Context, userID int64) ([]*model.Source, error) {
	var sources []*model.Source
	err := r.db.WithContext(ctx).
		Joins("JOIN playlists ON playlists.source_id = sources.id").
		Where("playlists.user_id = ?", userID).
		Distinct("sources.*").
		Find(&sources).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sources for user %d: %w", userID, err)
	}
	return sources, nil
}

// TouchLastSynced updates the last synced marker of a source.
func (r *gormSourceRepository) TouchLastSynced(ctx context.Context, id int64, syncedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.Source{}).
		Where("id = ?", id).
		Update("last_synced_at", syncedAt).Error
	if err != nil {
		return fmt.Errorf("failed to touch last_synced_at for source %d: %w", id, err)
	}
	return nil
}
