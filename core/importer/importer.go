package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muntasir-dev/MusicStream/core/github"
	"github.com/muntasir-dev/MusicStream/core/liberr"
	"github.com/muntasir-dev/MusicStream/logger"
	"github.com/muntasir-dev/MusicStream/model"
	"github.com/muntasir-dev/MusicStream/repository"

	"gorm.io/gorm"
)

// CatalogScanner produces a Catalog for a repository. Satisfied by
// *github.Scanner.
type CatalogScanner interface {
	Scan(ctx context.Context, owner, repo string) (*github.Catalog, error)
}

// CoverMirror copies a remote cover image into local object storage and
// returns the URL it is served under. Implementations may be nil-safe
// no-ops when storage is not configured.
type CoverMirror interface {
	MirrorCoverArt(ctx context.Context, key, sourceURL string) (string, error)
}

// Importer drives import, refresh and bulk operations against the scanner
// and the persistence layer. It holds no locks; uniqueness constraints on
// sources.location_uri and songs.unique_link are the concurrency safety net.
type Importer struct {
	scanner   CatalogScanner
	sources   repository.SourceRepository
	playlists repository.PlaylistRepository
	songs     repository.SongRepository
	mirror    CoverMirror // Optional

	// Minimum spacing between repositories during a bulk import.
	bulkDelay time.Duration
}

// New creates an Importer. mirror may be nil when cover mirroring is
// disabled.
func New(
	scanner CatalogScanner,
	sources repository.SourceRepository,
	playlists repository.PlaylistRepository,
	songs repository.SongRepository,
	mirror CoverMirror,
	bulkDelay time.Duration,
) *Importer {
	return &Importer{
		scanner:   scanner,
		sources:   sources,
		playlists: playlists,
		songs:     songs,
		mirror:    mirror,
		bulkDelay: bulkDelay,
	}
}

// ImportSource imports one repository into the requesting user's library.
//
// Fatal failures (ErrInvalidLocationFormat, ErrNoPlayableContent,
// ErrAlreadyImported, a root listing failure, or a failure to resolve the
// source row) abort with no visible writes. Per-item playlist and song
// failures are recorded in the report and do not abort the operation.
func (im *Importer) ImportSource(ctx context.Context, locationURI, displayName string, userID int64) (*ImportReport, error) {
	owner, repo, err := github.ParseRepoURL(locationURI)
	if err != nil {
		return nil, err
	}

	source, err := im.resolveSource(ctx, locationURI, displayName, owner, repo, userID)
	if err != nil {
		return nil, err
	}

	count, err := im.playlists.CountPlaylistsByUserAndSource(ctx, userID, source.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", liberr.ErrAlreadyImported, locationURI)
	}

	catalog, err := im.scanner.Scan(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{SourceID: source.ID}
	for _, candidate := range catalog.Playlists {
		im.importCandidate(ctx, source, userID, owner, repo, candidate, reportCounters{
			playlists: &report.PlaylistsCreated,
			songs:     &report.SongsCreated,
			skipped:   &report.SongsSkipped,
			errors:    &report.PerItemErrors,
		})
	}

	if err := im.sources.TouchLastSynced(ctx, source.ID, time.Now()); err != nil {
		logger.Warn("Failed to update last synced marker after import",
			logger.Int64("sourceId", source.ID), logger.ErrorField(err))
	}

	logger.Info("Import completed",
		logger.String("location", locationURI),
		logger.Int64("userId", userID),
		logger.Int("playlists", report.PlaylistsCreated),
		logger.Int("songs", report.SongsCreated),
		logger.Int("skipped", report.SongsSkipped),
		logger.Int("itemErrors", len(report.PerItemErrors)))
	return report, nil
}

// resolveSource looks up the shared source row by location URI, creating it
// on first import. A lost creation race is recovered by re-resolving the
// winner's row.
func (im *Importer) resolveSource(ctx context.Context, locationURI, displayName, owner, repo string, userID int64) (*model.Source, error) {
	source, err := im.sources.GetSourceByLocationURI(ctx, locationURI)
	if err != nil {
		return nil, err
	}
	if source != nil {
		return source, nil
	}

	name := displayName
	if name == "" {
		name = owner + "/" + repo
	}
	source = &model.Source{
		Name:         name,
		LocationURI:  locationURI,
		CreatedBy:    userID,
		LastSyncedAt: time.Now(),
		IsActive:     true,
	}
	err = im.sources.CreateSource(ctx, source)
	if err == nil {
		return source, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// Another import of the same URI won the race; reuse its row.
	source, lookupErr := im.sources.GetSourceByLocationURI(ctx, locationURI)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if source == nil {
		return nil, fmt.Errorf("source %s vanished after duplicate-key conflict", locationURI)
	}
	return source, nil
}

// reportCounters bundles the mutable aggregation slots a candidate import
// writes into, so import and refresh share one code path.
type reportCounters struct {
	playlists *int
	songs     *int
	skipped   *int
	errors    *[]ItemError
}

// importCandidate persists one playlist candidate and its songs. Failures
// are recorded per item and never abort the surrounding operation.
func (im *Importer) importCandidate(ctx context.Context, source *model.Source, userID int64, owner, repo string, candidate github.PlaylistCandidate, out reportCounters) {
	playlist := &model.Playlist{
		UserID:     userID,
		SourceID:   source.ID,
		Name:       candidate.Name,
		FolderPath: candidate.Path,
	}
	if err := im.playlists.CreatePlaylist(ctx, playlist); err != nil {
		logger.Warn("Skipping playlist after failed create",
			logger.String("folder", candidate.Path), logger.ErrorField(err))
		*out.errors = append(*out.errors, ItemError{Kind: "playlist", Path: candidate.Path, Error: err.Error()})
		return
	}
	*out.playlists++

	coverURL := im.mirrorCover(ctx, owner, repo, candidate)

	for _, sc := range candidate.Songs {
		created, skipped, err := im.placeSong(ctx, playlist.ID, owner, repo, sc, coverURL)
		switch {
		case err != nil:
			logger.Warn("Skipping song after failed create",
				logger.String("path", sc.Path), logger.ErrorField(err))
			*out.errors = append(*out.errors, ItemError{Kind: "song", Path: sc.Path, Error: err.Error()})
		case created:
			*out.songs++
		case skipped:
			*out.skipped++
		}
	}
}

// placeSong applies the dedup policy for one discovered song. Policy: a song
// whose unique link already exists under another playlist stays where it is;
// the importing user's playlist does not receive a duplicate row.
func (im *Importer) placeSong(ctx context.Context, playlistID int64, owner, repo string, sc github.SongCandidate, coverURL string) (created, skipped bool, err error) {
	uniqueLink := DeriveUniqueLink(owner, repo, sc.Path)

	existing, err := im.songs.GetSongByUniqueLink(ctx, uniqueLink)
	if err != nil {
		return false, false, err
	}
	if existing == nil {
		song := &model.Song{
			PlaylistID:      playlistID,
			Title:           sc.Name,
			DurationSeconds: model.UnknownDuration,
			FileURI:         sc.DownloadURL,
			CoverArtURI:     coverURL,
			SizeBytes:       sc.SizeBytes,
			UniqueLink:      uniqueLink,
		}
		err = im.songs.CreateSong(ctx, song)
		if err == nil {
			return true, false, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, false, err
		}
		// A concurrent import created the row first; fall through to the
		// lookup-and-reuse path.
		existing, err = im.songs.GetSongByUniqueLink(ctx, uniqueLink)
		if err != nil {
			return false, false, err
		}
		if existing == nil {
			return false, false, fmt.Errorf("song %s vanished after duplicate-key conflict", uniqueLink)
		}
	}

	if existing.PlaylistID == playlistID {
		return false, false, nil // Already correctly placed
	}

	logger.Debug("Song already present in another playlist, leaving in place",
		logger.String("uniqueLink", uniqueLink),
		logger.Int64("ownerPlaylist", existing.PlaylistID))
	return false, true, nil
}

// mirrorCover copies the candidate's cover art into object storage,
// best-effort. On any failure the original remote URL is used.
func (im *Importer) mirrorCover(ctx context.Context, owner, repo string, candidate github.PlaylistCandidate) string {
	if candidate.CoverArtURL == "" {
		return ""
	}
	if im.mirror == nil {
		return candidate.CoverArtURL
	}
	key := fmt.Sprintf("covers/%s/%s/%s", owner, repo, candidate.Path)
	mirrored, err := im.mirror.MirrorCoverArt(ctx, key, candidate.CoverArtURL)
	if err != nil {
		logger.Warn("Cover art mirroring failed, keeping remote URL",
			logger.String("folder", candidate.Path), logger.ErrorField(err))
		return candidate.CoverArtURL
	}
	return mirrored
}
