package importer

import (
	"context"
	"time"

	"github.com/muntasir-dev/MusicStream/core/github"
	"github.com/muntasir-dev/MusicStream/logger"
	"github.com/muntasir-dev/MusicStream/model"
)

// RefreshSource re-scans an already-imported source and imports only the
// playlists whose folder path the user does not have yet. Reconciliation is
// append-only: existing playlists and songs are never mutated or deleted.
// The source's last synced marker is touched on every successful refresh,
// including one with an empty delta; a scanner failure leaves it unmodified.
func (im *Importer) RefreshSource(ctx context.Context, source *model.Source, userID int64, existing []*model.Playlist) (*RefreshReport, error) {
	owner, repo, err := github.ParseRepoURL(source.LocationURI)
	if err != nil {
		return nil, err
	}

	catalog, err := im.scanner.Scan(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.FolderPath] = true
	}

	report := &RefreshReport{SourceID: source.ID}
	for _, candidate := range catalog.Playlists {
		if known[candidate.Path] {
			continue // Already imported, left untouched
		}
		im.importCandidate(ctx, source, userID, owner, repo, candidate, reportCounters{
			playlists: &report.PlaylistsCreated,
			songs:     &report.SongsCreated,
			skipped:   &report.SongsSkipped,
			errors:    &report.PerItemErrors,
		})
	}

	if err := im.sources.TouchLastSynced(ctx, source.ID, time.Now()); err != nil {
		logger.Warn("Failed to update last synced marker after refresh",
			logger.Int64("sourceId", source.ID), logger.ErrorField(err))
	}

	logger.Info("Refresh completed",
		logger.String("location", source.LocationURI),
		logger.Int64("userId", userID),
		logger.Int("newPlaylists", report.PlaylistsCreated),
		logger.Int("newSongs", report.SongsCreated))
	return report, nil
}
