package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/muntasir-dev/MusicStream/core/liberr"
	"github.com/muntasir-dev/MusicStream/model"
)

const testRepoURL = "https://github.com/alice/mymusic"

func TestImportSourceCreatesLibrary(t *testing.T) {
	im, sources, playlists, songs := newTestImporter(&fakeScanner{catalog: testCatalog()})

	report, err := im.ImportSource(context.Background(), testRepoURL, "My Music", 1)
	if err != nil {
		t.Fatalf("ImportSource returned error: %v", err)
	}

	if report.PlaylistsCreated != 2 {
		t.Errorf("PlaylistsCreated = %d, want 2", report.PlaylistsCreated)
	}
	if report.SongsCreated != 3 {
		t.Errorf("SongsCreated = %d, want 3", report.SongsCreated)
	}
	if report.SongsSkipped != 0 || len(report.PerItemErrors) != 0 {
		t.Errorf("unexpected skips or errors: %+v", report)
	}

	source, _ := sources.GetSourceByLocationURI(context.Background(), testRepoURL)
	if source == nil {
		t.Fatal("source row was not created")
	}
	if source.Name != "My Music" || source.CreatedBy != 1 || !source.IsActive {
		t.Errorf("unexpected source row: %+v", source)
	}
	if sources.lastSynced(source.ID).IsZero() {
		t.Error("last_synced_at was not set")
	}

	rows, _ := playlists.ListPlaylistsByUserAndSource(context.Background(), 1, source.ID)
	if len(rows) != 2 {
		t.Errorf("expected 2 playlists, got %d", len(rows))
	}

	song, _ := songs.GetSongByUniqueLink(context.Background(), DeriveUniqueLink("alice", "mymusic", "Rock_Hits/song_one.mp3"))
	if song == nil {
		t.Fatal("expected song row for Rock_Hits/song_one.mp3")
	}
	if song.DurationSeconds != -1 {
		t.Errorf("new song duration = %v, want the unknown sentinel -1", song.DurationSeconds)
	}
	if song.Title != "Song One" {
		t.Errorf("song title = %q, want %q", song.Title, "Song One")
	}
}

func TestImportSourceIdempotenceGuard(t *testing.T) {
	im, _, playlists, songs := newTestImporter(&fakeScanner{catalog: testCatalog()})

	if _, err := im.ImportSource(context.Background(), testRepoURL, "", 1); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	playlistCount := len(playlists.rows)
	songCount := len(songs.byLink)

	_, err := im.ImportSource(context.Background(), testRepoURL, "", 1)
	if !errors.Is(err, liberr.ErrAlreadyImported) {
		t.Fatalf("second import error = %v, want ErrAlreadyImported", err)
	}
	if len(playlists.rows) != playlistCount || len(songs.byLink) != songCount {
		t.Error("second import must not create additional rows")
	}
}

func TestImportSourceDedupAcrossUsers(t *testing.T) {
	im, sources, playlists, songs := newTestImporter(&fakeScanner{catalog: testCatalog()})

	if _, err := im.ImportSource(context.Background(), testRepoURL, "", 1); err != nil {
		t.Fatalf("user 1 import failed: %v", err)
	}
	report, err := im.ImportSource(context.Background(), testRepoURL, "", 2)
	if err != nil {
		t.Fatalf("user 2 import failed: %v", err)
	}

	// One shared source row.
	if len(sources.byURI) != 1 {
		t.Errorf("expected exactly 1 source row, got %d", len(sources.byURI))
	}

	// User 2 gets their own playlists but no duplicate song rows: all three
	// songs already exist under user 1's playlists and stay there.
	if report.PlaylistsCreated != 2 {
		t.Errorf("user 2 PlaylistsCreated = %d, want 2", report.PlaylistsCreated)
	}
	if report.SongsCreated != 0 {
		t.Errorf("user 2 SongsCreated = %d, want 0", report.SongsCreated)
	}
	if report.SongsSkipped != 3 {
		t.Errorf("user 2 SongsSkipped = %d, want 3", report.SongsSkipped)
	}
	if len(playlists.rows) != 4 {
		t.Errorf("expected 4 playlist rows across both users, got %d", len(playlists.rows))
	}
	if len(songs.byLink) != 3 {
		t.Errorf("expected one song row per unique link, got %d", len(songs.byLink))
	}
}

func TestImportSourceInvalidLocation(t *testing.T) {
	im, sources, _, _ := newTestImporter(&fakeScanner{catalog: testCatalog()})

	_, err := im.ImportSource(context.Background(), "not-a-repository", "", 1)
	if !errors.Is(err, liberr.ErrInvalidLocationFormat) {
		t.Fatalf("error = %v, want ErrInvalidLocationFormat", err)
	}
	if len(sources.byURI) != 0 {
		t.Error("no source row may be created for a malformed location")
	}
}

func TestImportSourceNoPlayableContent(t *testing.T) {
	im, _, playlists, songs := newTestImporter(&fakeScanner{err: liberr.ErrNoPlayableContent})

	_, err := im.ImportSource(context.Background(), testRepoURL, "", 1)
	if !errors.Is(err, liberr.ErrNoPlayableContent) {
		t.Fatalf("error = %v, want ErrNoPlayableContent", err)
	}
	if len(playlists.rows) != 0 || len(songs.byLink) != 0 {
		t.Error("a failed scan must not create playlist or song rows")
	}
}

func TestImportSourcePartialPlaylistFailure(t *testing.T) {
	scanner := &fakeScanner{catalog: testCatalog()}
	im, _, playlists, _ := newTestImporter(scanner)
	playlists.failFolders["Rock_Hits"] = true

	report, err := im.ImportSource(context.Background(), testRepoURL, "", 1)
	if err != nil {
		t.Fatalf("partial failure must not abort the import: %v", err)
	}

	if report.PlaylistsCreated != 1 {
		t.Errorf("PlaylistsCreated = %d, want 1", report.PlaylistsCreated)
	}
	if report.SongsCreated != 1 {
		t.Errorf("SongsCreated = %d, want 1 (only the surviving playlist's song)", report.SongsCreated)
	}
	if len(report.PerItemErrors) != 1 {
		t.Fatalf("expected 1 per-item error, got %d", len(report.PerItemErrors))
	}
	if report.PerItemErrors[0].Kind != "playlist" || report.PerItemErrors[0].Path != "Rock_Hits" {
		t.Errorf("unexpected per-item error: %+v", report.PerItemErrors[0])
	}
}

func TestImportSourceRecoversLostSourceRace(t *testing.T) {
	im, sources, _, _ := newTestImporter(&fakeScanner{catalog: testCatalog()})
	sources.raceWinner = &model.Source{
		Name:        "alice/mymusic",
		LocationURI: testRepoURL,
		CreatedBy:   1,
		IsActive:    true,
	}

	report, err := im.ImportSource(context.Background(), testRepoURL, "", 2)
	if err != nil {
		t.Fatalf("lost creation race must be recovered: %v", err)
	}
	if len(sources.byURI) != 1 {
		t.Errorf("expected exactly 1 source row after the race, got %d", len(sources.byURI))
	}
	source, _ := sources.GetSourceByLocationURI(context.Background(), testRepoURL)
	if source.CreatedBy != 1 {
		t.Errorf("the race winner's row must be reused, got createdBy = %d", source.CreatedBy)
	}
	if report.SourceID != source.ID {
		t.Errorf("report.SourceID = %d, want the shared source %d", report.SourceID, source.ID)
	}
}
