package importer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/muntasir-dev/MusicStream/core/github"
	"github.com/muntasir-dev/MusicStream/model"

	"gorm.io/gorm"
)

// fakeScanner returns a fixed catalog or error.
type fakeScanner struct {
	catalog *github.Catalog
	err     error
	calls   int
}

func (f *fakeScanner) Scan(ctx context.Context, owner, repo string) (*github.Catalog, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

// fakeSourceRepo is an in-memory SourceRepository enforcing the location
// URI uniqueness constraint the way the database would.
type fakeSourceRepo struct {
	mu     sync.Mutex
	nextID int64
	byURI  map[string]*model.Source

	// When set, the next CreateSource call inserts winner's row first and
	// reports a duplicate-key conflict, simulating a lost creation race.
	raceWinner *model.Source

	createErr error
}

func newFakeSourceRepo() *fakeSourceRepo {
	return &fakeSourceRepo{byURI: make(map[string]*model.Source)}
}

func (f *fakeSourceRepo) CreateSource(ctx context.Context, source *model.Source) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if f.raceWinner != nil {
		winner := f.raceWinner
		f.raceWinner = nil
		f.nextID++
		winner.ID = f.nextID
		f.byURI[winner.LocationURI] = winner
		return gorm.ErrDuplicatedKey
	}
	if _, exists := f.byURI[source.LocationURI]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	source.ID = f.nextID
	copied := *source
	f.byURI[source.LocationURI] = &copied
	return nil
}

func (f *fakeSourceRepo) GetSourceByID(ctx context.Context, id int64) (*model.Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byURI {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSourceRepo) GetSourceByLocationURI(ctx context.Context, locationURI string) (*model.Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byURI[locationURI]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSourceRepo) ListSourcesByUser(ctx context.Context, userID int64) ([]*model.Source, error) {
	return nil, nil
}

func (f *fakeSourceRepo) TouchLastSynced(ctx context.Context, id int64, syncedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byURI {
		if s.ID == id {
			s.LastSyncedAt = syncedAt
			return nil
		}
	}
	return errors.New("source not found")
}

func (f *fakeSourceRepo) lastSynced(id int64) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byURI {
		if s.ID == id {
			return s.LastSyncedAt
		}
	}
	return time.Time{}
}

// fakePlaylistRepo is an in-memory PlaylistRepository.
type fakePlaylistRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []*model.Playlist

	// Folder paths whose creation fails with a transient error.
	failFolders map[string]bool
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{failFolders: make(map[string]bool)}
}

func (f *fakePlaylistRepo) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFolders[playlist.FolderPath] {
		return errors.New("simulated storage error")
	}
	for _, row := range f.rows {
		if row.UserID == playlist.UserID && row.SourceID == playlist.SourceID && row.FolderPath == playlist.FolderPath {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	playlist.ID = f.nextID
	copied := *playlist
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakePlaylistRepo) GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePlaylistRepo) ListPlaylistsByUser(ctx context.Context, userID int64) ([]*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Playlist
	for _, row := range f.rows {
		if row.UserID == userID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakePlaylistRepo) ListPlaylistsByUserAndSource(ctx context.Context, userID, sourceID int64) ([]*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Playlist
	for _, row := range f.rows {
		if row.UserID == userID && row.SourceID == sourceID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakePlaylistRepo) CountPlaylistsByUserAndSource(ctx context.Context, userID, sourceID int64) (int64, error) {
	rows, _ := f.ListPlaylistsByUserAndSource(ctx, userID, sourceID)
	return int64(len(rows)), nil
}

// fakeSongRepo is an in-memory SongRepository enforcing unique link
// uniqueness.
type fakeSongRepo struct {
	mu     sync.Mutex
	nextID int64
	byLink map[string]*model.Song
}

func newFakeSongRepo() *fakeSongRepo {
	return &fakeSongRepo{byLink: make(map[string]*model.Song)}
}

func (f *fakeSongRepo) CreateSong(ctx context.Context, song *model.Song) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byLink[song.UniqueLink]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	song.ID = f.nextID
	copied := *song
	f.byLink[song.UniqueLink] = &copied
	return nil
}

func (f *fakeSongRepo) GetSongByID(ctx context.Context, id int64) (*model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byLink {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSongRepo) GetSongByUniqueLink(ctx context.Context, uniqueLink string) (*model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byLink[uniqueLink]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSongRepo) ListSongsByPlaylist(ctx context.Context, playlistID int64) ([]*model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Song
	for _, s := range f.byLink {
		if s.PlaylistID == playlistID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSongRepo) UpdateSongDuration(ctx context.Context, id int64, durationSeconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byLink {
		if s.ID == id {
			s.DurationSeconds = durationSeconds
			return nil
		}
	}
	return errors.New("song not found")
}

// testCatalog builds a two-playlist catalog for owner/repo alice/mymusic.
func testCatalog() *github.Catalog {
	return &github.Catalog{
		Owner: "alice",
		Repo:  "mymusic",
		Playlists: []github.PlaylistCandidate{
			{
				Name: "Rock Hits",
				Path: "Rock_Hits",
				Songs: []github.SongCandidate{
					{Name: "Song One", Path: "Rock_Hits/song_one.mp3", DownloadURL: "https://raw.example.com/Rock_Hits/song_one.mp3", SizeBytes: 1000},
					{Name: "Song Two", Path: "Rock_Hits/Song_Two.FLAC", DownloadURL: "https://raw.example.com/Rock_Hits/Song_Two.FLAC", SizeBytes: 2000},
				},
			},
			{
				Name: "Chill",
				Path: "chill",
				Songs: []github.SongCandidate{
					{Name: "Waves", Path: "chill/waves.ogg", DownloadURL: "https://raw.example.com/chill/waves.ogg", SizeBytes: 500},
				},
			},
		},
	}
}

// newTestImporter wires an Importer over fresh fakes with no bulk delay.
func newTestImporter(scanner CatalogScanner) (*Importer, *fakeSourceRepo, *fakePlaylistRepo, *fakeSongRepo) {
	sources := newFakeSourceRepo()
	playlists := newFakePlaylistRepo()
	songs := newFakeSongRepo()
	im := New(scanner, sources, playlists, songs, nil, 0)
	return im, sources, playlists, songs
}
