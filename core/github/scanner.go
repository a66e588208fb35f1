package github

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/muntasir-dev/MusicStream/core/liberr"
	"github.com/muntasir-dev/MusicStream/logger"
)

// audioExtensions is the supported audio set, matched case-insensitively
// against file name extensions.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".aac":  true,
	".ogg":  true,
	".m4a":  true,
	".wma":  true,
}

// imageExtensions are considered cover art candidates.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// coverNames are preferred cover art base names, checked before falling back
// to any image in the folder.
var coverNames = map[string]bool{
	"cover":  true,
	"folder": true,
	"front":  true,
}

// SongCandidate is one qualifying audio file discovered during a scan.
type SongCandidate struct {
	Name        string `json:"name"` // Display name derived from the file name
	Path        string `json:"path"` // Repository-relative path, identity input
	DownloadURL string `json:"downloadUrl"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// PlaylistCandidate is a scanned folder containing at least one qualifying
// audio file, not yet persisted.
type PlaylistCandidate struct {
	Name        string          `json:"name"` // Display name derived from the folder name
	Path        string          `json:"path"` // Repository-relative folder path
	CoverArtURL string          `json:"coverArtUrl,omitempty"`
	Songs       []SongCandidate `json:"songs"`
}

// Catalog is the in-memory result of scanning one repository.
type Catalog struct {
	Owner     string              `json:"owner"`
	Repo      string              `json:"repo"`
	Playlists []PlaylistCandidate `json:"playlists"`
}

// scanWorkers bounds the concurrent subdirectory listings per scan.
const scanWorkers = 4

// Scanner walks a repository's two-level folder tree and produces a Catalog
// of playlist candidates.
type Scanner struct {
	client *Client
}

// NewScanner creates a Scanner over the given contents API client.
func NewScanner(client *Client) *Scanner {
	return &Scanner{client: client}
}

// Scan fetches the root listing of owner/repo and the listing of every root
// directory, exactly two levels deep. Directories whose listing fails are
// skipped with a warning so siblings still scan. Returns ErrRemoteFetchFailed
// when the root listing itself fails and ErrNoPlayableContent when no
// directory yields a qualifying audio file.
func (s *Scanner) Scan(ctx context.Context, owner, repo string) (*Catalog, error) {
	root, err := s.client.ListContents(ctx, owner, repo, "")
	if err != nil {
		return nil, fmt.Errorf("scanning %s/%s root: %w", owner, repo, err)
	}

	var dirs []Entry
	for _, entry := range root {
		if entry.Type == "dir" {
			dirs = append(dirs, entry)
		}
	}

	catalog := &Catalog{Owner: owner, Repo: repo}

	// Subdirectory listings are independent; fetch them with a small worker
	// pool. Playlist ordering in the catalog is not significant.
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	jobs := make(chan Entry)

	for i := 0; i < scanWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for dir := range jobs {
				candidate, err := s.scanDir(ctx, owner, repo, dir)
				if err != nil {
					logger.Warn("Skipping directory after failed listing",
						logger.String("owner", owner),
						logger.String("repo", repo),
						logger.String("dir", dir.Path),
						logger.ErrorField(err))
					continue
				}
				if candidate == nil {
					continue // No qualifying audio files
				}
				mu.Lock()
				catalog.Playlists = append(catalog.Playlists, *candidate)
				mu.Unlock()
			}
		}()
	}

	for _, dir := range dirs {
		jobs <- dir
	}
	close(jobs)
	wg.Wait()

	if len(catalog.Playlists) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", liberr.ErrNoPlayableContent, owner, repo)
	}
	return catalog, nil
}

// scanDir lists one root directory and builds its playlist candidate.
// Returns (nil, nil) when the directory holds no qualifying audio file.
func (s *Scanner) scanDir(ctx context.Context, owner, repo string, dir Entry) (*PlaylistCandidate, error) {
	entries, err := s.client.ListContents(ctx, owner, repo, dir.Path)
	if err != nil {
		return nil, err
	}

	candidate := &PlaylistCandidate{
		Name: HumanizeName(dir.Name),
		Path: dir.Path,
	}
	var fallbackCover string

	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name))
		switch {
		case audioExtensions[ext]:
			candidate.Songs = append(candidate.Songs, SongCandidate{
				Name:        HumanizeName(entry.Name),
				Path:        entry.Path,
				DownloadURL: entry.DownloadURL,
				SizeBytes:   entry.Size,
			})
		case imageExtensions[ext]:
			base := strings.ToLower(strings.TrimSuffix(entry.Name, path.Ext(entry.Name)))
			if coverNames[base] && candidate.CoverArtURL == "" {
				candidate.CoverArtURL = entry.DownloadURL
			} else if fallbackCover == "" {
				fallbackCover = entry.DownloadURL
			}
		}
	}

	if len(candidate.Songs) == 0 {
		return nil, nil
	}
	if candidate.CoverArtURL == "" {
		candidate.CoverArtURL = fallbackCover
	}
	return candidate, nil
}

// HumanizeName turns a file or folder name into a display name: the
// extension is stripped, underscores and hyphens become spaces, and each
// word is title-cased.
func HumanizeName(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)

	words := strings.Fields(base)
	for i, word := range words {
		runes := []rune(word)
		first := strings.ToUpper(string(runes[0]))
		rest := strings.ToLower(string(runes[1:]))
		words[i] = first + rest
	}
	return strings.Join(words, " ")
}
