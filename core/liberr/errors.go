// Package liberr defines the error taxonomy of the library import engine.
// The first three are fatal for the operation that raises them and guarantee
// no writes happened; the rest degrade to partial success.
package liberr

import "errors"

var (
	// ErrInvalidLocationFormat reports a repository URL that does not match
	// the .../<owner>/<repo>[.git] pattern.
	ErrInvalidLocationFormat = errors.New("invalid repository location format")

	// ErrNoPlayableContent reports a scan that found no folder with at least
	// one supported audio file.
	ErrNoPlayableContent = errors.New("no playable content found")

	// ErrAlreadyImported reports an import of a source the user already has
	// playlists for.
	ErrAlreadyImported = errors.New("source already imported by this user")

	// ErrRemoteFetchFailed reports a failed remote listing request. Fatal
	// only when the root listing is affected; subdirectory failures are
	// skipped with a warning.
	ErrRemoteFetchFailed = errors.New("remote fetch failed")
)
