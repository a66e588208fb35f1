package importer

// ItemError records one skipped playlist or song during an import. The
// operation as a whole still succeeds; callers surface the list alongside
// the counters.
type ItemError struct {
	Kind  string `json:"kind"` // "playlist" or "song"
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ImportReport summarizes one import operation.
type ImportReport struct {
	SourceID         int64       `json:"sourceId"`
	PlaylistsCreated int         `json:"playlistsCreated"`
	SongsCreated     int         `json:"songsCreated"`
	SongsSkipped     int         `json:"songsSkipped"` // Already owned by another playlist
	PerItemErrors    []ItemError `json:"perItemErrors,omitempty"`
}

// RefreshReport summarizes one refresh operation. A refresh that found
// nothing new is a valid, successful outcome.
type RefreshReport struct {
	SourceID         int64       `json:"sourceId"`
	PlaylistsCreated int         `json:"playlistsCreated"`
	SongsCreated     int         `json:"songsCreated"`
	SongsSkipped     int         `json:"songsSkipped"`
	PerItemErrors    []ItemError `json:"perItemErrors,omitempty"`
}

// BulkItem is the independent outcome of one repository in a bulk import.
type BulkItem struct {
	LocationURI string        `json:"locationUri"`
	Report      *ImportReport `json:"report,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// BulkReport summarizes one bulk import batch.
type BulkReport struct {
	BatchID string     `json:"batchId"`
	Items   []BulkItem `json:"items"`
}

// ProgressEvent is emitted while a bulk import advances through its batch.
type ProgressEvent struct {
	BatchID     string `json:"batchId"`
	UserID      int64  `json:"userId"`
	Index       int    `json:"index"` // 1-based position in the batch
	Total       int    `json:"total"`
	LocationURI string `json:"locationUri"`
	Phase       string `json:"phase"` // "importing", "done", "failed"
	Error       string `json:"error,omitempty"`
}

// ProgressListener receives bulk import progress events. Listeners must not
// block; delivery happens on the importing goroutine.
type ProgressListener func(ProgressEvent)
