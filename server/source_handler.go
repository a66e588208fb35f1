package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/muntasir-dev/MusicStream/cache"
	"github.com/muntasir-dev/MusicStream/core/github"
	"github.com/muntasir-dev/MusicStream/core/importer"
	"github.com/muntasir-dev/MusicStream/core/liberr"
	"github.com/muntasir-dev/MusicStream/logger"

	"github.com/gorilla/mux"
)

// ImportSourceRequest represents the import request body.
type ImportSourceRequest struct {
	LocationURI string `json:"locationUri"`
	Name        string `json:"name"`
}

// BulkImportRequest represents the bulk import request body. Exactly one of
// ListURL and ListBody should be set.
type BulkImportRequest struct {
	ListURL  string `json:"listUrl"`
	ListBody string `json:"listBody"`
}

// importStatus maps an import engine error onto an HTTP status code.
func importStatus(err error) int {
	switch {
	case errors.Is(err, liberr.ErrInvalidLocationFormat):
		return http.StatusBadRequest
	case errors.Is(err, liberr.ErrNoPlayableContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, liberr.ErrAlreadyImported):
		return http.StatusConflict
	case errors.Is(err, liberr.ErrRemoteFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ListSourcesHandler returns the sources the requesting user has imported.
func (h *APIHandler) ListSourcesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sources, err := h.sources.ListSourcesByUser(r.Context(), userID)
	if err != nil {
		logger.Error("Failed to list sources", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, sources)
}

// ImportSourceHandler imports one repository into the user's library.
func (h *APIHandler) ImportSourceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ImportSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.LocationURI) == "" {
		respondError(w, http.StatusBadRequest, "locationUri is required")
		return
	}

	report, err := h.importer.ImportSource(r.Context(), strings.TrimSpace(req.LocationURI), req.Name, userID)
	if err != nil {
		logger.Warn("Import failed",
			logger.String("location", req.LocationURI),
			logger.Int64("userId", userID),
			logger.ErrorField(err))
		respondError(w, importStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, report)
}

// RefreshSourceHandler re-scans an imported source and appends newly
// discovered playlists.
func (h *APIHandler) RefreshSourceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sourceID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid source ID")
		return
	}

	source, err := h.sources.GetSourceByID(r.Context(), sourceID)
	if err != nil {
		logger.Error("Failed to load source", logger.Int64("sourceId", sourceID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if source == nil {
		respondError(w, http.StatusNotFound, "Source not found")
		return
	}

	existing, err := h.playlists.ListPlaylistsByUserAndSource(r.Context(), userID, sourceID)
	if err != nil {
		logger.Error("Failed to load existing playlists", logger.Int64("sourceId", sourceID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(existing) == 0 {
		respondError(w, http.StatusNotFound, "Source not imported by this user")
		return
	}

	report, err := h.importer.RefreshSource(r.Context(), source, userID, existing)
	if err != nil {
		logger.Warn("Refresh failed",
			logger.String("location", source.LocationURI),
			logger.Int64("userId", userID),
			logger.ErrorField(err))
		respondError(w, importStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// PreviewSourceHandler scans a repository without writing anything, so the
// UI can show what an import would bring in. Results are served from the
// short-lived catalog cache when available.
func (h *APIHandler) PreviewSourceHandler(w http.ResponseWriter, r *http.Request) {
	locationURI := strings.TrimSpace(r.URL.Query().Get("url"))
	if locationURI == "" {
		respondError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	owner, repo, err := github.ParseRepoURL(locationURI)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	catalog, err := cache.GetCatalog(r.Context(), owner, repo)
	if err != nil {
		logger.Warn("Catalog cache read failed", logger.ErrorField(err))
	}
	if catalog == nil {
		catalog, err = h.scanner.Scan(r.Context(), owner, repo)
		if err != nil {
			respondError(w, importStatus(err), err.Error())
			return
		}
		if err := cache.SetCatalog(r.Context(), catalog); err != nil {
			logger.Warn("Catalog cache write failed", logger.ErrorField(err))
		}
	}
	respondJSON(w, http.StatusOK, catalog)
}

// BulkImportHandler imports every repository URL found in the submitted
// list. The list is either inline in the request or fetched from a plain
// text URL. Progress events stream to the user's websocket subscribers.
func (h *APIHandler) BulkImportHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	body := req.ListBody
	if body == "" && req.ListURL != "" {
		body, err = fetchSourceList(r, req.ListURL)
		if err != nil {
			logger.Warn("Failed to fetch source list", logger.String("listUrl", req.ListURL), logger.ErrorField(err))
			respondError(w, http.StatusBadGateway, "Failed to fetch source list")
			return
		}
	}
	if strings.TrimSpace(body) == "" {
		respondError(w, http.StatusBadRequest, "listBody or listUrl is required")
		return
	}

	report, err := h.importer.BulkImport(r.Context(), body, userID, h.progress.Listener())
	if err != nil {
		logger.Error("Bulk import failed", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// fetchSourceList downloads a plain-text list of repository URLs.
func fetchSourceList(r *http.Request, listURL string) (string, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, listURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.New("source list returned status " + strconv.Itoa(resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ResolveTrackLinkHandler resolves a shareable track link to its song row.
func (h *APIHandler) ResolveTrackLinkHandler(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	if link == "" {
		respondError(w, http.StatusBadRequest, "link query parameter is required")
		return
	}
	if _, err := importer.ParseUniqueLink(link); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	song, err := h.songs.GetSongByUniqueLink(r.Context(), link)
	if err != nil {
		logger.Error("Failed to resolve track link", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}
	respondJSON(w, http.StatusOK, song)
}
