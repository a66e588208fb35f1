package server

import (
	"net/http"
	"strconv"

	"github.com/muntasir-dev/MusicStream/logger"

	"github.com/gorilla/mux"
)

// ListPlaylistsHandler returns all playlists of the requesting user.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlists, err := h.playlists.ListPlaylistsByUser(r.Context(), userID)
	if err != nil {
		logger.Error("Failed to list playlists", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, playlists)
}

// ListPlaylistSongsHandler returns the songs of one playlist, sorted by
// title.
func (h *APIHandler) ListPlaylistSongsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	playlist, err := h.playlists.GetPlaylistByID(r.Context(), playlistID)
	if err != nil {
		logger.Error("Failed to load playlist", logger.Int64("playlistId", playlistID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if playlist == nil || playlist.UserID != userID {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	songs, err := h.songs.ListSongsByPlaylist(r.Context(), playlistID)
	if err != nil {
		logger.Error("Failed to list songs", logger.Int64("playlistId", playlistID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, songs)
}
