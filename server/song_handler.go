package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/muntasir-dev/MusicStream/logger"
	"github.com/muntasir-dev/MusicStream/model"

	"github.com/gorilla/mux"
)

// UpdateSongDurationHandler records the true media duration reported by the
// player once it has loaded the file. Import leaves durations at the unknown
// sentinel.
func (h *APIHandler) UpdateSongDurationHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	songID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	var req struct {
		DurationSeconds float64 `json:"durationSeconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DurationSeconds <= 0 {
		respondError(w, http.StatusBadRequest, "durationSeconds must be positive")
		return
	}

	song, err := h.songs.GetSongByID(r.Context(), songID)
	if err != nil {
		logger.Error("Failed to load song", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "Song not found")
		return
	}

	// Only the playlist owner's player reports durations.
	playlist, err := h.playlists.GetPlaylistByID(r.Context(), song.PlaylistID)
	if err != nil {
		logger.Error("Failed to load playlist for song", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if playlist == nil || playlist.UserID != userID {
		respondError(w, http.StatusForbidden, "Song does not belong to this user")
		return
	}

	if err := h.songs.UpdateSongDuration(r.Context(), songID, req.DurationSeconds); err != nil {
		logger.Error("Failed to update song duration", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"id": songID, "durationSeconds": req.DurationSeconds})
}

// AddFavoriteHandler marks a song as a favourite of the requesting user.
func (h *APIHandler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		SongID int64 `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID <= 0 {
		respondError(w, http.StatusBadRequest, "songId is required")
		return
	}

	song, err := h.songs.GetSongByID(r.Context(), req.SongID)
	if err != nil {
		logger.Error("Failed to load song", logger.Int64("songId", req.SongID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "Song not found")
		return
	}

	if err := h.favorites.AddFavorite(r.Context(), &model.Favorite{UserID: userID, SongID: req.SongID}); err != nil {
		logger.Error("Failed to add favorite", logger.Int64("songId", req.SongID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"songId": req.SongID})
}

// RemoveFavoriteHandler unmarks a favourite song.
func (h *APIHandler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	songID, err := strconv.ParseInt(mux.Vars(r)["songId"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	if err := h.favorites.RemoveFavorite(r.Context(), userID, songID); err != nil {
		logger.Error("Failed to remove favorite", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"songId": songID})
}

// ListFavoritesHandler returns the favourite songs of the requesting user.
func (h *APIHandler) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	songs, err := h.favorites.ListFavoriteSongsByUser(r.Context(), userID)
	if err != nil {
		logger.Error("Failed to list favorites", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, songs)
}
