package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/muntasir-dev/MusicStream/config"
	"github.com/muntasir-dev/MusicStream/core/auth"
	"github.com/muntasir-dev/MusicStream/core/github"
	"github.com/muntasir-dev/MusicStream/core/importer"
	"github.com/muntasir-dev/MusicStream/repository"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	usernameKey contextKey = "username"
)

// APIHandler handles all API requests.
type APIHandler struct {
	importer  *importer.Importer
	scanner   *github.Scanner
	users     repository.UserRepository
	sources   repository.SourceRepository
	playlists repository.PlaylistRepository
	songs     repository.SongRepository
	favorites repository.FavoriteRepository
	progress  *ProgressHub
	cfg       *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	imp *importer.Importer,
	scanner *github.Scanner,
	users repository.UserRepository,
	sources repository.SourceRepository,
	playlists repository.PlaylistRepository,
	songs repository.SongRepository,
	favorites repository.FavoriteRepository,
	progress *ProgressHub,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		importer:  imp,
		scanner:   scanner,
		users:     users,
		sources:   sources,
		playlists: playlists,
		songs:     songs,
		favorites: favorites,
		progress:  progress,
		cfg:       cfg,
	}
}

// respondJSON writes a JSON response body with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes a JSON error body.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// AuthMiddleware checks for a valid JWT token and stores the user identity
// in the request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}
