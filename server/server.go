package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muntasir-dev/MusicStream/config"
	"github.com/muntasir-dev/MusicStream/core/auth"
	"github.com/muntasir-dev/MusicStream/core/github"
	"github.com/muntasir-dev/MusicStream/core/importer"
	"github.com/muntasir-dev/MusicStream/db"
	"github.com/muntasir-dev/MusicStream/logger"
	"github.com/muntasir-dev/MusicStream/model"
	"github.com/muntasir-dev/MusicStream/repository"
	"github.com/muntasir-dev/MusicStream/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutputPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	auth.SetSecret(cfg.JWTSecret)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database.
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	// Initialize database schema.
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if err := db.AutoMigrateModels(&model.Source{}, &model.Playlist{}, &model.Song{}, &model.Favorite{}); err != nil {
		logger.Fatal("Failed to migrate models", logger.ErrorField(err))
	}

	// Optional collaborators. The server runs without either; the preview
	// cache and cover mirroring degrade to no-ops.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, scan-preview cache disabled", logger.ErrorField(err))
	} else if db.RedisClient != nil {
		defer db.CloseRedis()
		logger.Info("Successfully connected to Redis")
	}
	if err := storage.InitMinio(cfg); err != nil {
		logger.Warn("MinIO unavailable, cover art mirroring disabled", logger.ErrorField(err))
	}

	userRepo := repository.NewMySQLUserRepository(db.DB)
	sourceRepo := repository.NewGormSourceRepository(db.GormDB)
	playlistRepo := repository.NewGormPlaylistRepository(db.GormDB)
	songRepo := repository.NewGormSongRepository(db.GormDB)
	favoriteRepo := repository.NewGormFavoriteRepository(db.GormDB)

	scanner := github.NewScanner(github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken))

	var mirror importer.CoverMirror
	if m := storage.NewCoverMirror(cfg); m != nil {
		mirror = m
	}
	imp := importer.New(scanner, sourceRepo, playlistRepo, songRepo, mirror, cfg.BulkImportDelay)

	progressHub := NewProgressHub()
	apiHandler := NewAPIHandler(imp, scanner, userRepo, sourceRepo, playlistRepo, songRepo, favoriteRepo, progressHub, cfg)

	router := mux.NewRouter()

	// CORS middleware.
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// User authentication endpoints.
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)

	// Source endpoints: import, refresh, preview, bulk.
	router.HandleFunc("/api/sources", apiHandler.AuthMiddleware(apiHandler.ListSourcesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/sources/import", apiHandler.AuthMiddleware(apiHandler.ImportSourceHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/sources/preview", apiHandler.AuthMiddleware(apiHandler.PreviewSourceHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/sources/bulk", apiHandler.AuthMiddleware(apiHandler.BulkImportHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/sources/{id}/refresh", apiHandler.AuthMiddleware(apiHandler.RefreshSourceHandler)).Methods(http.MethodPost)

	// Library endpoints.
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.ListPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}/songs", apiHandler.AuthMiddleware(apiHandler.ListPlaylistSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}/duration", apiHandler.AuthMiddleware(apiHandler.UpdateSongDurationHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/songs/resolve", apiHandler.AuthMiddleware(apiHandler.ResolveTrackLinkHandler)).Methods(http.MethodGet)

	// Favourites.
	router.HandleFunc("/api/favorites", apiHandler.AuthMiddleware(apiHandler.ListFavoritesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites", apiHandler.AuthMiddleware(apiHandler.AddFavoriteHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/favorites/{songId}", apiHandler.AuthMiddleware(apiHandler.RemoveFavoriteHandler)).Methods(http.MethodDelete)

	// Bulk import progress stream.
	router.HandleFunc("/api/ws/imports", apiHandler.AuthMiddleware(apiHandler.ImportProgressHandler)).Methods(http.MethodGet)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
