package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/muntasir-dev/MusicStream/config"
	"github.com/muntasir-dev/MusicStream/core/github"
	"github.com/muntasir-dev/MusicStream/core/importer"
	"github.com/muntasir-dev/MusicStream/db"
	"github.com/muntasir-dev/MusicStream/logger"
	"github.com/muntasir-dev/MusicStream/model"
	"github.com/muntasir-dev/MusicStream/repository"

	"github.com/spf13/cobra"
)

var (
	importList string
	importUser int64
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk import repositories from a URL list",
	Long: `Read a plain-text list of repository URLs from a file or an HTTP
URL and import each repository into the given user's library, throttled the
same way the API's bulk endpoint is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if importList == "" || importUser == 0 {
			return fmt.Errorf("--list and --user are required")
		}

		cfg := config.Load()
		logger.Init(logger.Config{Level: cfg.LogLevel})

		body, err := readSourceList(importList)
		if err != nil {
			return fmt.Errorf("failed to read source list: %w", err)
		}

		if err := db.ConnectGormDB(cfg); err != nil {
			return err
		}
		defer db.CloseGormDB()
		if err := db.AutoMigrateModels(&model.Source{}, &model.Playlist{}, &model.Song{}, &model.Favorite{}); err != nil {
			return err
		}

		scanner := github.NewScanner(github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken))
		imp := importer.New(
			scanner,
			repository.NewGormSourceRepository(db.GormDB),
			repository.NewGormPlaylistRepository(db.GormDB),
			repository.NewGormSongRepository(db.GormDB),
			nil,
			cfg.BulkImportDelay,
		)

		report, err := imp.BulkImport(context.Background(), body, importUser, func(ev importer.ProgressEvent) {
			fmt.Printf("[%d/%d] %s %s\n", ev.Index, ev.Total, ev.Phase, ev.LocationURI)
		})
		if err != nil {
			return err
		}

		for _, item := range report.Items {
			if item.Error != "" {
				fmt.Printf("FAILED  %s: %s\n", item.LocationURI, item.Error)
				continue
			}
			fmt.Printf("OK      %s: %d playlists, %d songs (%d skipped)\n",
				item.LocationURI, item.Report.PlaylistsCreated, item.Report.SongsCreated, item.Report.SongsSkipped)
		}
		return nil
	},
}

// readSourceList loads the list body from a local file or an HTTP URL.
func readSourceList(location string) (string, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		resp, err := http.Get(location)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("source list returned status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	body, err := os.ReadFile(location)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func init() {
	importCmd.Flags().StringVar(&importList, "list", "", "Path or URL of the repository URL list")
	importCmd.Flags().Int64Var(&importUser, "user", 0, "ID of the user receiving the imports")
	rootCmd.AddCommand(importCmd)
}
