package importer

import (
	"context"
	"regexp"

	"github.com/muntasir-dev/MusicStream/logger"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// repoURLFinder extracts repository URLs from free-form text. Trailing .git
// suffixes are part of the match and normalized away during parsing.
var repoURLFinder = regexp.MustCompile(`https?://[^/\s]+/[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+`)

// ExtractRepoURLs returns every repository URL found in body, deduplicated
// while preserving first-seen order.
func ExtractRepoURLs(body string) []string {
	matches := repoURLFinder.FindAllString(body, -1)
	seen := make(map[string]bool, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		urls = append(urls, m)
	}
	return urls
}

// BulkImport imports every repository URL found in listBody into the user's
// library, strictly sequentially and throttled to respect the remote listing
// API's rate limits. One repository's failure never halts the rest of the
// batch; each outcome is recorded independently.
//
// listener is optional; when set it receives a progress event before and
// after each repository.
func (im *Importer) BulkImport(ctx context.Context, listBody string, userID int64, listener ProgressListener) (*BulkReport, error) {
	urls := ExtractRepoURLs(listBody)
	report := &BulkReport{
		BatchID: uuid.New().String(),
		Items:   make([]BulkItem, 0, len(urls)),
	}

	// A limiter with the configured inter-item interval enforces the fixed
	// delay between repositories.
	limiter := rate.NewLimiter(rate.Every(im.bulkDelay), 1)

	for i, locationURI := range urls {
		if err := limiter.Wait(ctx); err != nil {
			// Caller stopped awaiting the batch; record the remainder as
			// not attempted.
			for _, rest := range urls[i:] {
				report.Items = append(report.Items, BulkItem{LocationURI: rest, Error: err.Error()})
			}
			return report, nil
		}

		im.emit(listener, ProgressEvent{
			BatchID: report.BatchID, UserID: userID,
			Index: i + 1, Total: len(urls),
			LocationURI: locationURI, Phase: "importing",
		})

		item := BulkItem{LocationURI: locationURI}
		itemReport, err := im.ImportSource(ctx, locationURI, "", userID)
		if err != nil {
			logger.Warn("Bulk import item failed",
				logger.String("location", locationURI),
				logger.String("batchId", report.BatchID),
				logger.ErrorField(err))
			item.Error = err.Error()
			im.emit(listener, ProgressEvent{
				BatchID: report.BatchID, UserID: userID,
				Index: i + 1, Total: len(urls),
				LocationURI: locationURI, Phase: "failed", Error: err.Error(),
			})
		} else {
			item.Report = itemReport
			im.emit(listener, ProgressEvent{
				BatchID: report.BatchID, UserID: userID,
				Index: i + 1, Total: len(urls),
				LocationURI: locationURI, Phase: "done",
			})
		}
		report.Items = append(report.Items, item)
	}

	logger.Info("Bulk import completed",
		logger.String("batchId", report.BatchID),
		logger.Int64("userId", userID),
		logger.Int("total", len(urls)))
	return report, nil
}

func (im *Importer) emit(listener ProgressListener, event ProgressEvent) {
	if listener != nil {
		listener(event)
	}
}
