package importer

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/muntasir-dev/MusicStream/core/github"
	"github.com/muntasir-dev/MusicStream/core/liberr"
)

func TestExtractRepoURLs(t *testing.T) {
	body := `# my repos
https://github.com/alice/mymusic
some notes https://github.com/bob/tunes trailing text
https://github.com/alice/mymusic
https://github.com/carol/vault.git
`
	got := ExtractRepoURLs(body)
	want := []string{
		"https://github.com/alice/mymusic",
		"https://github.com/bob/tunes",
		"https://github.com/carol/vault.git",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractRepoURLs = %v, want %v", got, want)
	}
}

// perRepoScanner fails for the repositories listed in fail and serves the
// catalog for everything else.
type perRepoScanner struct {
	catalog *github.Catalog
	fail    map[string]bool
}

func (p *perRepoScanner) Scan(ctx context.Context, owner, repo string) (*github.Catalog, error) {
	if p.fail[owner+"/"+repo] {
		return nil, fmt.Errorf("%w: repository unreachable", liberr.ErrRemoteFetchFailed)
	}
	return p.catalog, nil
}

func TestBulkImportIsolatesFailures(t *testing.T) {
	scanner := &perRepoScanner{
		catalog: testCatalog(),
		fail:    map[string]bool{"bob/tunes": true},
	}
	im, _, _, _ := newTestImporter(scanner)

	var events []ProgressEvent
	list := "https://github.com/alice/mymusic\nhttps://github.com/bob/tunes\nhttps://github.com/carol/vault\n"
	report, err := im.BulkImport(context.Background(), list, 1, func(e ProgressEvent) {
		events = append(events, e)
	})
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}
	if report.BatchID == "" {
		t.Error("expected a non-empty batch ID")
	}
	if len(report.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(report.Items))
	}

	if report.Items[0].Error != "" || report.Items[0].Report == nil {
		t.Errorf("item 0 should succeed: %+v", report.Items[0])
	}
	if report.Items[1].Error == "" || report.Items[1].Report != nil {
		t.Errorf("item 1 should fail: %+v", report.Items[1])
	}
	if report.Items[2].Error != "" || report.Items[2].Report == nil {
		t.Errorf("item 2 should succeed despite item 1 failing: %+v", report.Items[2])
	}

	wantPhases := []string{"importing", "done", "importing", "failed", "importing", "done"}
	if len(events) != len(wantPhases) {
		t.Fatalf("expected %d progress events, got %d", len(wantPhases), len(events))
	}
	for i, e := range events {
		if e.Phase != wantPhases[i] {
			t.Errorf("event %d phase = %q, want %q", i, e.Phase, wantPhases[i])
		}
		if e.BatchID != report.BatchID {
			t.Errorf("event %d carries batch %q, want %q", i, e.BatchID, report.BatchID)
		}
		if e.Total != 3 {
			t.Errorf("event %d total = %d, want 3", i, e.Total)
		}
	}
	if events[3].Error == "" {
		t.Error("failed event should carry the item error")
	}
}

func TestBulkImportCancelledContext(t *testing.T) {
	scanner := &fakeScanner{catalog: testCatalog()}
	im, _, _, _ := newTestImporter(scanner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list := "https://github.com/alice/mymusic\nhttps://github.com/bob/tunes\n"
	report, err := im.BulkImport(ctx, list, 1, nil)
	if err != nil {
		t.Fatalf("BulkImport should report per-item outcomes, got error %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("expected both items recorded, got %d", len(report.Items))
	}
	for i, item := range report.Items {
		if item.Error == "" || item.Report != nil {
			t.Errorf("item %d should be recorded as not attempted: %+v", i, item)
		}
	}
	if scanner.calls != 0 {
		t.Errorf("no repository should be scanned after cancellation, got %d scans", scanner.calls)
	}
}
