package update

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jra3/tdb/internal/attr"
	"github.com/jra3/tdb/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestReconcileInsertsNewFileAndTag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt")

	s := openTestStore(t)
	defer s.Close()
	ctx := context.Background()

	scan, err := WalkPaths([]string{path})
	if err != nil {
		t.Fatalf("WalkPaths failed: %v", err)
	}
	if err := scan.Attributes[0].Add("work"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := scan.Attributes[0].Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	result, err := Reconcile(ctx, s, []string{path})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(result.ToInsertFiles) != 1 {
		t.Fatalf("expected 1 file inserted, got %v", result.ToInsertFiles)
	}

	var fileCount, tagCount, assocCount int
	s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&fileCount)
	s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&tagCount)
	s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM file_tags").Scan(&assocCount)
	if fileCount != 1 {
		t.Errorf("expected 1 file row, got %d", fileCount)
	}
	if tagCount != 2 { // "work" + the API tag
		t.Errorf("expected 2 tag rows (work + API tag), got %d", tagCount)
	}
	if assocCount != 2 {
		t.Errorf("expected 2 associations, got %d", assocCount)
	}
}

func TestReconcileNeverDeletesTagRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt")

	s := openTestStore(t)
	defer s.Close()
	ctx := context.Background()

	scan, err := WalkPaths([]string{path})
	if err != nil {
		t.Fatalf("WalkPaths failed: %v", err)
	}
	if err := scan.Attributes[0].Add("work"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := scan.Attributes[0].Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := Reconcile(ctx, s, []string{path}); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}

	// Remove the tag on disk, then reconcile again: the association
	// should drop but the "work" tag row must persist.
	af2, err := attr.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	af2.Del("work")
	if _, err := af2.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := Reconcile(ctx, s, []string{path}); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}

	var tagCount int
	s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM tags WHERE name = 'work'").Scan(&tagCount)
	if tagCount != 1 {
		t.Errorf("expected the 'work' tag row to persist despite no remaining associations, got count %d", tagCount)
	}
	var assocCount int
	s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM file_tags").Scan(&assocCount)
	if assocCount != 1 { // just the API tag remains associated
		t.Errorf("expected only the API tag association to remain, got %d", assocCount)
	}
}

func TestReconcileDeletesFileRowWhenRemovedFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt")

	s := openTestStore(t)
	defer s.Close()
	ctx := context.Background()

	if _, err := Reconcile(ctx, s, []string{path}); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := Reconcile(ctx, s, []string{dir}); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}

	var fileCount int
	s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&fileCount)
	if fileCount != 0 {
		t.Errorf("expected the removed file's row to be deleted, got %d rows", fileCount)
	}
}
