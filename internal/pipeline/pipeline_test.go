package pipeline

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jra3/tdb/internal/expr"
	"github.com/jra3/tdb/internal/model"
	"github.com/jra3/tdb/internal/store"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ctx := context.Background()
	err = s.WithTx(ctx, func(tx *sql.Tx) error {
		files, err := store.InsertFiles(ctx, tx, []store.FileInsert{
			{Kind: model.KindFile, Path: "/home/user/report.pdf"},
			{Kind: model.KindFile, Path: "/home/user/notes.txt"},
		})
		if err != nil {
			return err
		}
		tags, err := store.InsertTags(ctx, tx, []store.TagInsert{{Name: "work"}, {Name: "personal"}})
		if err != nil {
			return err
		}
		return store.InsertFileTags(ctx, tx, [][2]int64{
			{files[0].ID, tags[0].ID},
			{files[1].ID, tags[1].ID},
		})
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return s
}

func parseAst(t *testing.T, src string) *expr.Ast {
	t.Helper()
	toks, err := expr.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	ast, err := expr.Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return ast
}

func TestDriveNoForcingsYieldsUnassociated(t *testing.T) {
	s := seedStore(t)
	defer s.Close()

	r, err := Drive(context.Background(), s.DB(), Pipeline{})
	if err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	if r.Kind != ResultsUnassociated {
		t.Fatalf("expected Unassociated, got %v", r.Kind)
	}
	if _, err := r.FileViewIter(); err != ErrWrongState {
		t.Errorf("expected ErrWrongState for FileViewIter on Unassociated, got %v", err)
	}
}

func TestDriveFilterYieldsFiltered(t *testing.T) {
	s := seedStore(t)
	defer s.Close()

	filter := parseAst(t, "=[work]")
	r, err := Drive(context.Background(), s.DB(), Pipeline{Filter: filter})
	if err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	if r.Kind != ResultsFiltered {
		t.Fatalf("expected Filtered, got %v", r.Kind)
	}
	if len(r.SurvivingID) != 1 {
		t.Fatalf("expected 1 surviving file, got %d", len(r.SurvivingID))
	}
}

func TestDriveNoForcingsSatisfiesFileIds(t *testing.T) {
	s := seedStore(t)
	defer s.Close()

	r, err := Drive(context.Background(), s.DB(), Pipeline{})
	if err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	ids, err := FileIds.Collect(r)
	if err != nil {
		t.Fatalf("FileIds.Collect failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 file ids, got %d", len(ids))
	}
}

func TestPlainCollectorExcludesAPITag(t *testing.T) {
	s := seedStore(t)
	defer s.Close()
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		tags, err := store.InsertTags(ctx, tx, []store.TagInsert{{Name: "tdb::api::Entity"}})
		if err != nil {
			return err
		}
		return store.InsertFileTags(ctx, tx, [][2]int64{{1, tags[0].ID}})
	})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	r, err := DriveForced(ctx, s.DB(), Pipeline{Query: parseAst(t, "=[work]")}, Plain.Forcings())
	if err != nil {
		t.Fatalf("DriveForced failed: %v", err)
	}
	out, err := Plain.Collect(r)
	if err != nil {
		t.Fatalf("Plain.Collect failed: %v", err)
	}
	if out == "" {
		t.Fatal("expected nonempty plain output")
	}
	if strings.Contains(out, "tdb::api::Entity") {
		t.Errorf("expected api tag to be excluded, got %q", out)
	}
}
