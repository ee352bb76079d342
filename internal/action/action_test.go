package action

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/xattr"

	"github.com/jra3/tdb/internal/attr"
	"github.com/jra3/tdb/internal/model"
	"github.com/jra3/tdb/internal/queryview"
)

func tempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagged.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := xattr.Set(path, "user.tdb_probe", []byte("1")); err != nil {
		t.Skipf("filesystem does not support user.* xattrs: %v", err)
	}
	_ = xattr.Remove(path, "user.tdb_probe")
	return path
}

func TestApplyTagAddRecordsUpdateWithoutCommit(t *testing.T) {
	path := tempFile(t)
	r := NewReport()

	err := ApplyTag(r, TagAction{Kind: TagAdd, Tags: []string{"work"}}, path, false)
	if err != nil {
		t.Fatalf("ApplyTag failed: %v", err)
	}
	if len(r.Updates()) != 1 {
		t.Fatalf("expected 1 update recorded even without commit, got %d", len(r.Updates()))
	}

	f, err := attr.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for _, tg := range f.Tags() {
		if tg == "work" {
			t.Fatal("expected no commit to leave the filesystem untouched")
		}
	}
}

func TestApplyTagAddCommitsToDisk(t *testing.T) {
	path := tempFile(t)
	r := NewReport()

	if err := ApplyTag(r, TagAction{Kind: TagAdd, Tags: []string{"work"}}, path, true); err != nil {
		t.Fatalf("ApplyTag failed: %v", err)
	}

	f, err := attr.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	found := false
	for _, tg := range f.Tags() {
		if tg == "work" {
			found = true
		}
	}
	if !found {
		t.Error("expected committed Add to persist")
	}
}

func TestApplyApiForgetRecordsFileID(t *testing.T) {
	cols := &queryview.Columns{
		Files: []model.FileBorrow{{ID: 7, Path: "/a", Kind: model.KindFile}},
	}
	owned := queryview.BuildOwnedMaps(cols)
	fb, _ := owned.Maps.FileByID(7)
	view := queryview.NewFileView(owned.Maps, fb)

	r := NewReport()
	if err := ApplyApi(r, ApiAction{Kind: ApiForget}, view, true); err != nil {
		t.Fatalf("ApplyApi failed: %v", err)
	}
	if len(r.Forgets) != 1 || r.Forgets[0] != 7 {
		t.Fatalf("expected file 7 recorded for forgetting, got %v", r.Forgets)
	}
}

func TestApplyApiReportAttachesMessage(t *testing.T) {
	cols := &queryview.Columns{
		Files: []model.FileBorrow{{ID: 7, Path: "/a", Kind: model.KindFile}},
	}
	owned := queryview.BuildOwnedMaps(cols)
	fb, _ := owned.Maps.FileByID(7)
	view := queryview.NewFileView(owned.Maps, fb)

	r := NewReport()
	if err := ApplyApi(r, ApiAction{Kind: ApiReport, Message: "checked"}, view, true); err != nil {
		t.Fatalf("ApplyApi failed: %v", err)
	}
	if msgs := r.Messages["/a"]; len(msgs) != 1 || msgs[0] != "checked" {
		t.Fatalf("expected message recorded, got %v", msgs)
	}
}

func TestParseAddTag(t *testing.T) {
	tag, api, err := Parse([]string{"add", "work", "urgent"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if api != nil || tag == nil || tag.Kind != TagAdd || len(tag.Tags) != 2 {
		t.Fatalf("unexpected parse result: tag=%+v api=%+v", tag, api)
	}
}

func TestParseMergeRequiresTwoArgs(t *testing.T) {
	if _, _, err := Parse([]string{"merge", "only-one"}); err == nil {
		t.Error("expected an error for a malformed merge action")
	}
}

func TestParseForgetIsApiAction(t *testing.T) {
	tag, api, err := Parse([]string{"forget"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tag != nil || api == nil || api.Kind != ApiForget {
		t.Fatalf("unexpected parse result: tag=%+v api=%+v", tag, api)
	}
}

func TestParseUnknownActionFails(t *testing.T) {
	if _, _, err := Parse([]string{"nonsense"}); err == nil {
		t.Error("expected an error for an unknown action token")
	}
}
