package attr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/xattr"
)

func requireXattrSupport(t *testing.T, path string) {
	t.Helper()
	if err := xattr.Set(path, "user.tdb_probe", []byte("1")); err != nil {
		t.Skipf("filesystem does not support user.* xattrs: %v", err)
	}
	_ = xattr.Remove(path, "user.tdb_probe")
}

func tempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagged.txt")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	requireXattrSupport(t, path)
	return path
}

func TestOpenStartsWithAPITagWhenAbsent(t *testing.T) {
	path := tempFile(t)
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	tags := f.Tags()
	if len(tags) != 1 || tags[0] != APITag {
		t.Fatalf("expected only the API tag, got %v", tags)
	}
}

func TestAddAndSaveRoundTrip(t *testing.T) {
	path := tempFile(t)
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := f.Add("work"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	wrote, err := f.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !wrote {
		t.Fatal("expected Save to write after Add")
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	found := false
	for _, tg := range reopened.Tags() {
		if tg == "work" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected reopened file to carry 'work', got %v", reopened.Tags())
	}
}

func TestDelThenSaveClearsDirty(t *testing.T) {
	path := tempFile(t)
	f, _ := Open(path)
	_ = f.Add("work")
	if _, err := f.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f.Del("work")
	wrote, err := f.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !wrote {
		t.Fatal("expected Save to write after Del")
	}

	second, err := f.Save()
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if second {
		t.Error("expected second Save with no changes to be a no-op")
	}
}

func TestSaveFiltersGhostTags(t *testing.T) {
	path := tempFile(t)
	f, _ := Open(path)
	_ = f.Add("work")
	if _, err := f.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := xattr.Get(path, AttrName)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if strings.Contains(string(raw), GhostPrefix) {
		t.Errorf("expected ghost tags to be filtered from the persisted value, got %q", raw)
	}
}

func TestSanitizeRejectsReservedCharacters(t *testing.T) {
	cases := []string{"", "a{{b", "a}}b", "a,b"}
	for _, c := range cases {
		if _, err := Sanitize(c); err == nil {
			t.Errorf("expected Sanitize(%q) to fail", c)
		}
	}
}

func TestLinkAndUnlink(t *testing.T) {
	path := tempFile(t)
	f, _ := Open(path)
	dst := t.TempDir()

	if err := f.Link(dst); err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	if err := f.Unlink(dst); err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}
	if err := f.Unlink(dst); err == nil {
		t.Error("expected second Unlink to fail")
	}
}
