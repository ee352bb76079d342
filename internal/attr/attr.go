// Package attr implements the attribute-file layer: reading and writing
// a tracked path's tag set to and from its user.tag.list extended
// attribute.
package attr

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/xattr"

	"github.com/jra3/tdb/internal/errs"
)

// AttrName is the extended attribute key holding a file's tag list.
const AttrName = "user.tag.list"

// Separator joins tag names within the attribute value.
const Separator = ","

// APITag is injected into every file's in-memory tag set so it is
// never empty on read. It may or may not be persisted on disk.
const APITag = "tdb::api::Entity"

// GhostPrefix marks tags that are implementation detail, hidden from
// human-facing output.
const GhostPrefix = "tdb::"

// File is one path's attribute-backed tag set: a scoped handle,
// acquired via Open and released once the caller Saves or discards it.
type File struct {
	Path  string
	tags  map[string]struct{}
	dirty bool
}

// Open reads path's tag list attribute, decoding it as UTF-8 split on
// the separator. If the attribute is absent, the set starts with just
// the API tag. The resulting set is always non-empty.
func Open(path string) (*File, error) {
	f := &File{Path: path, tags: map[string]struct{}{}}

	raw, err := xattr.Get(path, AttrName)
	switch {
	case err == nil:
		for _, name := range strings.Split(string(raw), Separator) {
			if name != "" {
				f.tags[name] = struct{}{}
			}
		}
	case isNotExist(err):
		// no attribute yet; fall through with an empty set
	default:
		return nil, errs.New("attr.Open", errs.KindStoreTransaction, err)
	}

	f.tags[APITag] = struct{}{}
	if len(f.tags) == 0 {
		panic("attr.Open: tag set must never be empty")
	}
	return f, nil
}

func isNotExist(err error) bool {
	return strings.Contains(err.Error(), "no data available") || os.IsNotExist(err) ||
		strings.Contains(err.Error(), "no attribute")
}

// Sanitize validates a tag name: non-empty, and free of the expansion
// delimiter pair and the canonical separator.
func Sanitize(name string) (string, error) {
	if name == "" {
		return "", errs.New("attr.Sanitize", errs.KindInvalidTag, nil)
	}
	if strings.Contains(name, "{{") || strings.Contains(name, "}}") || strings.Contains(name, Separator) {
		return "", errs.New("attr.Sanitize", errs.KindInvalidTag, nil)
	}
	return name, nil
}

// Add sanitizes and inserts name. Dirty is set iff the tag was newly
// inserted.
func (f *File) Add(name string) error {
	clean, err := Sanitize(name)
	if err != nil {
		return err
	}
	if _, exists := f.tags[clean]; !exists {
		f.tags[clean] = struct{}{}
		f.dirty = true
	}
	return nil
}

// Del removes name. Dirty is set iff the tag was present.
func (f *File) Del(name string) {
	if _, exists := f.tags[name]; exists {
		delete(f.tags, name)
		f.dirty = true
	}
}

// Merge removes src and, if that removed something, adds dst. Returns
// the file's resulting dirty bit.
func (f *File) Merge(src, dst string) (bool, error) {
	before := len(f.tags)
	f.Del(src)
	if len(f.tags) != before {
		if err := f.Add(dst); err != nil {
			return f.dirty, err
		}
	}
	return f.dirty, nil
}

// SetTags replaces the tag set outright. Dirty is set iff the previous
// set was non-empty.
func (f *File) SetTags(names []string) error {
	wasNonEmpty := len(f.tags) > 0
	next := map[string]struct{}{}
	for _, n := range names {
		clean, err := Sanitize(n)
		if err != nil {
			return err
		}
		next[clean] = struct{}{}
	}
	f.tags = next
	if wasNonEmpty {
		f.dirty = true
	}
	return nil
}

// Dirty reports whether this file has unsaved tag-set changes.
func (f *File) Dirty() bool { return f.dirty }

// Tags returns every tag currently on this file, including ghost tags.
func (f *File) Tags() []string {
	out := make([]string, 0, len(f.tags))
	for t := range f.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Save writes the tag set to disk if dirty: sorted, comma-joined,
// ghost tags filtered out. Reports whether a write happened.
func (f *File) Save() (bool, error) {
	if !f.dirty {
		return false, nil
	}
	var visible []string
	for t := range f.tags {
		if !strings.HasPrefix(t, GhostPrefix) {
			visible = append(visible, t)
		}
	}
	sort.Strings(visible)
	value := strings.Join(visible, Separator)
	if err := xattr.Set(f.Path, AttrName, []byte(value)); err != nil {
		return false, errs.New("attr.Save", errs.KindStoreTransaction, err)
	}
	f.dirty = false
	return true, nil
}

// linkName computes the symlink basename for a path within a link
// destination: md5(parent)-basename.
func linkName(path string) string {
	parent := filepath.Dir(path)
	sum := md5.Sum([]byte(parent))
	return fmt.Sprintf("%x-%s", sum, filepath.Base(path))
}

// Link creates a symlink at dst/<md5(parent)>-<basename> pointing at
// this file.
func (f *File) Link(dst string) error {
	target := filepath.Join(dst, linkName(f.Path))
	if err := os.Symlink(f.Path, target); err != nil {
		return errs.New("attr.Link", errs.KindStoreTransaction, err)
	}
	return nil
}

// Unlink removes the symlink computed as in Link. Fails if the target
// is not a symlink.
func (f *File) Unlink(dst string) error {
	target := filepath.Join(dst, linkName(f.Path))
	info, err := os.Lstat(target)
	if err != nil {
		return errs.New("attr.Unlink", errs.KindNotUnlinkable, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return errs.New("attr.Unlink", errs.KindNotUnlinkable, nil)
	}
	if err := os.Remove(target); err != nil {
		return errs.New("attr.Unlink", errs.KindStoreTransaction, err)
	}
	return nil
}

// Format renders a human-readable "<path> <sorted,csv-tags>" line with
// ghost tags filtered out.
func (f *File) Format() string {
	var visible []string
	for t := range f.tags {
		if !strings.HasPrefix(t, GhostPrefix) {
			visible = append(visible, t)
		}
	}
	sort.Strings(visible)
	return f.Path + " " + strings.Join(visible, Separator)
}
