// Package update implements the reconciler that walks the filesystem
// under a set of paths, diffs what it finds against the indexed store,
// and reconciles the two.
package update

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jra3/tdb/internal/attr"
	"github.com/jra3/tdb/internal/model"
)

// Scan is the on-filesystem truth gathered for a set of input paths:
// parallel Files/Kinds/Attributes slices (same index identifies one
// entry) plus the directories walked, used to scope the store lookup.
type Scan struct {
	Files       []string
	Kinds       []model.Kind
	Attributes  []*attr.File
	Directories []string
}

// WalkPaths canonicalizes each input path and recursively walks
// directories without following symlinks. Entries that fail to
// canonicalize or to read their attribute are skipped rather than
// aborting the whole scan.
func WalkPaths(paths []string) (*Scan, error) {
	s := &Scan{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		abs = filepath.Clean(abs)

		info, err := os.Lstat(abs)
		if err != nil {
			continue
		}
		if info.IsDir() {
			s.Directories = append(s.Directories, abs)
			if err := s.walkDir(abs); err != nil {
				return nil, err
			}
			continue
		}
		s.addFile(abs, info)
	}
	return s, nil
}

func (s *Scan) walkDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if d.IsDir() {
			s.Directories = append(s.Directories, path)
			return nil
		}
		s.addFile(path, info)
		return nil
	})
}

func (s *Scan) addFile(path string, info os.FileInfo) {
	kind := kindOf(info.Mode())
	af, err := attr.Open(path)
	if err != nil {
		return
	}
	s.Files = append(s.Files, path)
	s.Kinds = append(s.Kinds, kind)
	s.Attributes = append(s.Attributes, af)
}

// kindOf classifies a POSIX file mode into the store's Kind encoding.
func kindOf(mode os.FileMode) model.Kind {
	switch {
	case mode&os.ModeSymlink != 0:
		return model.KindSymlink
	case mode.IsDir():
		return model.KindDir
	case mode&os.ModeNamedPipe != 0:
		return model.KindFifo
	case mode&os.ModeSocket != 0:
		return model.KindSocket
	case mode&os.ModeCharDevice != 0:
		return model.KindCharDevice
	case mode&os.ModeDevice != 0:
		return model.KindBlockDevice
	default:
		return model.KindFile
	}
}

// Idents returns the file identities this scan found, suitable for
// diffing against the store's indexed snapshot.
func (s *Scan) Idents() []model.FileIdent {
	out := make([]model.FileIdent, len(s.Files))
	for i, p := range s.Files {
		out[i] = model.FileIdent{Path: p, Kind: s.Kinds[i]}
	}
	return out
}

// TagIdents returns every distinct tag name attached to any scanned
// file, including ghost tags (diffed at the store layer like any other).
func (s *Scan) TagIdents() []model.TagIdent {
	seen := map[string]struct{}{}
	var out []model.TagIdent
	for _, af := range s.Attributes {
		for _, t := range af.Tags() {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				out = append(out, model.TagIdent{Name: t})
			}
		}
	}
	return out
}

// AssocIdents returns every (file, tag) association implied by the
// scanned attribute files.
func (s *Scan) AssocIdents() []model.AssocIdent {
	var out []model.AssocIdent
	for i, af := range s.Attributes {
		fid := model.FileIdent{Path: s.Files[i], Kind: s.Kinds[i]}
		for _, t := range af.Tags() {
			out = append(out, model.AssocIdent{File: fid, Tag: model.TagIdent{Name: t}})
		}
	}
	return out
}
