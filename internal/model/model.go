// Package model defines the shared identity and projection types used
// across the store, indexed-view, and update-engine layers.
package model

import "github.com/jra3/tdb/internal/errs"

// Fid and Tid are store-assigned identifiers for files and tags.
type Fid = int64
type Tid = int64

// Kind enumerates the POSIX file types a tracked path can have.
type Kind int64

const (
	KindFile Kind = iota
	KindFifo
	KindDir
	KindCharDevice
	KindBlockDevice
	KindSymlink
	KindSocket
)

// kindKeyword maps the reserved `::kind::<word>` query keyword to its
// numeric encoding.
var kindKeyword = map[string]Kind{
	"file":   KindFile,
	"fifo":   KindFifo,
	"link":   KindSymlink,
	"dir":    KindDir,
	"socket": KindSocket,
	"blkdev": KindBlockDevice,
	"chrdev": KindCharDevice,
}

// ParseKindKeyword decodes a `::kind::` tag-space argument into a Kind.
func ParseKindKeyword(word string) (Kind, error) {
	k, ok := kindKeyword[word]
	if !ok {
		return 0, errs.New("model.ParseKindKeyword", errs.KindInvalidNamespace, nil)
	}
	return k, nil
}

// FileIdent is the natural key used for diffing file identity: the
// canonical path plus its POSIX kind.
type FileIdent struct {
	Path string
	Kind Kind
}

// FileBorrow is an id plus its natural-key fields.
type FileBorrow struct {
	ID   Fid
	Path string
	Kind Kind
}

func (b FileBorrow) Ident() FileIdent {
	return FileIdent{Path: b.Path, Kind: b.Kind}
}

// TagIdent is the natural key used for diffing tag identity: its name.
type TagIdent struct {
	Name string
}

// TagBorrow is an id plus its name.
type TagBorrow struct {
	ID   Tid
	Name string
}

func (b TagBorrow) Ident() TagIdent {
	return TagIdent{Name: b.Name}
}

// AssocIdent is the identity used for diffing a file-tag association:
// the pair of natural keys, not the numeric ids (which may not yet
// exist on the filesystem side of a diff).
type AssocIdent struct {
	File FileIdent
	Tag  TagIdent
}
