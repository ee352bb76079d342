package queryview

import (
	"github.com/jra3/tdb/internal/container"
	"github.com/jra3/tdb/internal/model"
)

// Maps is the dual-index view over a Columns result: each id or
// natural key resolves to an integer offset into Columns, which is
// re-derived into a Borrow on demand. No Go string ever aliases
// another struct's backing array; only integers are stored.
type Maps struct {
	cols *Columns

	fids *container.OneToOneFat[model.Fid, int, model.FileIdent, int]
	tids *container.OneToOneFat[model.Tid, int, model.TagIdent, int]
	mtom *container.ManyToMany[model.Fid, model.Tid]
}

// OwnedMaps owns the Columns a Maps view is built over.
type OwnedMaps struct {
	Columns *Columns
	Maps    *Maps
}

// BuildOwnedMaps indexes cols by id and by natural key, and builds the
// file-tag many-to-many relation from its association rows. cols is
// consumed; callers should not mutate it afterward.
func BuildOwnedMaps(cols *Columns) *OwnedMaps {
	m := &Maps{
		cols: cols,
		fids: container.NewOneToOneFat[model.Fid, int, model.FileIdent, int](),
		tids: container.NewOneToOneFat[model.Tid, int, model.TagIdent, int](),
		mtom: container.NewManyToMany[model.Fid, model.Tid](),
	}
	for i, f := range cols.Files {
		m.fids.PutLeft(f.ID, i)
		m.fids.PutRight(f.Ident(), i)
	}
	for i, tg := range cols.Tags {
		m.tids.PutLeft(tg.ID, i)
		m.tids.PutRight(tg.Ident(), i)
	}
	for _, a := range cols.Assocs {
		fi, fok := m.fids.ByRID(a.File)
		ti, tok := m.tids.ByRID(a.Tag)
		if fok && tok {
			m.mtom.Map(cols.Files[fi].ID, cols.Tags[ti].ID)
		}
	}
	return &OwnedMaps{Columns: cols, Maps: m}
}

// FileByID resolves a file's Borrow by its store id.
func (m *Maps) FileByID(fid model.Fid) (model.FileBorrow, bool) {
	i, ok := m.fids.ByLID(fid)
	if !ok {
		return model.FileBorrow{}, false
	}
	return m.cols.FileAt(i), true
}

// FileByIdent resolves a file's Borrow by its natural key.
func (m *Maps) FileByIdent(ident model.FileIdent) (model.FileBorrow, bool) {
	i, ok := m.fids.ByRID(ident)
	if !ok {
		return model.FileBorrow{}, false
	}
	return m.cols.FileAt(i), true
}

// TagByID resolves a tag's Borrow by its store id.
func (m *Maps) TagByID(tid model.Tid) (model.TagBorrow, bool) {
	i, ok := m.tids.ByLID(tid)
	if !ok {
		return model.TagBorrow{}, false
	}
	return m.cols.TagAt(i), true
}

// TagByIdent resolves a tag's Borrow by its natural key.
func (m *Maps) TagByIdent(ident model.TagIdent) (model.TagBorrow, bool) {
	i, ok := m.tids.ByRID(ident)
	if !ok {
		return model.TagBorrow{}, false
	}
	return m.cols.TagAt(i), true
}

// FileIDs returns every file id indexed.
func (m *Maps) FileIDs() []model.Fid { return m.fids.LIDs() }

// TagIDs returns every tag id indexed.
func (m *Maps) TagIDs() []model.Tid { return m.tids.LIDs() }

// TagsOf returns the tag ids associated with a file id.
func (m *Maps) TagsOf(fid model.Fid) map[model.Tid]struct{} { return m.mtom.GetRs(fid) }

// FilesOf returns the file ids associated with a tag id.
func (m *Maps) FilesOf(tid model.Tid) map[model.Fid]struct{} { return m.mtom.GetLs(tid) }
