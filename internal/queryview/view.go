package queryview

import "github.com/jra3/tdb/internal/model"

// FileView projects one file's current tag set out of a Maps, and
// supplies the built-in comparison variables used by the filter DSL.
type FileView struct {
	maps *Maps
	file model.FileBorrow
}

// NewFileView builds a view over file's current association state.
func NewFileView(m *Maps, file model.FileBorrow) *FileView {
	return &FileView{maps: m, file: file}
}

func (v *FileView) Path() string    { return v.file.Path }
func (v *FileView) Kind() model.Kind { return v.file.Kind }
func (v *FileView) ID() model.Fid   { return v.file.ID }

// Tags returns the Borrows of every tag currently on this file.
func (v *FileView) Tags() []model.TagBorrow {
	ids := v.maps.TagsOf(v.file.ID)
	out := make([]model.TagBorrow, 0, len(ids))
	for tid := range ids {
		if b, ok := v.maps.TagByID(tid); ok {
			out = append(out, b)
		}
	}
	return out
}

// Variables returns the built-in comparison variables for this file:
// tags.len (tag count excluding the API tag), path.len, and file.id.
func (v *FileView) Variables() map[string]uint64 {
	tagCount := len(v.maps.TagsOf(v.file.ID))
	tagsLen := tagCount - 1
	if tagsLen < 0 {
		tagsLen = 0
	}
	return map[string]uint64{
		"tags.len": uint64(tagsLen),
		"path.len": uint64(len(v.file.Path)),
		"file.id":  uint64(v.file.ID),
	}
}

// TagView projects one tag's current file set out of a Maps.
type TagView struct {
	maps *Maps
	tag  model.TagBorrow
}

// NewTagView builds a view over tag's current association state.
func NewTagView(m *Maps, tag model.TagBorrow) *TagView {
	return &TagView{maps: m, tag: tag}
}

func (v *TagView) Name() string  { return v.tag.Name }
func (v *TagView) ID() model.Tid { return v.tag.ID }

// Files returns the Borrows of every file currently carrying this tag.
func (v *TagView) Files() []model.FileBorrow {
	ids := v.maps.FilesOf(v.tag.ID)
	out := make([]model.FileBorrow, 0, len(ids))
	for fid := range ids {
		if b, ok := v.maps.FileByID(fid); ok {
			out = append(out, b)
		}
	}
	return out
}
