package queryview

import "github.com/jra3/tdb/internal/model"

func fixtureColumns() *Columns {
	return &Columns{
		Files: []model.FileBorrow{
			{ID: 1, Path: "/a", Kind: model.KindFile},
			{ID: 2, Path: "/b", Kind: model.KindDir},
		},
		Tags: []model.TagBorrow{
			{ID: 10, Name: "work"},
			{ID: 11, Name: "tdb::api::Entity"},
		},
		Assocs: []model.AssocIdent{
			{File: model.FileIdent{Path: "/a", Kind: model.KindFile}, Tag: model.TagIdent{Name: "work"}},
			{File: model.FileIdent{Path: "/a", Kind: model.KindFile}, Tag: model.TagIdent{Name: "tdb::api::Entity"}},
		},
	}
}
