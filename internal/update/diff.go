package update

import (
	"github.com/jra3/tdb/internal/container"
	"github.com/jra3/tdb/internal/model"
	"github.com/jra3/tdb/internal/queryview"
)

// Result is the symmetric difference between a filesystem Scan and the
// store's indexed snapshot of the same scope, one pair per identity
// kind. ToInsert holds identities only the scan has; ToDelete holds
// identities only the store has.
type Result struct {
	ToInsertFiles []model.FileIdent
	ToDeleteFiles []model.FileIdent

	ToInsertTags []model.TagIdent
	ToDeleteTags []model.TagIdent

	ToInsertAssocs []model.AssocIdent
	ToDeleteAssocs []model.AssocIdent
}

// Diff compares a filesystem scan against the portion of the store
// already loaded into owned (scoped to the paths under reconciliation).
func Diff(scan *Scan, owned *queryview.OwnedMaps) *Result {
	r := &Result{}

	fd := container.NewDiff(scan.Idents(), storeFileIdents(owned))
	r.ToInsertFiles, r.ToDeleteFiles = fd.Diff()

	td := container.NewDiff(scan.TagIdents(), storeTagIdents(owned))
	r.ToInsertTags, r.ToDeleteTags = td.Diff()

	ad := container.NewDiff(scan.AssocIdents(), storeAssocIdents(owned))
	r.ToInsertAssocs, r.ToDeleteAssocs = ad.Diff()

	return r
}

func storeFileIdents(owned *queryview.OwnedMaps) []model.FileIdent {
	out := make([]model.FileIdent, len(owned.Columns.Files))
	for i, f := range owned.Columns.Files {
		out[i] = f.Ident()
	}
	return out
}

func storeTagIdents(owned *queryview.OwnedMaps) []model.TagIdent {
	out := make([]model.TagIdent, len(owned.Columns.Tags))
	for i, t := range owned.Columns.Tags {
		out[i] = t.Ident()
	}
	return out
}

func storeAssocIdents(owned *queryview.OwnedMaps) []model.AssocIdent {
	return owned.Columns.Assocs
}
