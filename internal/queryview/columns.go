// Package queryview holds a query result's raw tabular form and the
// index-backed views built over it: per-file and per-tag projections
// addressed by id or by natural key, without borrowing into shared
// string storage.
package queryview

import "github.com/jra3/tdb/internal/model"

// Columns is a query result's raw tabular form: three independently
// owned vectors. Cheaply shrinkable, since nothing else borrows into
// its backing arrays.
type Columns struct {
	Files  []model.FileBorrow
	Tags   []model.TagBorrow
	Assocs []model.AssocIdent
}

// FileAt and TagAt return the row at a given offset; callers that hold
// an index into Columns (rather than a copied Borrow) re-derive the
// current value through these accessors.
func (c *Columns) FileAt(i int) model.FileBorrow { return c.Files[i] }
func (c *Columns) TagAt(i int) model.TagBorrow    { return c.Tags[i] }
