package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jra3/tdb/internal/errs"
	"github.com/jra3/tdb/internal/model"
)

// LookupTagsByName resolves existing tag rows by name, globally (not
// scoped to any particular query), so callers can distinguish a
// genuinely new tag name from one already interned elsewhere.
func LookupTagsByName(ctx context.Context, db *sql.DB, names []string) ([]model.TagBorrow, error) {
	if len(names) == 0 {
		return nil, nil
	}
	marks := make([]string, len(names))
	args := make([]any, len(names))
	for i, n := range names {
		marks[i] = "?"
		args[i] = n
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, name FROM tags WHERE name IN (%s)", strings.Join(marks, ", ")), args...)
	if err != nil {
		return nil, errs.New("store.LookupTagsByName", errs.KindStoreTransaction, err)
	}
	defer rows.Close()

	var out []model.TagBorrow
	for rows.Next() {
		var b model.TagBorrow
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, errs.New("store.LookupTagsByName", errs.KindStoreTransaction, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// LookupFilesByPathPrefix resolves files already in the store whose
// path equals one of exact, or falls under one of the given directory
// prefixes (path LIKE 'dir/%').
func LookupFilesByPathPrefix(ctx context.Context, db *sql.DB, exact, dirs []string) ([]model.FileBorrow, error) {
	if len(exact) == 0 && len(dirs) == 0 {
		return nil, nil
	}
	var clauses []string
	var args []any
	if len(exact) > 0 {
		marks := make([]string, len(exact))
		for i, p := range exact {
			marks[i] = "?"
			args = append(args, p)
		}
		clauses = append(clauses, "path IN ("+strings.Join(marks, ", ")+")")
	}
	for _, d := range dirs {
		clauses = append(clauses, "path LIKE ?")
		args = append(args, d+string('/')+"%")
	}
	q := "SELECT id, path, kind FROM files WHERE " + strings.Join(clauses, " OR ")
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errs.New("store.LookupFilesByPathPrefix", errs.KindStoreTransaction, err)
	}
	defer rows.Close()

	var out []model.FileBorrow
	for rows.Next() {
		var b model.FileBorrow
		var kind int64
		if err := rows.Scan(&b.ID, &b.Path, &kind); err != nil {
			return nil, errs.New("store.LookupFilesByPathPrefix", errs.KindStoreTransaction, err)
		}
		b.Kind = model.Kind(kind)
		out = append(out, b)
	}
	return out, rows.Err()
}
