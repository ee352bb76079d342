package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jra3/tdb/internal/errs"
	"github.com/jra3/tdb/internal/eval"
	"github.com/jra3/tdb/internal/expr"
	"github.com/jra3/tdb/internal/model"
	"github.com/jra3/tdb/internal/queryview"
)

// Predicate is a SQL boolean expression fragment over the files table,
// correlated by "files.id", plus its positional arguments.
type Predicate struct {
	SQL  string
	Args []any
}

func leafPredicate(_ *struct{}, mod expr.Modifier, payload string, _ struct{}) (Predicate, error) {
	if mod != expr.ModPredicate {
		return Predicate{}, errs.New("store.query", errs.KindInvalidModifier, nil)
	}
	ns := expr.Canonicalize(payload)
	// Canonical with its "::<reserved>" segment removed, keeping the root
	// and wildcard markers: "::tag::work" becomes "::work".
	like := strings.Replace(ns.Canonical, "::"+ns.Reserved, "", 1)
	switch ns.Reserved {
	case expr.ReservedTag:
		return Predicate{
			SQL: "EXISTS (SELECT 1 FROM file_tags ft JOIN tags t ON t.id = ft.tag_id " +
				"WHERE ft.file_id = files.id AND ('::' || t.name) LIKE ?)",
			Args: []any{like},
		}, nil
	case expr.ReservedTdb:
		return Predicate{
			SQL: "EXISTS (SELECT 1 FROM file_tags ft JOIN tags t ON t.id = ft.tag_id " +
				"WHERE ft.file_id = files.id AND ('::' || t.name) LIKE ?)",
			Args: []any{ns.Canonical},
		}, nil
	case expr.ReservedPath:
		return Predicate{
			SQL:  "('::' || files.path) LIKE ?",
			Args: []any{like},
		}, nil
	case expr.ReservedKind:
		word := strings.Trim(ns.TagSpace, ":%")
		k, err := model.ParseKindKeyword(word)
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{SQL: "files.kind = ?", Args: []any{int64(k)}}, nil
	}
	return Predicate{}, errs.New("store.query", errs.KindInvalidNamespace, nil)
}

func notPredicate(_ *struct{}, child Predicate) (Predicate, error) {
	p := Predicate{SQL: "NOT (" + child.SQL + ")", Args: child.Args}
	return p, nil
}

func andPredicate(_ *struct{}, left, right Predicate) (Predicate, error) {
	args := append(append([]any{}, left.Args...), right.Args...)
	return Predicate{SQL: "(" + left.SQL + " AND " + right.SQL + ")", Args: args}, nil
}

func orPredicate(_ *struct{}, left, right Predicate) (Predicate, error) {
	args := append(append([]any{}, left.Args...), right.Args...)
	return Predicate{SQL: "(" + left.SQL + " OR " + right.SQL + ")", Args: args}, nil
}

var predicateEvaluator = &eval.Evaluator[struct{}, struct{}, Predicate]{
	Leaf: leafPredicate,
	Not:  notPredicate,
	And:  andPredicate,
	Or:   orPredicate,
}

// Compile translates a query expression's AST into a SQL predicate over
// the files table. A nil ast (empty expression) compiles to a predicate
// that matches every file.
func Compile(ast *expr.Ast) (Predicate, error) {
	if ast == nil {
		return Predicate{SQL: "1 = 1"}, nil
	}
	var ctx struct{}
	return predicateEvaluator.Evaluate(ast, &ctx, struct{}{})
}

// Execute runs a compiled query against the database, returning the raw
// columnar form of every (file, tag) association belonging to a file
// matched by ast: the distinct files and tags involved, plus the
// association pairs between them. A nil ast selects every association
// directly, without consulting files.
func Execute(ctx context.Context, db *sql.DB, ast *expr.Ast) (*queryview.Columns, error) {
	var rows *sql.Rows
	var err error
	if ast == nil {
		rows, err = db.QueryContext(ctx, "SELECT file_id, tag_id FROM file_tags")
	} else {
		pred, cerr := Compile(ast)
		if cerr != nil {
			return nil, cerr
		}
		q := "SELECT ft.file_id, ft.tag_id FROM file_tags ft " +
			"JOIN files ON files.id = ft.file_id WHERE " + pred.SQL
		rows, err = db.QueryContext(ctx, q, pred.Args...)
	}
	if err != nil {
		return nil, errs.New("store.Execute", errs.KindStoreTransaction, err)
	}
	defer rows.Close()

	pathByID := map[model.Fid]model.FileBorrow{}
	nameByID := map[model.Tid]model.TagBorrow{}
	var pairs [][2]int64
	for rows.Next() {
		var fid, tid int64
		if err := rows.Scan(&fid, &tid); err != nil {
			return nil, errs.New("store.Execute", errs.KindStoreTransaction, err)
		}
		pairs = append(pairs, [2]int64{fid, tid})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.New("store.Execute", errs.KindStoreTransaction, err)
	}
	return pairsToColumns(ctx, db, pairs, pathByID, nameByID)
}

// ExecuteForFileIDs restricts the association fetch to a known set of
// file ids, used by the update engine once it has resolved which
// store rows fall under the paths/directories being reconciled.
func ExecuteForFileIDs(ctx context.Context, db *sql.DB, fids []model.Fid) (*queryview.Columns, error) {
	if len(fids) == 0 {
		return &queryview.Columns{}, nil
	}
	marks, args := idPlaceholders(fids)
	rows, err := db.QueryContext(ctx, "SELECT file_id, tag_id FROM file_tags WHERE file_id IN ("+marks+")", args...)
	if err != nil {
		return nil, errs.New("store.ExecuteForFileIDs", errs.KindStoreTransaction, err)
	}
	defer rows.Close()

	var pairs [][2]int64
	for rows.Next() {
		var fid, tid int64
		if err := rows.Scan(&fid, &tid); err != nil {
			return nil, errs.New("store.ExecuteForFileIDs", errs.KindStoreTransaction, err)
		}
		pairs = append(pairs, [2]int64{fid, tid})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.New("store.ExecuteForFileIDs", errs.KindStoreTransaction, err)
	}
	return pairsToColumns(ctx, db, pairs, map[model.Fid]model.FileBorrow{}, map[model.Tid]model.TagBorrow{})
}

func pairsToColumns(ctx context.Context, db *sql.DB, pairs [][2]int64,
	pathByID map[model.Fid]model.FileBorrow, nameByID map[model.Tid]model.TagBorrow) (*queryview.Columns, error) {
	if len(pairs) == 0 {
		return &queryview.Columns{}, nil
	}

	if err := hydrateFiles(ctx, db, pairs, pathByID); err != nil {
		return nil, err
	}
	if err := hydrateTags(ctx, db, pairs, nameByID); err != nil {
		return nil, err
	}

	cols := &queryview.Columns{
		Files:  make([]model.FileBorrow, 0, len(pathByID)),
		Tags:   make([]model.TagBorrow, 0, len(nameByID)),
		Assocs: make([]model.AssocIdent, 0, len(pairs)),
	}
	for _, f := range pathByID {
		cols.Files = append(cols.Files, f)
	}
	for _, tg := range nameByID {
		cols.Tags = append(cols.Tags, tg)
	}
	for _, p := range pairs {
		cols.Assocs = append(cols.Assocs, model.AssocIdent{
			File: pathByID[p[0]].Ident(),
			Tag:  nameByID[p[1]].Ident(),
		})
	}
	return cols, nil
}

func hydrateFiles(ctx context.Context, db *sql.DB, pairs [][2]int64, into map[model.Fid]model.FileBorrow) error {
	ids := uniqueFirst(pairs)
	marks, args := idPlaceholders(ids)
	rows, err := db.QueryContext(ctx, "SELECT id, path, kind FROM files WHERE id IN ("+marks+")", args...)
	if err != nil {
		return errs.New("store.Execute", errs.KindStoreTransaction, err)
	}
	defer rows.Close()
	for rows.Next() {
		var b model.FileBorrow
		var kind int64
		if err := rows.Scan(&b.ID, &b.Path, &kind); err != nil {
			return errs.New("store.Execute", errs.KindStoreTransaction, err)
		}
		b.Kind = model.Kind(kind)
		into[b.ID] = b
	}
	return rows.Err()
}

func hydrateTags(ctx context.Context, db *sql.DB, pairs [][2]int64, into map[model.Tid]model.TagBorrow) error {
	ids := uniqueSecond(pairs)
	marks, args := idPlaceholders(ids)
	rows, err := db.QueryContext(ctx, "SELECT id, name FROM tags WHERE id IN ("+marks+")", args...)
	if err != nil {
		return errs.New("store.Execute", errs.KindStoreTransaction, err)
	}
	defer rows.Close()
	for rows.Next() {
		var b model.TagBorrow
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return errs.New("store.Execute", errs.KindStoreTransaction, err)
		}
		into[b.ID] = b
	}
	return rows.Err()
}

func uniqueFirst(pairs [][2]int64) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, p := range pairs {
		if !seen[p[0]] {
			seen[p[0]] = true
			out = append(out, p[0])
		}
	}
	return out
}

func uniqueSecond(pairs [][2]int64) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, p := range pairs {
		if !seen[p[1]] {
			seen[p[1]] = true
			out = append(out, p[1])
		}
	}
	return out
}
