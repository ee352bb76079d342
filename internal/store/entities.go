package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jra3/tdb/internal/errs"
	"github.com/jra3/tdb/internal/model"
)

// FileInsert is one row to insert into files.
type FileInsert struct {
	Kind model.Kind
	Path string
}

// InsertFiles inserts new files and returns their assigned rows,
// recovering ids by re-selecting on the unique path column.
func InsertFiles(ctx context.Context, tx *sql.Tx, values []FileInsert) ([]model.FileBorrow, error) {
	if len(values) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(values))
	args := make([]any, 0, len(values)*2)
	for i, v := range values {
		placeholders[i] = "(?, ?)"
		args = append(args, int64(v.Kind), v.Path)
	}
	q := "INSERT INTO files (kind, path) VALUES " + strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return nil, errs.New("store.InsertFiles", errs.KindStoreTransaction, err)
	}

	paths := make([]any, len(values))
	qMarks := make([]string, len(values))
	for i, v := range values {
		paths[i] = v.Path
		qMarks[i] = "?"
	}
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, path, kind FROM files WHERE path IN (%s)", strings.Join(qMarks, ", ")), paths...)
	if err != nil {
		return nil, errs.New("store.InsertFiles", errs.KindStoreTransaction, err)
	}
	defer rows.Close()

	var out []model.FileBorrow
	for rows.Next() {
		var b model.FileBorrow
		var kind int64
		if err := rows.Scan(&b.ID, &b.Path, &kind); err != nil {
			return nil, errs.New("store.InsertFiles", errs.KindStoreTransaction, err)
		}
		b.Kind = model.Kind(kind)
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteFilesByID deletes files (and cascades their file_tags rows).
func DeleteFilesByID(ctx context.Context, tx *sql.Tx, ids []model.Fid) error {
	if len(ids) == 0 {
		return nil
	}
	marks, args := idPlaceholders(ids)
	_, err := tx.ExecContext(ctx, "DELETE FROM files WHERE id IN ("+marks+")", args...)
	if err != nil {
		return errs.New("store.DeleteFilesByID", errs.KindStoreTransaction, err)
	}
	return nil
}

// TagInsert is one row to insert into tags.
type TagInsert struct {
	Name string
}

// InsertTags inserts new tags and returns their assigned rows.
func InsertTags(ctx context.Context, tx *sql.Tx, values []TagInsert) ([]model.TagBorrow, error) {
	if len(values) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = "(?)"
		args[i] = v.Name
	}
	q := "INSERT INTO tags (name) VALUES " + strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return nil, errs.New("store.InsertTags", errs.KindStoreTransaction, err)
	}

	qMarks := make([]string, len(values))
	for i := range values {
		qMarks[i] = "?"
	}
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, name FROM tags WHERE name IN (%s)", strings.Join(qMarks, ", ")), args...)
	if err != nil {
		return nil, errs.New("store.InsertTags", errs.KindStoreTransaction, err)
	}
	defer rows.Close()

	var out []model.TagBorrow
	for rows.Next() {
		var b model.TagBorrow
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, errs.New("store.InsertTags", errs.KindStoreTransaction, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteTagsByID deletes tags (and cascades their file_tags rows).
func DeleteTagsByID(ctx context.Context, tx *sql.Tx, ids []model.Tid) error {
	if len(ids) == 0 {
		return nil
	}
	marks, args := idPlaceholders(ids)
	_, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id IN ("+marks+")", args...)
	if err != nil {
		return errs.New("store.DeleteTagsByID", errs.KindStoreTransaction, err)
	}
	return nil
}

// InsertFileTags inserts file-tag associations.
func InsertFileTags(ctx context.Context, tx *sql.Tx, pairs [][2]int64) error {
	if len(pairs) == 0 {
		return nil
	}
	placeholders := make([]string, len(pairs))
	args := make([]any, 0, len(pairs)*2)
	for i, p := range pairs {
		placeholders[i] = "(?, ?)"
		args = append(args, p[0], p[1])
	}
	q := "INSERT OR IGNORE INTO file_tags (file_id, tag_id) VALUES " + strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return errs.New("store.InsertFileTags", errs.KindStoreTransaction, err)
	}
	return nil
}

// DeleteFileTags deletes file-tag associations by exact pair.
func DeleteFileTags(ctx context.Context, tx *sql.Tx, pairs [][2]int64) error {
	if len(pairs) == 0 {
		return nil
	}
	clauses := make([]string, len(pairs))
	args := make([]any, 0, len(pairs)*2)
	for i, p := range pairs {
		clauses[i] = "(file_id = ? AND tag_id = ?)"
		args = append(args, p[0], p[1])
	}
	q := "DELETE FROM file_tags WHERE " + strings.Join(clauses, " OR ")
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return errs.New("store.DeleteFileTags", errs.KindStoreTransaction, err)
	}
	return nil
}

// CleanUnusedTags deletes every tag row with zero file_tags
// associations store-wide and returns the rows it removed. This is the
// only place tag rows are physically deleted; `update` never deletes a
// tag it stops seeing, since its diff is scoped to the paths under
// reconciliation while tag identity is global.
func CleanUnusedTags(ctx context.Context, tx *sql.Tx) ([]model.TagBorrow, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, name FROM tags
		WHERE id NOT IN (SELECT DISTINCT tag_id FROM file_tags)`)
	if err != nil {
		return nil, errs.New("store.CleanUnusedTags", errs.KindStoreTransaction, err)
	}
	var unused []model.TagBorrow
	for rows.Next() {
		var b model.TagBorrow
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			rows.Close()
			return nil, errs.New("store.CleanUnusedTags", errs.KindStoreTransaction, err)
		}
		unused = append(unused, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errs.New("store.CleanUnusedTags", errs.KindStoreTransaction, err)
	}
	rows.Close()

	ids := make([]model.Tid, len(unused))
	for i, b := range unused {
		ids[i] = b.ID
	}
	if err := DeleteTagsByID(ctx, tx, ids); err != nil {
		return nil, err
	}
	return unused, nil
}

func idPlaceholders(ids []int64) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}
