package update

import (
	"context"
	"database/sql"

	"github.com/jra3/tdb/internal/model"
	"github.com/jra3/tdb/internal/queryview"
	"github.com/jra3/tdb/internal/store"
)

// Reconcile walks paths, diffs the result against the store, and
// applies the diff inside a single transaction: files, then tags,
// then associations. Tag rows are never deleted here; a name that no
// longer labels anything in scope may still be attached to files
// outside it, so row cleanup is left to a separate clean operation.
func Reconcile(ctx context.Context, s *store.Store, paths []string) (*Result, error) {
	scan, err := WalkPaths(paths)
	if err != nil {
		return nil, err
	}

	existingFiles, err := store.LookupFilesByPathPrefix(ctx, s.DB(), scan.Files, scan.Directories)
	if err != nil {
		return nil, err
	}
	fids := make([]model.Fid, len(existingFiles))
	for i, f := range existingFiles {
		fids[i] = f.ID
	}

	assocCols, err := store.ExecuteForFileIDs(ctx, s.DB(), fids)
	if err != nil {
		return nil, err
	}

	owned := queryview.BuildOwnedMaps(&queryview.Columns{
		Files:  existingFiles,
		Tags:   assocCols.Tags,
		Assocs: assocCols.Assocs,
	})

	result := Diff(scan, owned)

	var newTagNames []string
	foundTagIDs := map[string]model.Tid{}
	if len(result.ToInsertTags) > 0 {
		candidates := make([]string, len(result.ToInsertTags))
		for i, t := range result.ToInsertTags {
			candidates[i] = t.Name
		}
		found, err := store.LookupTagsByName(ctx, s.DB(), candidates)
		if err != nil {
			return nil, err
		}
		existsByName := map[string]bool{}
		for _, f := range found {
			existsByName[f.Name] = true
			foundTagIDs[f.Name] = f.ID
		}
		for _, name := range candidates {
			if !existsByName[name] {
				newTagNames = append(newTagNames, name)
			}
		}
	}

	err = s.WithTx(ctx, func(tx *sql.Tx) error {
		fileIDByIdent := map[model.FileIdent]model.Fid{}
		for _, f := range existingFiles {
			fileIDByIdent[f.Ident()] = f.ID
		}
		if len(result.ToInsertFiles) > 0 {
			inserts := make([]store.FileInsert, len(result.ToInsertFiles))
			for i, fi := range result.ToInsertFiles {
				inserts[i] = store.FileInsert{Kind: fi.Kind, Path: fi.Path}
			}
			inserted, err := store.InsertFiles(ctx, tx, inserts)
			if err != nil {
				return err
			}
			for _, f := range inserted {
				fileIDByIdent[f.Ident()] = f.ID
			}
		}
		if len(result.ToDeleteFiles) > 0 {
			var ids []model.Fid
			for _, fi := range result.ToDeleteFiles {
				if id, ok := fileIDByIdent[fi]; ok {
					ids = append(ids, id)
				}
			}
			if err := store.DeleteFilesByID(ctx, tx, ids); err != nil {
				return err
			}
		}

		tagIDByName := map[string]model.Tid{}
		for _, t := range owned.Columns.Tags {
			tagIDByName[t.Name] = t.ID
		}
		for n, id := range foundTagIDs {
			tagIDByName[n] = id
		}
		if len(newTagNames) > 0 {
			inserts := make([]store.TagInsert, len(newTagNames))
			for i, n := range newTagNames {
				inserts[i] = store.TagInsert{Name: n}
			}
			inserted, err := store.InsertTags(ctx, tx, inserts)
			if err != nil {
				return err
			}
			for _, t := range inserted {
				tagIDByName[t.Name] = t.ID
			}
		}

		if len(result.ToInsertAssocs) > 0 {
			var pairs [][2]int64
			for _, a := range result.ToInsertAssocs {
				fid, fok := fileIDByIdent[a.File]
				tid, tok := tagIDByName[a.Tag.Name]
				if fok && tok {
					pairs = append(pairs, [2]int64{fid, tid})
				}
			}
			if err := store.InsertFileTags(ctx, tx, pairs); err != nil {
				return err
			}
		}
		if len(result.ToDeleteAssocs) > 0 {
			var pairs [][2]int64
			for _, a := range result.ToDeleteAssocs {
				fid, fok := fileIDByIdent[a.File]
				tid, tok := tagIDByName[a.Tag.Name]
				if fok && tok {
					pairs = append(pairs, [2]int64{fid, tid})
				}
			}
			if err := store.DeleteFileTags(ctx, tx, pairs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
