// Package pipeline drives a database query through its forcing-dependent
// stages: raw association fetch, optional index-building, optional
// filtering, and optional shell piping, down to a terminal Results value.
package pipeline

import (
	"context"
	"database/sql"
	"os/exec"
	"strings"

	"github.com/jra3/tdb/internal/errs"
	"github.com/jra3/tdb/internal/expr"
	"github.com/jra3/tdb/internal/filterdsl"
	"github.com/jra3/tdb/internal/model"
	"github.com/jra3/tdb/internal/queryview"
	"github.com/jra3/tdb/internal/shellquote"
	"github.com/jra3/tdb/internal/store"
)

// Forcings is the set of downstream requirements a request places on the
// pipeline. Filtered and Piped both imply Mapped.
type Forcings uint8

const (
	Mapped Forcings = 1 << iota
	Filtered
	Piped
)

// Has reports whether f includes every bit of x.
func (f Forcings) Has(x Forcings) bool { return f&x == x }

// Normalize ensures Filtered/Piped imply Mapped.
func Normalize(f Forcings) Forcings {
	if f&(Filtered|Piped) != 0 {
		f |= Mapped
	}
	return f
}

// Pipeline is one database query request.
type Pipeline struct {
	Query  *expr.Ast
	Filter *expr.Ast
	Pipe   *string
}

// DeriveForcings computes the minimum forcings implied by a Pipeline's
// shape: a filter forces Mapped|Filtered, a pipe forces Mapped|Piped.
func DeriveForcings(p Pipeline) Forcings {
	var f Forcings
	if p.Filter != nil {
		f |= Mapped | Filtered
	}
	if p.Pipe != nil {
		f |= Mapped | Piped
	}
	return f
}

// ResultsKind discriminates the terminal variant of a driven pipeline.
type ResultsKind int

const (
	ResultsUnassociated ResultsKind = iota
	ResultsUnmapped
	ResultsMapped
	ResultsFiltered
	ResultsPiped
)

// Results is the terminal Done payload of a driven pipeline.
type Results struct {
	Kind        ResultsKind
	Columns     *queryview.Columns  // Unassociated, Unmapped
	Owned       *queryview.OwnedMaps // Mapped, Filtered, Piped
	SurvivingID []model.Fid          // Filtered, Piped: ids that passed
}

// ErrWrongState reports that a Results variant doesn't support the
// requested iterator.
var ErrWrongState = errs.New("pipeline.Results", errs.KindWrongPipelineState, nil)

// FileIter returns every file Borrow in scope, available for every
// variant.
func (r *Results) FileIter() ([]model.FileBorrow, error) {
	if r.Columns != nil {
		return r.Columns.Files, nil
	}
	if r.Owned != nil {
		if r.Kind != ResultsFiltered && r.Kind != ResultsPiped {
			return r.Owned.Columns.Files, nil
		}
		out := make([]model.FileBorrow, 0, len(r.SurvivingID))
		for _, fid := range r.SurvivingID {
			if fb, ok := r.Owned.Maps.FileByID(fid); ok {
				out = append(out, fb)
			}
		}
		return out, nil
	}
	return nil, ErrWrongState
}

// TagIter returns every tag Borrow in scope, available for every variant.
func (r *Results) TagIter() ([]model.TagBorrow, error) {
	if r.Columns != nil {
		return r.Columns.Tags, nil
	}
	if r.Owned != nil {
		return r.Owned.Columns.Tags, nil
	}
	return nil, ErrWrongState
}

// FileViewIter returns a FileView per surviving file. Requires Mapped,
// Filtered, or Piped.
func (r *Results) FileViewIter() ([]*queryview.FileView, error) {
	if r.Owned == nil {
		return nil, ErrWrongState
	}
	ids := r.scopeIDs()
	out := make([]*queryview.FileView, 0, len(ids))
	for _, fid := range ids {
		if fb, ok := r.Owned.Maps.FileByID(fid); ok {
			out = append(out, queryview.NewFileView(r.Owned.Maps, fb))
		}
	}
	return out, nil
}

// TagViewIter returns a TagView per tag in scope. Requires Mapped,
// Filtered, or Piped.
func (r *Results) TagViewIter() ([]*queryview.TagView, error) {
	if r.Owned == nil {
		return nil, ErrWrongState
	}
	out := make([]*queryview.TagView, 0, len(r.Owned.Columns.Tags))
	for _, tg := range r.Owned.Columns.Tags {
		out = append(out, queryview.NewTagView(r.Owned.Maps, tg))
	}
	return out, nil
}

func (r *Results) scopeIDs() []model.Fid {
	if r.Kind == ResultsFiltered || r.Kind == ResultsPiped {
		return r.SurvivingID
	}
	return r.Owned.Maps.FileIDs()
}

// Drive runs a Pipeline to completion against db, advancing through
// Init -> Raw -> {Unassociated | Unmapped -> Mapped -> {Filtered,
// Piped}} -> Done. Any stage error aborts the whole drive.
func Drive(ctx context.Context, db *sql.DB, p Pipeline) (*Results, error) {
	return DriveForced(ctx, db, p, 0)
}

// DriveForced is Drive, but with an additional floor on the forcings
// applied: callers whose downstream consumer needs Mapped results
// regardless of whether p itself carries a filter or pipe (e.g. a
// convention command whose actions require a FileView) pass that
// requirement in explicitly.
func DriveForced(ctx context.Context, db *sql.DB, p Pipeline, min Forcings) (*Results, error) {
	forcings := Normalize(DeriveForcings(p) | min)

	cols, err := store.Execute(ctx, db, p.Query)
	if err != nil {
		return nil, err
	}

	if forcings == 0 {
		return &Results{Kind: ResultsUnassociated, Columns: cols}, nil
	}

	owned := queryview.BuildOwnedMaps(cols)

	if !forcings.Has(Filtered) && !forcings.Has(Piped) {
		return &Results{Kind: ResultsMapped, Owned: owned}, nil
	}

	var survivors []model.Fid
	kind := ResultsMapped
	if forcings.Has(Filtered) {
		survivors, err = applyFilter(owned, p.Filter)
		if err != nil {
			return nil, err
		}
		kind = ResultsFiltered
	} else {
		survivors = owned.Maps.FileIDs()
	}

	if forcings.Has(Piped) {
		survivors, err = applyPipe(owned, survivors, p.Pipe)
		if err != nil {
			return nil, err
		}
		kind = ResultsPiped
	}

	return &Results{Kind: kind, Owned: owned, SurvivingID: survivors}, nil
}

func applyFilter(owned *queryview.OwnedMaps, filter *expr.Ast) ([]model.Fid, error) {
	fctx := filterdsl.NewCtx()
	var out []model.Fid
	for _, fid := range owned.Maps.FileIDs() {
		fb, ok := owned.Maps.FileByID(fid)
		if !ok {
			continue
		}
		view := queryview.NewFileView(owned.Maps, fb)
		ok, err := filterdsl.Match(fctx, filter, view)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, fid)
		}
	}
	return out, nil
}

func applyPipe(owned *queryview.OwnedMaps, candidates []model.Fid, pipe *string) ([]model.Fid, error) {
	if pipe == nil {
		return candidates, nil
	}
	var out []model.Fid
	for _, fid := range candidates {
		fb, ok := owned.Maps.FileByID(fid)
		if !ok {
			continue
		}
		if err := filterdsl.SpawnLimiter.Wait(context.Background()); err != nil {
			return nil, err
		}
		cmdline := strings.ReplaceAll(*pipe, "{}", shellquote.Quote(fb.Path))
		cmd := exec.Command("sh", "-c", cmdline)
		if err := cmd.Run(); err == nil {
			out = append(out, fid)
		}
	}
	return out, nil
}
