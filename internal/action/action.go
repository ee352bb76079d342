// Package action implements the per-file action layer that a convention
// command runs over its selected files: tag mutations requiring only a
// file iterator, and store/attribute actions requiring a mapped FileView.
package action

import (
	"github.com/jra3/tdb/internal/attr"
	"github.com/jra3/tdb/internal/errs"
	"github.com/jra3/tdb/internal/model"
	"github.com/jra3/tdb/internal/pipeline"
	"github.com/jra3/tdb/internal/queryview"
)

// TagActionKind discriminates a TagAction variant.
type TagActionKind int

const (
	TagAdd TagActionKind = iota
	TagDel
	TagMerge
	TagLink
	TagUnlink
)

// TagAction mutates a file's attribute-backed tag set, or links/unlinks
// it into a directory of symlinks. Requires only a file iterator.
type TagAction struct {
	Kind TagActionKind
	Tags []string // Add, Del
	Src  string   // Merge
	Dst  string   // Merge
	Dirs []string // Link, Unlink
}

// Forcings reports the minimum pipeline state a TagAction needs.
func (TagAction) Forcings() pipeline.Forcings { return 0 }

// ApiActionKind discriminates an ApiAction variant.
type ApiActionKind int

const (
	ApiEmit ApiActionKind = iota
	ApiForget
	ApiReport
)

// ApiAction is a store/attribute-level action requiring a FileView (a
// mapped result).
type ApiAction struct {
	Kind    ApiActionKind
	Message string // Report
}

// Forcings reports the minimum pipeline state an ApiAction needs.
func (ApiAction) Forcings() pipeline.Forcings { return pipeline.Mapped }

// Parse decodes one action's token list per the shared action grammar:
// add/del/merge/link/unlink are tag actions; emit/forget/report are api
// actions. Exactly one of the two return values is non-nil on success.
// Shared by the convention command compiler and the `query map` CLI
// subcommand so both accept identical action syntax.
func Parse(tokens []string) (*TagAction, *ApiAction, error) {
	if len(tokens) == 0 {
		return nil, nil, errs.New("action.Parse", errs.KindUnknownAction, nil)
	}
	switch tokens[0] {
	case "add":
		return &TagAction{Kind: TagAdd, Tags: tokens[1:]}, nil, nil
	case "del":
		return &TagAction{Kind: TagDel, Tags: tokens[1:]}, nil, nil
	case "merge":
		if len(tokens) != 3 {
			return nil, nil, errs.New("action.Parse", errs.KindArgument, nil)
		}
		return &TagAction{Kind: TagMerge, Src: tokens[1], Dst: tokens[2]}, nil, nil
	case "link":
		return &TagAction{Kind: TagLink, Dirs: tokens[1:]}, nil, nil
	case "unlink":
		return &TagAction{Kind: TagUnlink, Dirs: tokens[1:]}, nil, nil
	case "emit":
		return nil, &ApiAction{Kind: ApiEmit}, nil
	case "forget":
		return nil, &ApiAction{Kind: ApiForget}, nil
	case "report":
		if len(tokens) != 2 {
			return nil, nil, errs.New("action.Parse", errs.KindArgument, nil)
		}
		return nil, &ApiAction{Kind: ApiReport, Message: tokens[1]}, nil
	default:
		return nil, nil, errs.New("action.Parse", errs.KindUnknownAction, nil)
	}
}

// Report accumulates the outcome of one action invocation across every
// file it touched.
type Report struct {
	Files    []string
	updates  map[string]struct{}
	Forgets  []model.Fid
	Messages map[string][]string
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{
		updates:  map[string]struct{}{},
		Messages: map[string][]string{},
	}
}

// Updates returns the paths whose attribute state changed, in the order
// first recorded.
func (r *Report) Updates() []string {
	out := make([]string, 0, len(r.updates))
	seen := map[string]struct{}{}
	for _, p := range r.Files {
		if _, ok := r.updates[p]; ok {
			if _, dup := seen[p]; !dup {
				out = append(out, p)
				seen[p] = struct{}{}
			}
		}
	}
	return out
}

func (r *Report) recordUpdate(path string) { r.updates[path] = struct{}{} }

// Summary is the plain-data projection of a Report.
type Summary struct {
	FileCount   int
	UpdateCount int
	ForgetCount int
	Messages    map[string][]string
}

// Summarize projects r into a Summary.
func (r *Report) Summarize() Summary {
	return Summary{
		FileCount:   len(r.Files),
		UpdateCount: len(r.updates),
		ForgetCount: len(r.Forgets),
		Messages:    r.Messages,
	}
}

// ApplyTag runs a TagAction against one file's attribute handle. commit
// gates whether Link/Unlink take effect on disk and whether a dirty
// attribute file is saved; the file is always recorded as iterated, and
// a dirty attribute file is always recorded as an update regardless of
// commit.
func ApplyTag(r *Report, act TagAction, path string, commit bool) error {
	r.Files = append(r.Files, path)

	switch act.Kind {
	case TagLink:
		if !commit {
			return nil
		}
		f, err := attr.Open(path)
		if err != nil {
			return err
		}
		for _, d := range act.Dirs {
			if err := f.Link(d); err != nil {
				return err
			}
		}
		return nil

	case TagUnlink:
		if !commit {
			return nil
		}
		f, err := attr.Open(path)
		if err != nil {
			return err
		}
		for _, d := range act.Dirs {
			if err := f.Unlink(d); err != nil {
				return err
			}
		}
		return nil
	}

	f, err := attr.Open(path)
	if err != nil {
		return err
	}
	switch act.Kind {
	case TagAdd:
		for _, t := range act.Tags {
			if err := f.Add(t); err != nil {
				return err
			}
		}
	case TagDel:
		for _, t := range act.Tags {
			f.Del(t)
		}
	case TagMerge:
		if _, err := f.Merge(act.Src, act.Dst); err != nil {
			return err
		}
	}

	if f.Dirty() {
		r.recordUpdate(path)
		if commit {
			if _, err := f.Save(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyApi runs an ApiAction against one mapped file's view.
func ApplyApi(r *Report, act ApiAction, view *queryview.FileView, commit bool) error {
	r.Files = append(r.Files, view.Path())

	switch act.Kind {
	case ApiEmit:
		if !commit {
			return nil
		}
		f, err := attr.Open(view.Path())
		if err != nil {
			return err
		}
		names := make([]string, 0, len(view.Tags()))
		for _, tg := range view.Tags() {
			names = append(names, tg.Name)
		}
		if err := f.SetTags(names); err != nil {
			return err
		}
		if f.Dirty() {
			r.recordUpdate(view.Path())
			if _, err := f.Save(); err != nil {
				return err
			}
		}
	case ApiForget:
		r.Forgets = append(r.Forgets, view.ID())
	case ApiReport:
		r.Messages[view.Path()] = append(r.Messages[view.Path()], act.Message)
	default:
		return errs.New("action.ApplyApi", errs.KindUnknownAction, nil)
	}
	return nil
}
