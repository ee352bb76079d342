package convention

import (
	"context"
	"database/sql"

	"github.com/jra3/tdb/internal/action"
	"github.com/jra3/tdb/internal/errs"
	"github.com/jra3/tdb/internal/expr"
	"github.com/jra3/tdb/internal/model"
	"github.com/jra3/tdb/internal/pipeline"
	"github.com/jra3/tdb/internal/store"
	"github.com/jra3/tdb/internal/update"
)

// Instance is a template application: a named template plus the
// positional arguments to bind its parameters to.
type Instance struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// Convention is an optional comment plus a sequence of commands,
// materialized either from template instances or from inline commands.
type Convention struct {
	Comment   string     `yaml:"comment"`
	Instances []Instance `yaml:"instances"`
	Commands  []Command  `yaml:"commands"`
}

// FieldReport is the plain-data result of enforcing one Convention:
// one action.Report per resolved command, in order.
type FieldReport struct {
	Comment string
	Reports []*action.Report
}

// Enforce compiles every instance and inline command against
// templates/dictionary, runs each through the pipeline, applies its
// actions per file, and reconciles the store with the accumulated
// forgets and updates.
func Enforce(ctx context.Context, s *store.Store, conv Convention,
	templates map[string]Template, dictionary map[string]string, commit bool) (*FieldReport, error) {

	commands, err := resolveCommands(conv, templates, dictionary)
	if err != nil {
		return nil, err
	}

	fr := &FieldReport{Comment: conv.Comment}
	var allForgets []model.Fid
	var allUpdates []string

	for _, cc := range commands {
		results, err := pipeline.DriveForced(ctx, s.DB(), cc.Pipeline, cc.Forcings())
		if err != nil {
			return nil, err
		}
		report := action.NewReport()
		if err := runCommand(cc, results, report, commit); err != nil {
			return nil, err
		}
		fr.Reports = append(fr.Reports, report)
		allForgets = append(allForgets, report.Forgets...)
		allUpdates = append(allUpdates, report.Updates()...)
	}

	if commit {
		if len(allForgets) > 0 {
			if err := s.WithTx(ctx, func(tx *sql.Tx) error {
				return store.DeleteFilesByID(ctx, tx, allForgets)
			}); err != nil {
				return nil, err
			}
		}
		if len(allUpdates) > 0 {
			if _, err := update.Reconcile(ctx, s, allUpdates); err != nil {
				return nil, err
			}
		}
	}

	return fr, nil
}

func resolveCommands(conv Convention, templates map[string]Template, dictionary map[string]string) ([]*CompiledCommand, error) {
	exp := expr.New(dictionary)

	var out []*CompiledCommand
	for _, inst := range conv.Instances {
		tmpl, ok := templates[inst.Name]
		if !ok {
			return nil, errs.New("convention.resolveCommands", errs.KindUnknownTemplate, nil)
		}
		ccs, err := tmpl.Instantiate(inst.Args, dictionary)
		if err != nil {
			return nil, err
		}
		out = append(out, ccs...)
	}
	for _, cmd := range conv.Commands {
		cc, err := cmd.Configure(exp)
		if err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, nil
}

func runCommand(cc *CompiledCommand, results *pipeline.Results, report *action.Report, commit bool) error {
	needsViews := false
	for _, a := range cc.Actions {
		if a.api != nil {
			needsViews = true
		}
	}

	if needsViews {
		views, err := results.FileViewIter()
		if err != nil {
			return err
		}
		for _, view := range views {
			for _, a := range cc.Actions {
				if a.api != nil {
					if err := action.ApplyApi(report, *a.api, view, commit); err != nil {
						return err
					}
				} else {
					if err := action.ApplyTag(report, *a.tag, view.Path(), commit); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	files, err := results.FileIter()
	if err != nil {
		return err
	}
	for _, f := range files {
		for _, a := range cc.Actions {
			if err := action.ApplyTag(report, *a.tag, f.Path, commit); err != nil {
				return err
			}
		}
	}
	return nil
}
