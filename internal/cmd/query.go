package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jra3/tdb/internal/action"
	"github.com/jra3/tdb/internal/errs"
	"github.com/jra3/tdb/internal/expr"
	"github.com/jra3/tdb/internal/pipeline"
	"github.com/jra3/tdb/internal/store"
	"github.com/jra3/tdb/internal/update"
)

var (
	queryFilter string
	queryPipe   string
	queryCommit bool
)

var queryCmd = &cobra.Command{
	Use:   "query <expr> [count|serialize [yaml|json|plain]|map <action> [args...]]",
	Short: "Run a query against the tag index",
	Long: `Run <expr> against the store. With no further argument the matching
files are serialized as with "serialize", in plain format when stdout is
a terminal and json otherwise. "count" prints the
matching file and tag counts; "serialize [yaml|json|plain]" emits
structured {path, tags} records; "map <action> [args...]" applies a tag
or store action to every matching file (see "tdb convention enforce"
for the action grammar).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryFilter, "filter", "", "filter expression applied to mapped results")
	queryCmd.Flags().StringVar(&queryPipe, "pipe", "", "shell command piped over mapped results ({} is the file path)")
	queryCmd.Flags().BoolVar(&queryCommit, "commit", false, "apply a map action's effects instead of a dry run")
	rootCmd.AddCommand(queryCmd)
}

func compileQueryExpr(exp *expr.Expansions, src string) (*expr.Ast, error) {
	if src == "" {
		return nil, nil
	}
	expanded, err := exp.Expand(src)
	if err != nil {
		return nil, err
	}
	tokens, err := expr.Tokenize(expanded)
	if err != nil {
		return nil, err
	}
	return expr.Parse(tokens)
}

// defaultSerializeFormat picks "plain" for a human at a terminal and
// "json" for a machine reading a pipe or redirect, mirroring
// internal/logging's text-vs-JSON handler choice.
func defaultSerializeFormat(w any) string {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "plain"
	}
	return "json"
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	exp := expr.New(cfg.Dictionary)

	query, err := compileQueryExpr(exp, args[0])
	if err != nil {
		return err
	}
	filter, err := compileQueryExpr(exp, queryFilter)
	if err != nil {
		return err
	}
	p := pipeline.Pipeline{Query: query, Filter: filter}
	if queryPipe != "" {
		pipe, err := exp.Expand(queryPipe)
		if err != nil {
			return err
		}
		p.Pipe = &pipe
	}

	verb := "serialize"
	rest := args[1:]
	if len(args) > 1 {
		verb = args[1]
		rest = args[2:]
	}

	switch verb {
	case "count":
		results, err := pipeline.Drive(ctx, s.DB(), p)
		if err != nil {
			return err
		}
		fileCount, err := pipeline.FileCount.Collect(results)
		if err != nil {
			return err
		}
		tagCount, err := pipeline.TagCount.Collect(results)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d tags\n", fileCount, tagCount)
		return nil

	case "serialize":
		format := defaultSerializeFormat(cmd.OutOrStdout())
		if len(rest) > 0 {
			format = rest[0]
		}
		results, err := pipeline.DriveForced(ctx, s.DB(), p, pipeline.Mapped)
		if err != nil {
			return err
		}
		var out string
		switch format {
		case "yaml":
			out, err = pipeline.Yaml.Collect(results)
		case "json":
			out, err = pipeline.Json.Collect(results)
		case "plain":
			out, err = pipeline.Plain.Collect(results)
		default:
			return errs.New("cmd.runQuery", errs.KindArgument, nil)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil

	case "map":
		return runQueryMap(cmd, s, p, rest)

	default:
		return errs.New("cmd.runQuery", errs.KindArgument, nil)
	}
}

func runQueryMap(cmd *cobra.Command, s *store.Store, p pipeline.Pipeline, tokens []string) error {
	tag, api, err := action.Parse(tokens)
	if err != nil {
		return err
	}
	var forcings pipeline.Forcings
	if api != nil {
		forcings = api.Forcings()
	} else {
		forcings = tag.Forcings()
	}

	ctx := cmd.Context()
	results, err := pipeline.DriveForced(ctx, s.DB(), p, forcings)
	if err != nil {
		return err
	}

	report := action.NewReport()
	if api != nil {
		views, err := results.FileViewIter()
		if err != nil {
			return err
		}
		for _, view := range views {
			if err := action.ApplyApi(report, *api, view, queryCommit); err != nil {
				return err
			}
		}
	} else {
		files, err := results.FileIter()
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := action.ApplyTag(report, *tag, f.Path, queryCommit); err != nil {
				return err
			}
		}
	}

	if queryCommit {
		if len(report.Forgets) > 0 {
			if err := s.WithTx(ctx, func(tx *sql.Tx) error {
				return store.DeleteFilesByID(ctx, tx, report.Forgets)
			}); err != nil {
				return err
			}
		}
		if updates := report.Updates(); len(updates) > 0 {
			if _, err := update.Reconcile(ctx, s, updates); err != nil {
				return err
			}
		}
	}

	summary := report.Summarize()
	fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d updated, %d forgotten\n",
		summary.FileCount, summary.UpdateCount, summary.ForgetCount)
	return nil
}
