package pipeline

import (
	"encoding/json"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jra3/tdb/internal/model"
)

// apiTagPrefix marks the tdb:: ghost-tag namespace (which includes the
// API tag the attribute layer injects); serializers hide these tags from
// their output.
const apiTagPrefix = "tdb::"

// Collector reduces a driven pipeline's Results into a caller-facing Out.
type Collector[Out any] interface {
	Forcings() Forcings
	Collect(r *Results) (Out, error)
}

type collectorFunc[Out any] struct {
	forcings Forcings
	collect  func(*Results) (Out, error)
}

func (c collectorFunc[Out]) Forcings() Forcings           { return c.forcings }
func (c collectorFunc[Out]) Collect(r *Results) (Out, error) { return c.collect(r) }

// FileIds collects every surviving file's id.
var FileIds = collectorFunc[[]model.Fid]{
	forcings: 0,
	collect: func(r *Results) ([]model.Fid, error) {
		files, err := r.FileIter()
		if err != nil {
			return nil, err
		}
		out := make([]model.Fid, len(files))
		for i, f := range files {
			out[i] = f.ID
		}
		return out, nil
	},
}

// TagIds collects every tag's id in scope.
var TagIds = collectorFunc[[]model.Tid]{
	forcings: 0,
	collect: func(r *Results) ([]model.Tid, error) {
		tags, err := r.TagIter()
		if err != nil {
			return nil, err
		}
		out := make([]model.Tid, len(tags))
		for i, t := range tags {
			out[i] = t.ID
		}
		return out, nil
	},
}

// FileCount collects the number of files in scope.
var FileCount = collectorFunc[int]{
	forcings: 0,
	collect: func(r *Results) (int, error) {
		files, err := r.FileIter()
		return len(files), err
	},
}

// TagCount collects the number of tags in scope.
var TagCount = collectorFunc[int]{
	forcings: 0,
	collect: func(r *Results) (int, error) {
		tags, err := r.TagIter()
		return len(tags), err
	},
}

// FilePaths collects every file's path, newline-joined.
var FilePaths = collectorFunc[string]{
	forcings: 0,
	collect: func(r *Results) (string, error) {
		files, err := r.FileIter()
		if err != nil {
			return "", err
		}
		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = f.Path
		}
		return strings.Join(paths, "\n"), nil
	},
}

// TagNames collects every tag's name, sorted lexically.
var TagNames = collectorFunc[[]string]{
	forcings: 0,
	collect: func(r *Results) ([]string, error) {
		tags, err := r.TagIter()
		if err != nil {
			return nil, err
		}
		out := make([]string, len(tags))
		for i, t := range tags {
			out[i] = t.Name
		}
		sort.Strings(out)
		return out, nil
	},
}

// TagFileRecord is one tag's file membership.
type TagFileRecord struct {
	Tag   string
	Files []string
}

// TagFiles collects, for each tag in scope, the paths of files carrying
// it. Requires Mapped (or a further-restricted variant) so file/tag
// associations are indexed.
var TagFiles = collectorFunc[[]TagFileRecord]{
	forcings: Mapped,
	collect: func(r *Results) ([]TagFileRecord, error) {
		views, err := r.TagViewIter()
		if err != nil {
			return nil, err
		}
		out := make([]TagFileRecord, 0, len(views))
		for _, v := range views {
			files := v.Files()
			paths := make([]string, len(files))
			for i, f := range files {
				paths[i] = f.Path
			}
			sort.Strings(paths)
			out = append(out, TagFileRecord{Tag: v.Name(), Files: paths})
		}
		return out, nil
	},
}

// Record is one file's tag membership, as emitted by the serializers.
type Record struct {
	Path string   `json:"path" yaml:"path"`
	Tags []string `json:"tags" yaml:"tags"`
}

func serializeRecords(r *Results) ([]Record, error) {
	views, err := r.FileViewIter()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(views))
	for _, v := range views {
		var tags []string
		for _, tg := range v.Tags() {
			if strings.HasPrefix(tg.Name, apiTagPrefix) {
				continue
			}
			tags = append(tags, tg.Name)
		}
		sort.Strings(tags)
		out = append(out, Record{Path: v.Path(), Tags: tags})
	}
	return out, nil
}

// Plain collects {path, tags} records as plain `path: tag1 tag2` lines.
var Plain = collectorFunc[string]{
	forcings: Mapped,
	collect: func(r *Results) (string, error) {
		records, err := serializeRecords(r)
		if err != nil {
			return "", err
		}
		lines := make([]string, len(records))
		for i, rec := range records {
			lines[i] = rec.Path + ": " + strings.Join(rec.Tags, " ")
		}
		return strings.Join(lines, "\n"), nil
	},
}

// Yaml collects {path, tags} records as YAML.
var Yaml = collectorFunc[string]{
	forcings: Mapped,
	collect: func(r *Results) (string, error) {
		records, err := serializeRecords(r)
		if err != nil {
			return "", err
		}
		b, err := yaml.Marshal(records)
		return string(b), err
	},
}

// Json collects {path, tags} records as JSON.
var Json = collectorFunc[string]{
	forcings: Mapped,
	collect: func(r *Results) (string, error) {
		records, err := serializeRecords(r)
		if err != nil {
			return "", err
		}
		b, err := json.MarshalIndent(records, "", "  ")
		return string(b), err
	},
}
