package catalog

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/quarrydata/quarry/pkg/semantics"
)

// File-backed model definitions. The file holds a top-level "models" list;
// the format is whatever viper can read (yaml, json, toml).

type fileModel struct {
	Name       string
	Table      string
	Strict     bool
	Dimensions map[string]fileDimension
	Metrics    map[string]fileMetric
	Filters    map[string]fileFilter
	Sortable   []string
	Defaults   fileDefaults
}

type fileDimension struct {
	Column string
	Expr   string
	As     string
}

type fileMetric struct {
	Agg string
	As  string
}

type fileFilter struct {
	Column    string
	Operators []string
	InputType string `mapstructure:"input_type"`
}

type fileDefaults struct {
	OrderBy  []fileSort `mapstructure:"order_by"`
	GroupBy  []string   `mapstructure:"group_by"`
	Limit    int
	MaxLimit int `mapstructure:"max_limit"`
}

type fileSort struct {
	Field string
	Desc  bool
}

// LoadFile reads model definitions from path.
func LoadFile(path string) ([]ModelSpec, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading model definitions from %q: %w", path, err)
	}

	var decls []fileModel
	if err := v.UnmarshalKey("models", &decls); err != nil {
		return nil, fmt.Errorf("parsing model definitions from %q: %w", path, err)
	}

	specs := make([]ModelSpec, 0, len(decls))
	for _, decl := range decls {
		if decl.Name == "" || decl.Table == "" {
			return nil, fmt.Errorf("model definition in %q is missing name or table", path)
		}
		specs = append(specs, decl.toSpec())
	}
	return specs, nil
}

func (d fileModel) toSpec() ModelSpec {
	spec := ModelSpec{
		Name:     d.Name,
		Table:    d.Table,
		Strict:   d.Strict,
		Sortable: d.Sortable,
	}

	if len(d.Dimensions) > 0 {
		spec.Dimensions = make(map[string]semantics.Dimension, len(d.Dimensions))
		for name, dim := range d.Dimensions {
			spec.Dimensions[name] = semantics.Dimension{Column: dim.Column, Expr: dim.Expr, As: dim.As}
		}
	}
	if len(d.Metrics) > 0 {
		spec.Metrics = make(map[string]semantics.Metric, len(d.Metrics))
		for name, met := range d.Metrics {
			spec.Metrics[name] = semantics.Metric{Agg: met.Agg, As: met.As}
		}
	}
	if len(d.Filters) > 0 {
		spec.Filters = make(map[string]semantics.Filter, len(d.Filters))
		for name, flt := range d.Filters {
			ops := make([]semantics.Operator, 0, len(flt.Operators))
			for _, op := range flt.Operators {
				ops = append(ops, semantics.Operator(op))
			}
			spec.Filters[name] = semantics.Filter{Column: flt.Column, Operators: ops, InputType: flt.InputType}
		}
	}

	spec.Defaults = semantics.Defaults{
		GroupBy:  d.Defaults.GroupBy,
		Limit:    d.Defaults.Limit,
		MaxLimit: d.Defaults.MaxLimit,
	}
	for _, s := range d.Defaults.OrderBy {
		spec.Defaults.OrderBy = append(spec.Defaults.OrderBy, semantics.SortParam{Field: s.Field, Desc: s.Desc})
	}

	return spec
}
