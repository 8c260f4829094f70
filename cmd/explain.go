package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quarrydata/quarry/internal/catalog"
	"github.com/quarrydata/quarry/internal/config"
	"github.com/quarrydata/quarry/internal/store"
	"github.com/quarrydata/quarry/pkg/export"
	"github.com/quarrydata/quarry/pkg/semantics"
)

type explainOptions struct {
	model      string
	dimensions []string
	metrics    []string
	filters    []string
	where      string
	orderBy    []string
	limit      int
	page       int
	offset     int
	execute    bool
	output     string
}

// NewExplainCommand builds the command that compiles a query from flags and
// prints the resulting SQL. With --execute it also runs the query.
func NewExplainCommand(cfg *config.Configuration) *cobra.Command {
	opts := &explainOptions{limit: -1, page: -1, offset: -1}

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Compile a semantic query and print its SQL",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			bindEnvVars(cmd)
			if opts.model == "" {
				return fmt.Errorf("--model is required")
			}
			if opts.output != "" && !opts.execute {
				return fmt.Errorf("--output requires --execute")
			}
			return validateConfiguration(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.Context(), cfg, opts)
		},
	}

	registerConfigFlags(cmd, cfg)

	flags := cmd.Flags()
	flags.StringVar(&opts.model, "model", "", "semantic model to query")
	flags.StringSliceVar(&opts.dimensions, "dimension", nil, "dimension to select, repeatable")
	flags.StringSliceVar(&opts.metrics, "metric", nil, "metric to select, repeatable")
	flags.StringArrayVar(&opts.filters, "filter", nil, "filter condition as name:op=value, repeatable")
	flags.StringVar(&opts.where, "where", "", "free-form predicate expression")
	flags.StringSliceVar(&opts.orderBy, "order-by", nil, "sort entry as field:asc or field:desc, repeatable")
	flags.IntVar(&opts.limit, "limit", opts.limit, "row limit")
	flags.IntVar(&opts.page, "page", opts.page, "page number, overrides --offset")
	flags.IntVar(&opts.offset, "offset", opts.offset, "row offset")
	flags.BoolVar(&opts.execute, "execute", false, "run the query and print the rows")
	flags.StringVar(&opts.output, "output", "", "write executed rows to this .xlsx file")

	return cmd
}

func runExplain(ctx context.Context, cfg *config.Configuration, opts *explainOptions) error {
	if err := setupLogger("warn"); err != nil {
		return err
	}
	defer func() { _ = zap.S().Sync() }()

	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	st := store.NewStore(db)
	defer func() { _ = st.Close() }()

	cat := catalog.New(st.Dataset())
	if err := registerModels(ctx, cat, cfg); err != nil {
		return err
	}

	model, err := cat.Get(opts.model)
	if err != nil {
		return err
	}

	builder, err := buildRequest(model, opts)
	if err != nil {
		return err
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return err
	}

	color.Cyan("%s", query)
	if len(args) > 0 {
		color.Yellow("args: %v", args)
	}

	if !opts.execute {
		return nil
	}

	result, err := builder.Execute(ctx, st.DB())
	if err != nil {
		return err
	}

	fmt.Println(strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	color.Green("%d row(s)", len(result.Rows))

	if opts.output != "" {
		if err := export.WriteXLSX(result, opts.output); err != nil {
			return err
		}
		color.Green("written to %s", opts.output)
	}
	return nil
}

func buildRequest(model *semantics.Model, opts *explainOptions) (*semantics.Builder, error) {
	builder := model.Build().
		Dimensions(opts.dimensions...).
		Metrics(opts.metrics...)

	for _, raw := range opts.filters {
		name, op, value, err := parseFilterFlag(raw)
		if err != nil {
			return nil, err
		}
		builder = builder.Filter(name, op, value)
	}

	if opts.where != "" {
		builder = builder.Where(opts.where)
	}
	for _, raw := range opts.orderBy {
		field, desc, err := parseOrderByFlag(raw)
		if err != nil {
			return nil, err
		}
		builder = builder.OrderBy(field, desc)
	}
	if opts.limit >= 0 {
		builder = builder.Limit(opts.limit)
	}
	if opts.page >= 0 {
		builder = builder.Page(opts.page)
	}
	if opts.offset >= 0 {
		builder = builder.Offset(opts.offset)
	}
	return builder, nil
}

// parseFilterFlag splits a name:op=value flag. List-valued operators take
// comma-separated values; scalars are parsed as bool, number or string.
func parseFilterFlag(raw string) (string, semantics.Operator, any, error) {
	head, rawValue, ok := strings.Cut(raw, "=")
	if !ok {
		return "", "", nil, fmt.Errorf("invalid filter %q, expected name:op=value", raw)
	}
	name, opName, ok := strings.Cut(head, ":")
	if !ok {
		return "", "", nil, fmt.Errorf("invalid filter %q, expected name:op=value", raw)
	}

	op := semantics.Operator(opName)
	switch op {
	case semantics.OpIn, semantics.OpNotIn, semantics.OpBetween:
		parts := strings.Split(rawValue, ",")
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			values = append(values, parseScalar(strings.TrimSpace(p)))
		}
		return name, op, values, nil
	default:
		return name, op, parseScalar(rawValue), nil
	}
}

func parseScalar(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func parseOrderByFlag(raw string) (string, bool, error) {
	field, dir, ok := strings.Cut(raw, ":")
	if !ok {
		return raw, false, nil
	}
	switch strings.ToLower(dir) {
	case "asc":
		return field, false, nil
	case "desc":
		return field, true, nil
	default:
		return "", false, fmt.Errorf("invalid sort direction %q, must be asc or desc", dir)
	}
}
