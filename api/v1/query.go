package v1

import (
	"github.com/quarrydata/quarry/pkg/semantics"
)

// SortParam is one ORDER BY entry.
type SortParam struct {
	Field string `json:"field" binding:"required"`
	Desc  bool   `json:"desc"`
}

// Sort is the single-field sort pair. An empty direction means descending.
type Sort struct {
	Field     string `json:"field" binding:"required"`
	Direction string `json:"direction" binding:"omitempty,oneof=ASC DESC"`
}

// QueryRequest is the wire form of a semantic query.
type QueryRequest struct {
	Dimensions []string                  `json:"dimensions"`
	Metrics    []string                  `json:"metrics"`
	Filters    map[string]map[string]any `json:"filters"`
	Where      string                    `json:"where"`
	OrderBy    []SortParam               `json:"orderBy"`
	Sort       *Sort                     `json:"sort"`
	Limit      *int                      `json:"limit" binding:"omitempty,gte=0"`
	Page       *int                      `json:"page" binding:"omitempty,gte=0"`
	Offset     *int                      `json:"offset" binding:"omitempty,gte=0"`
}

// ToModel converts the wire request into the compiler's request form.
func (r QueryRequest) ToModel() semantics.Request {
	req := semantics.Request{
		Dimensions: r.Dimensions,
		Metrics:    r.Metrics,
		Where:      r.Where,
		Limit:      r.Limit,
		Page:       r.Page,
		Offset:     r.Offset,
	}

	if len(r.Filters) > 0 {
		req.Filters = make(map[string]map[semantics.Operator]any, len(r.Filters))
		for name, ops := range r.Filters {
			conds := make(map[semantics.Operator]any, len(ops))
			for op, value := range ops {
				conds[semantics.Operator(op)] = value
			}
			req.Filters[name] = conds
		}
	}

	for _, s := range r.OrderBy {
		req.OrderBy = append(req.OrderBy, semantics.SortParam{Field: s.Field, Desc: s.Desc})
	}
	if r.Sort != nil {
		req.Sort = &semantics.Sort{
			Field:     r.Sort.Field,
			Direction: semantics.Direction(r.Sort.Direction),
		}
	}

	return req
}

// QueryResponse carries the executed result set.
type QueryResponse struct {
	Model   string   `json:"model"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewQueryResponse converts an executed result into its wire form.
func NewQueryResponse(model string, result *semantics.Result) QueryResponse {
	resp := QueryResponse{
		Model:   model,
		Columns: result.Columns,
		Rows:    result.Rows,
	}
	if resp.Rows == nil {
		resp.Rows = [][]any{}
	}
	return resp
}

// ExplainResponse carries the compiled statement without executing it.
type ExplainResponse struct {
	Model string `json:"model"`
	SQL   string `json:"sql"`
	Args  []any  `json:"args"`
}

// ModelSummary describes one registered model for discovery.
type ModelSummary struct {
	Name       string            `json:"name"`
	Table      string            `json:"table"`
	Dimensions []string          `json:"dimensions"`
	Metrics    []string          `json:"metrics"`
	Filters    map[string]string `json:"filters"` // filter name to input-type hint
}

// NewModelSummary builds the discovery view of a compiled model.
func NewModelSummary(name string, model *semantics.Model) ModelSummary {
	return ModelSummary{
		Name:       name,
		Table:      model.Table().Name,
		Dimensions: model.DimensionNames(),
		Metrics:    model.MetricNames(),
		Filters:    model.FilterHints(),
	}
}

// ModelListResponse is the payload of the model discovery endpoint.
type ModelListResponse struct {
	Models []ModelSummary `json:"models"`
}
