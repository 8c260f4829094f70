package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/quarrydata/quarry/api/v1"
	"github.com/quarrydata/quarry/internal/catalog"
	"github.com/quarrydata/quarry/pkg/semantics"
)

const defaultHistorySize = 50

// ListModels returns the registered semantic models
// (GET /models)
func (h *Handler) ListModels(c *gin.Context) {
	names := h.querySrv.Models()

	summaries := make([]v1.ModelSummary, 0, len(names))
	for _, name := range names {
		model, err := h.querySrv.Describe(name)
		if err != nil {
			continue
		}
		summaries = append(summaries, v1.NewModelSummary(name, model))
	}

	c.JSON(http.StatusOK, v1.ModelListResponse{Models: summaries})
}

// RunQuery compiles and executes a semantic query against a model
// (POST /models/{name}/query)
func (h *Handler) RunQuery(c *gin.Context) {
	name := c.Param("name")

	var body v1.QueryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.querySrv.Query(c.Request.Context(), name, body.ToModel())
	if err != nil {
		respondQueryError(c, name, err)
		return
	}

	c.JSON(http.StatusOK, v1.NewQueryResponse(name, result))
}

// ExplainQuery compiles a semantic query without executing it
// (POST /models/{name}/explain)
func (h *Handler) ExplainQuery(c *gin.Context) {
	name := c.Param("name")

	var body v1.QueryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	compiled, err := h.querySrv.Explain(name, body.ToModel())
	if err != nil {
		respondQueryError(c, name, err)
		return
	}

	args := compiled.Args
	if args == nil {
		args = []any{}
	}
	c.JSON(http.StatusOK, v1.ExplainResponse{Model: name, SQL: compiled.SQL, Args: args})
}

// GetHistory returns the most recently executed queries
// (GET /history)
func (h *Handler) GetHistory(c *gin.Context) {
	records, err := h.querySrv.History(c.Request.Context(), defaultHistorySize)
	if err != nil {
		zap.S().Named("query_handler").Errorw("failed to load query history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load query history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

func respondQueryError(c *gin.Context, model string, err error) {
	switch {
	case catalog.IsModelNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case semantics.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		zap.S().Named("query_handler").Errorw("query failed", "model", model, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
	}
}
