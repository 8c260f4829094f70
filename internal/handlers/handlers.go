package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quarrydata/quarry/internal/services"
)

type Handler struct {
	querySrv *services.QueryService
}

func New(querySrv *services.QueryService) *Handler {
	return &Handler{
		querySrv: querySrv,
	}
}

// Register attaches the API routes to the router group.
func (h *Handler) Register(router *gin.RouterGroup) {
	router.GET("/models", h.ListModels)
	router.GET("/history", h.GetHistory)
	router.POST("/models/:name/query", h.RunQuery)
	router.POST("/models/:name/explain", h.ExplainQuery)
}
