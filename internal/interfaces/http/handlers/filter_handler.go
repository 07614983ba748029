package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molrad/internal/application/filters"
	"github.com/turtacn/molrad/pkg/errors"
)

// FilterService is the part of filters.Service the handler uses.
type FilterService interface {
	Describe() filters.Description
	Evaluate(ctx context.Context, req filters.EvaluateRequest) (*filters.EvaluateResult, error)
	EvaluateBatch(ctx context.Context, reqs []filters.EvaluateRequest, concurrency int) ([]*filters.EvaluateResult, error)
}

// FilterHandler serves the radial filter bank.
type FilterHandler struct {
	svc              FilterService
	batchConcurrency int
}

// NewFilterHandler creates a FilterHandler.  batchConcurrency bounds
// parallel evaluation in batch requests.
func NewFilterHandler(svc FilterService, batchConcurrency int) *FilterHandler {
	return &FilterHandler{svc: svc, batchConcurrency: batchConcurrency}
}

// RegisterRoutes mounts the filter endpoints on rg.
func (h *FilterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/filters", h.Describe)
	rg.GET("/filters/levels/:level", h.DescribeLevel)
	rg.POST("/filters/evaluate", h.Evaluate)
	rg.POST("/filters/evaluate/batch", h.EvaluateBatch)
}

// Describe handles GET /v1/filters.
func (h *FilterHandler) Describe(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Describe())
}

// levelURI binds the :level path parameter.
type levelURI struct {
	Level int `uri:"level" binding:"min=0"`
}

// DescribeLevel handles GET /v1/filters/levels/:level.
func (h *FilterHandler) DescribeLevel(c *gin.Context) {
	var uri levelURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	d := h.svc.Describe()
	if uri.Level >= len(d.Levels) {
		writeAppError(c, errors.NotFound("no such level"))
		return
	}
	c.JSON(http.StatusOK, d.Levels[uri.Level])
}

// Evaluate handles POST /v1/filters/evaluate.
func (h *FilterHandler) Evaluate(c *gin.Context) {
	var req filters.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Evaluate(c.Request.Context(), req)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// BatchRequest wraps several evaluation requests.
type BatchRequest struct {
	Requests []filters.EvaluateRequest `json:"requests" binding:"required,min=1"`
}

// BatchResponse returns results in request order.
type BatchResponse struct {
	Results []*filters.EvaluateResult `json:"results"`
}

// EvaluateBatch handles POST /v1/filters/evaluate/batch.
func (h *FilterHandler) EvaluateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.EvaluateBatch(c.Request.Context(), req.Requests, h.batchConcurrency)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, BatchResponse{Results: res})
}

//Personal.AI order the ending
