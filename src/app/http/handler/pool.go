package handler

import (
	"github.com/gin-gonic/gin"

	"dbclient/src/app/http/dto"
	"dbclient/src/app/http/response"
	"dbclient/src/app/middleware"
	"dbclient/src/core/usecase"
)

// PoolHandler exposes pool snapshots.
type PoolHandler struct {
	poolService *usecase.PoolService
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(poolService *usecase.PoolService) *PoolHandler {
	return &PoolHandler{poolService: poolService}
}

// List returns every pool.
// GET /v1/pools
func (h *PoolHandler) List(c *gin.Context) {
	stats := h.poolService.List()
	out := dto.PoolListResponse{Pools: make([]dto.PoolResponse, len(stats))}
	for i, s := range stats {
		out.Pools[i] = dto.PoolResponse{}.FromDomain(s)
	}
	response.OK(c, out)
}

// Get returns one pool by client name.
// GET /v1/pools/:name
func (h *PoolHandler) Get(c *gin.Context) {
	s, err := h.poolService.Get(c.Param("name"))
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.PoolResponse{}.FromDomain(s))
}
