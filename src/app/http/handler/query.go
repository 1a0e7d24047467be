package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"dbclient/src/app/http/dto"
	"dbclient/src/app/http/response"
	"dbclient/src/app/middleware"
	"dbclient/src/core/usecase"
)

// QueryHandler runs ad hoc statements. It is only routed when enabled in config.
type QueryHandler struct {
	queryService *usecase.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queryService *usecase.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// Run executes the posted statements on the named client.
// POST /v1/clients/:name/query
func (h *QueryHandler) Run(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), requestID)
		return
	}

	name := c.Param("name")
	res, err := h.queryService.Run(c.Request.Context(), name, req.ToInput())
	if err != nil {
		middleware.RequestLogger(c, slog.Default()).Warn("query failed", "client", name, "error", err)
		response.FromDomainError(c, err, requestID)
		return
	}
	response.OK(c, dto.QueryResponse{}.FromDomain(res))
}
