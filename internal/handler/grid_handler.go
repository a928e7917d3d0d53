package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/service"
	"github.com/jengzang/trajectory-mining-go/pkg/response"
)

// GridHandler handles HTTP requests for grid occupancy and containment
type GridHandler struct {
	service *service.GridService
}

// NewGridHandler creates a new grid handler
func NewGridHandler(service *service.GridService) *GridHandler {
	return &GridHandler{service: service}
}

// CountOnGrid handles POST /api/v1/grid/counts
func (h *GridHandler) CountOnGrid(c *gin.Context) {
	var req models.GridCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	// Default to a 6x6 grid
	if req.N == 0 {
		req.N = 6
	}

	resp, err := h.service.CountOnGrid(req)
	if err != nil {
		writeError(c, "Failed to count points on grid", err)
		return
	}

	response.Success(c, resp)
}

// Contains handles POST /api/v1/geo/contains
func (h *GridHandler) Contains(c *gin.Context) {
	var req models.ContainsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	inside, err := h.service.Contains(req)
	if err != nil {
		writeError(c, "Failed to test containment", err)
		return
	}

	response.Success(c, gin.H{"inside": inside})
}
