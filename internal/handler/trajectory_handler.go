package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/service"
	"github.com/jengzang/trajectory-mining-go/pkg/response"
)

// TrajectoryHandler handles HTTP requests for stored trajectories
type TrajectoryHandler struct {
	service *service.TrajectoryService
}

// NewTrajectoryHandler creates a new trajectory handler
func NewTrajectoryHandler(service *service.TrajectoryService) *TrajectoryHandler {
	return &TrajectoryHandler{service: service}
}

// Create handles POST /api/v1/trajectories
func (h *TrajectoryHandler) Create(c *gin.Context) {
	var req models.TrajectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	traj, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, "Failed to store trajectory", err)
		return
	}

	response.Success(c, traj)
}

// GetPoints handles GET /api/v1/trajectories/:id/points
func (h *TrajectoryHandler) GetPoints(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid trajectory ID", err)
		return
	}

	var filter models.TrajectoryPointFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	points, total, err := h.service.GetPoints(c.Request.Context(), id, filter)
	if err != nil {
		writeError(c, "Failed to get trajectory points", err)
		return
	}

	response.Success(c, paginate(points, total, filter.Page, filter.PageSize))
}
