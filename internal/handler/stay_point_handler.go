package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/service"
	"github.com/jengzang/trajectory-mining-go/pkg/response"
)

// StayPointHandler handles HTTP requests for stay point detection
type StayPointHandler struct {
	service *service.StayPointService
}

// NewStayPointHandler creates a new stay point handler
func NewStayPointHandler(service *service.StayPointService) *StayPointHandler {
	return &StayPointHandler{service: service}
}

// Detect handles POST /api/v1/staypoints/detect
func (h *StayPointHandler) Detect(c *gin.Context) {
	var req models.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	resp, err := h.service.Detect(req)
	if err != nil {
		writeError(c, "Failed to detect stay points", err)
		return
	}

	response.Success(c, resp)
}

// Spans handles POST /api/v1/staypoints/spans
func (h *StayPointHandler) Spans(c *gin.Context) {
	var req models.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	spans := h.service.Spans(req.Points)
	data := make([]gin.H, len(spans))
	for i, s := range spans {
		data[i] = gin.H{
			"index":          s.Index,
			"timeGapSeconds": s.TimeGap.Seconds(),
			"distance":       s.Distance,
		}
	}

	response.Success(c, gin.H{
		"data":  data,
		"count": len(data),
	})
}

// DetectTrajectory handles POST /api/v1/trajectories/:id/detect
func (h *StayPointHandler) DetectTrajectory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid trajectory ID", err)
		return
	}

	var req models.DetectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body", err)
			return
		}
	}

	resp, err := h.service.DetectTrajectory(c.Request.Context(), id, req.DistanceThreshold, req.TimeThreshold)
	if err != nil {
		writeError(c, "Failed to detect stay points", err)
		return
	}

	response.Success(c, resp)
}

// GetStayPoints handles GET /api/v1/runs/:runId/staypoints
func (h *StayPointHandler) GetStayPoints(c *gin.Context) {
	var filter models.StayPointFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	stays, total, err := h.service.GetStayPoints(c.Request.Context(), c.Param("runId"), filter)
	if err != nil {
		writeError(c, "Failed to get stay points", err)
		return
	}

	response.Success(c, paginate(stays, total, filter.Page, filter.PageSize))
}

// GetSummary handles GET /api/v1/runs/:runId/summary
func (h *StayPointHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("runId"))
	if err != nil {
		writeError(c, "Failed to summarize run", err)
		return
	}

	response.Success(c, summary)
}

func paginate(data interface{}, total int64, page, pageSize int) gin.H {
	page, pageSize = models.NormalizePage(page, pageSize)
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return gin.H{
		"data":       data,
		"total":      total,
		"page":       page,
		"pageSize":   pageSize,
		"totalPages": totalPages,
	}
}
