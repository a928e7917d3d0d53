package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trajectory-mining-go/internal/ingest"
	"github.com/jengzang/trajectory-mining-go/internal/service"
	"github.com/jengzang/trajectory-mining-go/internal/spatial"
	"github.com/jengzang/trajectory-mining-go/internal/staypoint"
	"github.com/jengzang/trajectory-mining-go/pkg/response"
)

// writeError maps domain errors onto HTTP status codes
func writeError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, message, err)
	case errors.Is(err, staypoint.ErrInvalidInput),
		errors.Is(err, staypoint.ErrMalformedTimestamp),
		errors.Is(err, staypoint.ErrMalformedCoordinate),
		errors.Is(err, spatial.ErrInvalidGrid),
		errors.Is(err, spatial.ErrInvalidPolygon),
		errors.Is(err, ingest.ErrMissingColumn):
		response.BadRequest(c, message, err)
	default:
		response.InternalError(c, message, err)
	}
}
