package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trajectory-mining-go/internal/ingest"
	"github.com/jengzang/trajectory-mining-go/internal/service"
	"github.com/jengzang/trajectory-mining-go/internal/spatial"
	"github.com/jengzang/trajectory-mining-go/internal/staypoint"
	"github.com/jengzang/trajectory-mining-go/pkg/response"
)

func TestWriteErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("run x: %w", service.ErrNotFound), want: http.StatusNotFound},
		{err: fmt.Errorf("%w: too short", staypoint.ErrInvalidInput), want: http.StatusBadRequest},
		{err: staypoint.ErrMalformedTimestamp, want: http.StatusBadRequest},
		{err: staypoint.ErrMalformedCoordinate, want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: size 0", spatial.ErrInvalidGrid), want: http.StatusBadRequest},
		{err: spatial.ErrInvalidPolygon, want: http.StatusBadRequest},
		{err: ingest.ErrMissingColumn, want: http.StatusBadRequest},
		{err: errors.New("disk full"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			writeError(c, "failed", tt.err)

			assert.Equal(t, tt.want, w.Code)
			var resp response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Code)
			assert.Equal(t, tt.err.Error(), resp.Error)
		})
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name           string
		total          int64
		page, pageSize int
		want           gin.H
	}{
		{name: "defaults", total: 250, want: gin.H{"page": 1, "pageSize": 100, "totalPages": 3}},
		{name: "exact pages", total: 40, page: 2, pageSize: 20, want: gin.H{"page": 2, "pageSize": 20, "totalPages": 2}},
		{name: "clamped size", total: 1500, pageSize: 5000, want: gin.H{"page": 1, "pageSize": 1000, "totalPages": 2}},
		{name: "empty", total: 0, want: gin.H{"page": 1, "pageSize": 100, "totalPages": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paginate(nil, tt.total, tt.page, tt.pageSize)
			for key, value := range tt.want {
				assert.Equal(t, value, got[key], key)
			}
			assert.Equal(t, tt.total, got["total"])
		})
	}
}
