package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	ingestdomain "github.com/smallbiznis/granary/internal/ingest/domain"
)

func (s *Server) ListRows(c *gin.Context) {
	var query struct {
		Limit  string `form:"limit"`
		Offset string `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	limit, err := parseOptionalInt(query.Limit)
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}
	offset, err := parseOptionalInt(query.Offset)
	if err != nil {
		AbortWithError(c, newValidationError("offset", "invalid_offset", "invalid offset"))
		return
	}

	resp, err := s.ingestSvc.ListRows(c.Request.Context(), ingestdomain.ListRowsRequest{
		Dataset: c.Param("dataset"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRow(c *gin.Context) {
	resp, err := s.ingestSvc.GetRow(c.Request.Context(), c.Param("dataset"), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateRow(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(data) == 0 {
		AbortWithError(c, newValidationError("data", "data_required", "data required"))
		return
	}

	resp, err := s.ingestSvc.UpdateRow(c.Request.Context(), c.Param("dataset"), c.Param("id"), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseOptionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
