package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
)

type seedAliasesRequest struct {
	FactoryAliases  map[string]string `json:"factory_aliases"`
	EmployeeAliases map[string]string `json:"employee_aliases"`
}

func (s *Server) SeedAliases(c *gin.Context) {
	var req seedAliasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if len(req.FactoryAliases) == 0 && len(req.EmployeeAliases) == 0 {
		AbortWithError(c, newValidationError("aliases", "aliases_required", "aliases required"))
		return
	}

	err := s.aliasSvc.Seed(c.Request.Context(), aliasdomain.SeedRequest{
		FactoryAliases:  req.FactoryAliases,
		EmployeeAliases: req.EmployeeAliases,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"factory_aliases":  len(req.FactoryAliases),
			"employee_aliases": len(req.EmployeeAliases),
		},
	})
}
