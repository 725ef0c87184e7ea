package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) Stats(c *gin.Context) {
	resp, err := s.ingestSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
