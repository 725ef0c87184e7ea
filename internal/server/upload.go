package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	ingestdomain "github.com/smallbiznis/granary/internal/ingest/domain"
)

// maxUploadBytes caps workbook uploads at 32 MiB.
const maxUploadBytes = 32 << 20

func (s *Server) UploadOperations(c *gin.Context) {
	s.upload(c, ingestdomain.DatasetOperations)
}

func (s *Server) UploadKPI(c *gin.Context) {
	s.upload(c, ingestdomain.DatasetKPI)
}

func (s *Server) upload(c *gin.Context, dataset string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "file_required", "file required"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		AbortWithError(c, newValidationError("file", "file_too_large", "file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.ingestSvc.Upload(c.Request.Context(), ingestdomain.UploadRequest{
		Dataset:  dataset,
		FileName: fileHeader.Filename,
		Content:  content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
