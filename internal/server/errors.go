package server

import (
	"errors"
	"net/http"
	"strings"

	dimensiondomain "github.com/smallbiznis/granary/internal/dimension/domain"
	ingestdomain "github.com/smallbiznis/granary/internal/ingest/domain"
	loaderdomain "github.com/smallbiznis/granary/internal/loader/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, ingestdomain.ErrDuplicateFile):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case errors.Is(err, dimensiondomain.ErrFactoryCodeRequired),
		errors.Is(err, dimensiondomain.ErrEmployeeIDRequired),
		errors.Is(err, dimensiondomain.ErrMonthOutOfRange),
		errors.Is(err, dimensiondomain.ErrYearRequired):
		return true
	case errors.Is(err, loaderdomain.ErrMonthInvalid),
		errors.Is(err, loaderdomain.ErrYearInvalid),
		errors.Is(err, loaderdomain.ErrMetricCodeRequired),
		errors.Is(err, loaderdomain.ErrMeasureInvalid):
		return true
	case errors.Is(err, ingestdomain.ErrInvalidDataset),
		errors.Is(err, ingestdomain.ErrWorkbookInvalid),
		errors.Is(err, ingestdomain.ErrEmptyWorkbook),
		errors.Is(err, ingestdomain.ErrInvalidRowID):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ingestdomain.ErrRowNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, dimensiondomain.ErrFactoryCodeRequired):
		return dimensiondomain.ErrFactoryCodeRequired.Error()
	case errors.Is(err, dimensiondomain.ErrEmployeeIDRequired):
		return dimensiondomain.ErrEmployeeIDRequired.Error()
	case errors.Is(err, dimensiondomain.ErrMonthOutOfRange):
		return dimensiondomain.ErrMonthOutOfRange.Error()
	case errors.Is(err, dimensiondomain.ErrYearRequired):
		return dimensiondomain.ErrYearRequired.Error()
	case errors.Is(err, loaderdomain.ErrMonthInvalid):
		return loaderdomain.ErrMonthInvalid.Error()
	case errors.Is(err, loaderdomain.ErrYearInvalid):
		return loaderdomain.ErrYearInvalid.Error()
	case errors.Is(err, loaderdomain.ErrMetricCodeRequired):
		return loaderdomain.ErrMetricCodeRequired.Error()
	case errors.Is(err, loaderdomain.ErrMeasureInvalid):
		return loaderdomain.ErrMeasureInvalid.Error()
	case errors.Is(err, ingestdomain.ErrInvalidDataset):
		return ingestdomain.ErrInvalidDataset.Error()
	case errors.Is(err, ingestdomain.ErrWorkbookInvalid):
		return ingestdomain.ErrWorkbookInvalid.Error()
	case errors.Is(err, ingestdomain.ErrEmptyWorkbook):
		return ingestdomain.ErrEmptyWorkbook.Error()
	case errors.Is(err, ingestdomain.ErrInvalidRowID):
		return ingestdomain.ErrInvalidRowID.Error()
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "factory_code_required":
		return "factory_code"
	case "employee_id_required":
		return "employee_id"
	case "month_out_of_range", "month_invalid":
		return "month"
	case "year_required", "year_invalid":
		return "year"
	case "metric_code_required":
		return "metric_code"
	case "invalid_dataset":
		return "dataset"
	case "workbook_invalid", "workbook_empty":
		return "file"
	case "invalid_row_id":
		return "id"
	default:
		if strings.HasPrefix(code, "invalid_") {
			return strings.TrimPrefix(code, "invalid_")
		}
		return ""
	}
}

func validationErrorMessage(code string) string {
	return strings.ReplaceAll(code, "_", " ")
}
