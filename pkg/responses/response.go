package responses

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/pkg/validator"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// SuccessResponse acknowledges a mutation that has no payload of its own.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Pagination holds pagination information.
type Pagination struct {
	TotalItems   int64 `json:"total_items"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
	NextPage     *int  `json:"next_page,omitempty"`
	PreviousPage *int  `json:"previous_page,omitempty"`
}

// SendOK writes {"success": true}.
func SendOK(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// SendError aborts the request with {"error": message}.
func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// SendValidationError aborts with 400 and the per-field binding failures.
func SendValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Details: validator.ParseError(err),
	})
}

// SendAppError maps an error from the service layer onto its status code.
// Storage failures are logged with their cause; only the message reaches the client.
func SendAppError(c *gin.Context, err error) {
	status := apperror.Status(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	SendError(c, status, apperror.Message(err))
}

// SendPaginated writes the list under key together with its pagination block.
func SendPaginated(c *gin.Context, key string, data interface{}, totalItems int64, currentPage int, pageSize int) {
	if pageSize <= 0 {
		pageSize = 10
	}
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))

	hasNextPage := currentPage < totalPages
	hasPrevPage := currentPage > 1

	var nextPage *int
	if hasNextPage {
		val := currentPage + 1
		nextPage = &val
	}

	var prevPage *int
	if hasPrevPage {
		val := currentPage - 1
		prevPage = &val
	}

	c.JSON(http.StatusOK, gin.H{
		key: data,
		"pagination": Pagination{
			TotalItems:   totalItems,
			TotalPages:   totalPages,
			CurrentPage:  currentPage,
			PageSize:     pageSize,
			HasNextPage:  hasNextPage,
			HasPrevPage:  hasPrevPage,
			NextPage:     nextPage,
			PreviousPage: prevPage,
		},
	})
}

// PageParams reads page and pageSize query parameters, clamping them to sane bounds.
func PageParams(c *gin.Context) (page, pageSize int) {
	page = queryInt(c, "page", 1)
	pageSize = queryInt(c, "pageSize", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
