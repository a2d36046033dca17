package upload

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/pkg/responses"
	"github.com/labcollective/memberhub/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PublicPrefix is where the local store's directory is served.
const PublicPrefix = "/public/uploads"

type UploadController struct {
	store    Store
	maxBytes int64
	now      func() time.Time
	uploads  *prometheus.CounterVec
}

func NewUploadController(store Store, maxMB int64, registry prometheus.Registerer) *UploadController {
	if maxMB <= 0 {
		maxMB = 10
	}
	return &UploadController{
		store:    store,
		maxBytes: maxMB << 20,
		now:      time.Now,
		uploads: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "memberhub_uploads_total",
			Help: "Uploaded files by category and result.",
		}, []string{"category", "result"}),
	}
}

// Upload godoc
// @Summary Upload a file
// @Description Stores the file under {category}/{unixMillis}-{random}-{name} and returns its URL.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Param category formData string false "Lowercase slug" default(general)
// @Success 200 {object} map[string]string
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /admin/uploads [post]
// @Security BearerAuth
func (uc *UploadController) Upload(c *gin.Context) {
	// multipart overhead on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uc.maxBytes+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			uc.uploads.WithLabelValues(DefaultCategory, "rejected").Inc()
			responses.SendError(c, http.StatusBadRequest, uc.limitMessage())
			return
		}
		responses.SendError(c, http.StatusBadRequest, "File is required")
		return
	}

	category := strings.TrimSpace(c.PostForm("category"))
	if category == "" {
		category = DefaultCategory
	}
	if !ValidCategory(category) {
		responses.SendError(c, http.StatusBadRequest, "Category may only contain lowercase letters, digits and hyphens")
		return
	}
	if header.Size > uc.maxBytes {
		uc.uploads.WithLabelValues(category, "rejected").Inc()
		responses.SendError(c, http.StatusBadRequest, uc.limitMessage())
		return
	}

	file, err := header.Open()
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to read upload", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path := ObjectPath(category, header.Filename, uc.now(), utils.GenerateRandomToken(8))
	url, err := uc.store.Put(c.Request.Context(), path, file, contentType)
	if err != nil {
		uc.uploads.WithLabelValues(category, "error").Inc()
		responses.SendAppError(c, apperror.Storage("Failed to store upload", err))
		return
	}
	uc.uploads.WithLabelValues(category, "stored").Inc()
	c.JSON(http.StatusOK, gin.H{"path": path, "url": url})
}

func (uc *UploadController) limitMessage() string {
	return fmt.Sprintf("File exceeds the %d MB limit", uc.maxBytes>>20)
}

func RegisterUploadRoutes(admin *gin.RouterGroup, store Store, maxMB int64, registry prometheus.Registerer) {
	controller := NewUploadController(store, maxMB, registry)
	admin.POST("/uploads", controller.Upload)
}
