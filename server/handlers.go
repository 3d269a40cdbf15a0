package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tfkr-ae/souk"
	"github.com/tfkr-ae/souk/domain"
	"go.uber.org/zap"
)

// Handlers contains all HTTP handlers for the marketplace API.
type Handlers struct {
	gateway *souk.Gateway
	catalog *souk.Catalog
	logger  *zap.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(gateway *souk.Gateway, catalog *souk.Catalog, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		gateway: gateway,
		catalog: catalog,
		logger:  logger,
	}
}

// createPackageRequest is the body of POST /api/create-package. The uuid field
// is the caller-generated package identifier; it names both the catalog row
// and the asset directory.
type createPackageRequest struct {
	UUID            string   `json:"uuid"`
	Title           string   `json:"title"`
	Image           string   `json:"image"`
	Author          string   `json:"author"`
	Version         string   `json:"version"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	Payload         string   `json:"payload"`
	BackgroundVideo string   `json:"background_video"`
	BackgroundImage string   `json:"background_image"`
	Type            string   `json:"type"`
}

// Health reports the server as active.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "active"})
}

// ListCatalogAssets handles GET /api/catalog-assets/?page=n.
// The page defaults to 1 when absent or unparsable; a page below 1 is a client
// error and short-circuits instead of computing a payload alongside the error.
func (h *Handlers) ListCatalogAssets(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 1
	}

	catalogPage, err := h.catalog.ListPage(page)
	if err != nil {
		if errors.Is(err, souk.ErrInvalidPage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Page must be a positive number!"})
			return
		}
		h.logger.Error("listing catalog page", zap.Int("page", page), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
		return
	}

	c.JSON(http.StatusOK, catalogPage)
}

// GetPackage handles GET /api/packages/:package.
func (h *Handlers) GetPackage(c *gin.Context) {
	name := c.Param("package")

	pkg, err := h.catalog.GetPackage(name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found!"})
			return
		}
		h.logger.Error("getting package", zap.String("package", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// authorize runs the gateway's gate for the request's psk header and writes
// the failure response when the gate rejects. It reports whether the caller
// may proceed.
func (h *Handlers) authorize(c *gin.Context) bool {
	err := h.gateway.Authorize(c.GetHeader("psk"))
	if err == nil {
		return true
	}

	if errors.Is(err, domain.ErrUnauthorized) {
		c.JSON(http.StatusForbidden, gin.H{"status": "Invalid pre-shared key!"})
		return false
	}
	// Feature flag off, reported as a generic failure distinct from the
	// credential mismatch.
	c.JSON(http.StatusInternalServerError, gin.H{"status": "The marketplace is disabled!"})
	return false
}

// CreatePackage handles POST /api/create-package.
func (h *Handlers) CreatePackage(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	var req createPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "Invalid request body!"})
		return
	}

	pkg := &domain.Package{
		Name:            req.UUID,
		Title:           req.Title,
		Description:     req.Description,
		Author:          req.Author,
		Image:           req.Image,
		Tags:            req.Tags,
		Version:         req.Version,
		BackgroundImage: req.BackgroundImage,
		BackgroundVideo: req.BackgroundVideo,
		Payload:         req.Payload,
		Type:            domain.PackageType(req.Type),
	}

	if err := h.gateway.CreatePackage(pkg); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"status": "Package already exists!"})
		case errors.Is(err, domain.ErrInvalidPackage):
			c.JSON(http.StatusBadRequest, gin.H{"status": "Invalid package fields!"})
		default:
			h.logger.Error("creating package", zap.String("package", pkg.Name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"status": "Package couldn't be created!"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Package created successfully!"})
}

// UploadAsset handles POST /api/upload-asset. The target package comes from
// the packagename header and the file from the multipart form field "file".
func (h *Handlers) UploadAsset(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	packageName := c.GetHeader("packagename")
	if packageName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "Missing packagename header!"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "No file was uploaded!"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "No file was uploaded!"})
		return
	}
	defer file.Close()

	// Uploaded filenames are client-controlled; keep the base name only.
	filename := filepath.Base(fileHeader.Filename)

	if _, err := h.gateway.UploadAsset(packageName, filename, file); err != nil {
		h.logger.Warn("upload failed",
			zap.String("package", packageName),
			zap.String("filename", filename),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "File couldn't be uploaded! (Package most likely doesn't exist)"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "File uploaded successfully!"})
}
