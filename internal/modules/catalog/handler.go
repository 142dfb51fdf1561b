package catalog

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"eventspace/internal/domain"
	"eventspace/internal/pkg/response"
	"eventspace/internal/pkg/upload"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service *Service
	uploads *upload.Store
}

func NewHandler(service *Service, uploads *upload.Store) *Handler {
	return &Handler{service: service, uploads: uploads}
}

// RegisterPublicRoutes wires browse endpoints that need no session.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/spaces", h.ListSpaces)
	v1.GET("/spaces/:id", h.GetSpace)
}

// RegisterOwnerRoutes wires the management endpoints; the caller is
// expected to guard the group with auth and owner-role middleware.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.POST("/spaces", h.CreateSpace)
	rg.PUT("/spaces/:id", h.UpdateSpace)
	rg.DELETE("/spaces/:id", h.DeleteSpace)
	rg.POST("/spaces/:id/images", h.UploadImages)
	rg.GET("/spaces/owner/mine", h.ListOwnSpaces)
}

func (h *Handler) ListSpaces(c *gin.Context) {
	var q ListQuery
	q.City = c.Query("city")
	q.Type = c.Query("type")
	if v, err := strconv.Atoi(c.Query("min_capacity")); err == nil && v > 0 {
		q.MinCapacity = v
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil && v > 0 {
		q.MinPrice = v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil && v > 0 {
		q.MaxPrice = v
	}
	if s := c.Query("available"); s != "" {
		v := s == "true"
		q.Available = &v
	}
	q.Page, q.Limit = pagination(c)

	spaces, total, err := h.service.ListSpaces(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"spaces": spaces,
		"pagination": gin.H{
			"page":  q.Page,
			"limit": q.Limit,
			"total": total,
		},
	})
}

func (h *Handler) GetSpace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	space, err := h.service.GetSpace(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"space": space})
}

func (h *Handler) CreateSpace(c *gin.Context) {
	var req CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	space, err := h.service.CreateSpace(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"space": space})
}

func (h *Handler) UpdateSpace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	space, err := h.service.UpdateSpace(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"space": space})
}

func (h *Handler) DeleteSpace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSpace(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), id); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListOwnSpaces(c *gin.Context) {
	spaces, err := h.service.ListOwnSpaces(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"spaces": spaces})
}

func (h *Handler) UploadImages(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Failed to parse form")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, "NO_FILES", "No files uploaded")
		return
	}

	paths, cleanup, err := h.uploads.Save(files)
	if err != nil {
		cleanup()
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "A file exceeds the size limit")
		case errors.Is(err, upload.ErrUnsupportedType), errors.Is(err, upload.ErrEmptyFile):
			response.Error(c, http.StatusBadRequest, "INVALID_FORMAT", "Only image files are allowed")
		default:
			log.Printf("catalog: upload failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "SAVE_FAILED", "Failed to save files")
		}
		return
	}

	space, err := h.service.AddImages(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), id, paths)
	if err != nil {
		cleanup()
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"space": space})
}

func handleError(c *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verr.Fields)
		return
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Space not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrInvalidSpaceType):
		response.Error(c, http.StatusBadRequest, "INVALID_TYPE", "Unknown space type")
	case errors.Is(err, ErrInvalidPriceUnit):
		response.Error(c, http.StatusBadRequest, "INVALID_PRICE_UNIT", "Unknown price unit")
	default:
		log.Printf("catalog: internal error: %v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (page, limit int) {
	page, limit = 1, 10
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return page, limit
}

func roleOf(c *gin.Context) domain.UserRole {
	return domain.UserRole(c.GetString("role"))
}
