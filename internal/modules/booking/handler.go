package booking

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"eventspace/internal/domain"
	"eventspace/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires authenticated booking endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/bookings/space/:spaceId", h.GetSpaceBookings)
	rg.PUT("/bookings/:id", h.Reschedule)
	rg.PUT("/bookings/:id/status", h.UpdateStatus)
	rg.PUT("/bookings/:id/payment", h.UpdatePayment)
	rg.PUT("/bookings/:id/cancel", h.CancelBooking)
	rg.POST("/bookings/:id/review", h.AddReview)
}

// RegisterPublicRoutes wires the unauthenticated quote and
// availability probes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/calculate-price", h.CalculatePrice)
	rg.GET("/bookings/availability/:spaceId", h.CheckAvailability)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	q := ListQuery{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		AsOwner:       c.Query("owner") == "true",
	}
	q.Page, q.Limit = pagination(c)

	bookings, total, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), q)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"bookings":   bookings,
		"pagination": paginationMeta(q.Page, q.Limit, total),
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetSpaceBookings(c *gin.Context) {
	spaceID, ok := idParam(c, "spaceId")
	if !ok {
		return
	}

	var q ListQuery
	q.Status = c.Query("status")
	q.Page, q.Limit = pagination(c)

	bookings, total, err := h.service.ListForSpace(c.Request.Context(), c.GetInt64("user_id"), spaceID, q)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"bookings":   bookings,
		"pagination": paginationMeta(q.Page, q.Limit, total),
	})
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Dates and times are required")
		return
	}

	b, err := h.service.Reschedule(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status is required")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), c.GetInt64("user_id"), id, req.Status, req.CancellationReason)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Payment status is required")
		return
	}

	b, err := h.service.UpdatePaymentStatus(c.Request.Context(), c.GetInt64("user_id"), id, req.PaymentStatus)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "A cancellation reason is required")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), id, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) AddReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "A rating between 1 and 5 is required")
		return
	}

	b, err := h.service.AddReview(c.Request.Context(), c.GetInt64("user_id"), id, req.Rating, req.Review)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CalculatePrice(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "All price parameters are required")
		return
	}

	quote, err := h.service.CalculatePrice(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, quote)
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	spaceID, ok := idParam(c, "spaceId")
	if !ok {
		return
	}

	date := c.Query("date")
	startTime := c.Query("startTime")
	endTime := c.Query("endTime")
	if date == "" || startTime == "" || endTime == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date, startTime and endTime are required")
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), spaceID, date, startTime, endTime)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"available": available})
}

func handleError(c *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verr.Fields)
		return
	}

	switch {
	case errors.Is(err, ErrSpaceUnavailable):
		response.Error(c, http.StatusBadRequest, "SPACE_UNAVAILABLE", "This space is not available")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Space is not available for the selected dates and times")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS_TRANSITION", "This status change is not allowed")
	default:
		log.Printf("booking: internal error: %v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
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

func paginationMeta(page, limit int, total int64) gin.H {
	pages := (total + int64(limit) - 1) / int64(limit)
	if pages == 0 {
		pages = 1
	}
	return gin.H{"page": page, "limit": limit, "total": total, "pages": pages}
}

func roleOf(c *gin.Context) domain.UserRole {
	return domain.UserRole(c.GetString("role"))
}
