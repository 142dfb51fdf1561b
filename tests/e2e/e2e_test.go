package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventspace/internal/database"
	"eventspace/internal/domain"
	"eventspace/internal/middleware"
	"eventspace/internal/modules/auth"
	"eventspace/internal/modules/booking"
	"eventspace/internal/modules/catalog"
	"eventspace/internal/modules/notification"
	jwtsvc "eventspace/internal/pkg/jwt"
	"eventspace/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	userRepo := repository.NewUserRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	notificationService := notification.NewService(notificationRepo, userRepo, spaceRepo, nil, notification.LogMailer{}, "admin@eventspace.test")

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(spaceRepo, nil)
	catalogHandler := catalog.NewHandler(catalogService, nil)

	bookingService := booking.NewService(bookingRepo, spaceRepo, notificationService, "FCFA")
	bookingHandler := booking.NewHandler(bookingService)

	notificationHandler := notification.NewHandler(notificationService, notification.NewHub())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterPublicRoutes(v1)
	catalogHandler.RegisterPublicRoutes(v1)
	bookingHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthRequired(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
		notificationHandler.RegisterRoutes(protected)

		owner := protected.Group("")
		owner.Use(middleware.OwnerOnly())
		{
			catalogHandler.RegisterOwnerRoutes(owner)
		}
	}

	return &E2ETestSuite{
		router:     r,
		db:         db,
		jwtService: jwtService,
	}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		log.Printf("Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	}
	return &resp
}

// register creates an account through the API and returns its token.
func (s *E2ETestSuite) register(t *testing.T, email, role string) string {
	w := s.makeRequest("POST", "/api/v1/auth/register", gin.H{
		"email":      email,
		"password":   "secret123",
		"first_name": "Test",
		"role":       role,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := parseResponse(w)
	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createSpace makes a space through the owner API and returns its id.
func (s *E2ETestSuite) createSpace(t *testing.T, ownerToken string) int64 {
	w := s.makeRequest("POST", "/api/v1/spaces", gin.H{
		"name":        "Harbor View Meeting Room",
		"description": "Meeting room with a view over the harbor",
		"type":        "MEETING_ROOM",
		"capacity":    10,
		"price":       5000,
		"price_unit":  "HOUR",
		"address": gin.H{
			"street":  "1 Marina Road",
			"city":    "Douala",
			"country": "CM",
		},
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := parseResponse(w)
	space := resp.Data["space"].(map[string]interface{})
	return int64(space["id"].(float64))
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func bookingBody(spaceID int64, date, start, end string) gin.H {
	return gin.H{
		"space_id":         spaceID,
		"start_date":       date,
		"end_date":         date,
		"start_time":       start,
		"end_time":         end,
		"number_of_people": 4,
		"payment_method":   "CASH",
	}
}

func TestE2E_RegisterLoginAndProfile(t *testing.T) {
	s := setupTestSuite(t)

	s.register(t, "amina@example.com", "")

	w := s.makeRequest("POST", "/api/v1/auth/login", gin.H{
		"email":    "amina@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(w)
	token := resp.Data["token"].(string)

	w = s.makeRequest("GET", "/api/v1/users/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(w)
	user := resp.Data["user"].(map[string]interface{})
	assert.Equal(t, "amina@example.com", user["email"])
	assert.Equal(t, "USER", user["role"])
}

func TestE2E_DuplicateRegistrationRejected(t *testing.T) {
	s := setupTestSuite(t)

	s.register(t, "dup@example.com", "")

	w := s.makeRequest("POST", "/api/v1/auth/register", gin.H{
		"email":      "dup@example.com",
		"password":   "secret123",
		"first_name": "Again",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", parseResponse(w).Error.Code)
}

func TestE2E_SpaceLifecycle(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.register(t, "owner@spaces.cm", "OWNER")
	userToken := s.register(t, "user@example.com", "")

	spaceID := s.createSpace(t, ownerToken)

	// users cannot create spaces
	w := s.makeRequest("POST", "/api/v1/spaces", gin.H{"name": "nope"}, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// public browse
	w = s.makeRequest("GET", "/api/v1/spaces?city=Douala", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(w)
	spaces := resp.Data["spaces"].([]interface{})
	require.Len(t, spaces, 1)

	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/spaces/%d", spaceID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// owner updates the price
	w = s.makeRequest("PUT", fmt.Sprintf("/api/v1/spaces/%d", spaceID), gin.H{"price": 6000}, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(w)
	space := resp.Data["space"].(map[string]interface{})
	assert.Equal(t, 6000.0, space["price"])

	// owner deletes it
	w = s.makeRequest("DELETE", fmt.Sprintf("/api/v1/spaces/%d", spaceID), nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/spaces/%d", spaceID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestE2E_BookingFlow(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.register(t, "owner@spaces.cm", "OWNER")
	userToken := s.register(t, "user@example.com", "")
	spaceID := s.createSpace(t, ownerToken)

	date := futureDate(7)

	// price quote is public
	w := s.makeRequest("POST", "/api/v1/bookings/calculate-price", gin.H{
		"space_id":   spaceID,
		"start_date": date,
		"end_date":   date,
		"start_time": "09:00",
		"end_time":   "11:00",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := parseResponse(w)
	assert.Equal(t, 10000.0, resp.Data["total_price"])
	assert.Equal(t, "FCFA", resp.Data["currency"])

	// create the booking
	w = s.makeRequest("POST", "/api/v1/bookings", bookingBody(spaceID, date, "09:00", "11:00"), userToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp = parseResponse(w)
	b := resp.Data["booking"].(map[string]interface{})
	bookingID := int64(b["id"].(float64))
	assert.Equal(t, "PENDING", b["status"])
	assert.Equal(t, 10000.0, b["total_price"])

	// overlapping request is refused
	w = s.makeRequest("POST", "/api/v1/bookings", bookingBody(spaceID, date, "10:00", "12:00"), userToken)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "BOOKING_CONFLICT", parseResponse(w).Error.Code)

	// back-to-back is fine
	w = s.makeRequest("POST", "/api/v1/bookings", bookingBody(spaceID, date, "11:00", "12:00"), userToken)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// availability probe sees the taken slot
	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/availability/%d?date=%s&startTime=09:30&endTime=10:30", spaceID, date), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, parseResponse(w).Data["available"])

	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/availability/%d?date=%s&startTime=13:00&endTime=14:00", spaceID, date), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, parseResponse(w).Data["available"])

	// only the owner may confirm
	w = s.makeRequest("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), gin.H{"status": "CONFIRMED"}, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.makeRequest("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), gin.H{"status": "CONFIRMED"}, ownerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = parseResponse(w)
	b = resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, "CONFIRMED", b["status"])

	// jumping straight back to PENDING is not a legal transition
	w = s.makeRequest("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), gin.H{"status": "PENDING"}, ownerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the owner got a notification for the new requests
	w = s.makeRequest("GET", "/api/v1/notifications", nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(w)
	assert.GreaterOrEqual(t, resp.Data["unread_count"].(float64), 1.0)
}

func TestE2E_CancelRequiresReason(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.register(t, "owner@spaces.cm", "OWNER")
	userToken := s.register(t, "user@example.com", "")
	spaceID := s.createSpace(t, ownerToken)

	w := s.makeRequest("POST", "/api/v1/bookings", bookingBody(spaceID, futureDate(5), "09:00", "10:00"), userToken)
	require.Equal(t, http.StatusCreated, w.Code)
	b := parseResponse(w).Data["booking"].(map[string]interface{})
	bookingID := int64(b["id"].(float64))

	w = s.makeRequest("PUT", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), gin.H{}, userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.makeRequest("PUT", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), gin.H{"reason": "plans changed"}, userToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	b = parseResponse(w).Data["booking"].(map[string]interface{})
	assert.Equal(t, "CANCELLED", b["status"])
	assert.Equal(t, "plans changed", b["cancellation_reason"])

	// cancelled slot no longer blocks the calendar
	w = s.makeRequest("POST", "/api/v1/bookings", bookingBody(spaceID, futureDate(5), "09:00", "10:00"), userToken)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestE2E_ReviewAfterCompletion(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.register(t, "owner@spaces.cm", "OWNER")
	userToken := s.register(t, "user@example.com", "")
	spaceID := s.createSpace(t, ownerToken)

	w := s.makeRequest("POST", "/api/v1/bookings", bookingBody(spaceID, futureDate(3), "09:00", "10:00"), userToken)
	require.Equal(t, http.StatusCreated, w.Code)
	b := parseResponse(w).Data["booking"].(map[string]interface{})
	bookingID := int64(b["id"].(float64))

	// review before completion is refused
	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/bookings/%d/review", bookingID), gin.H{"rating": 5}, userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.makeRequest("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), gin.H{"status": "CONFIRMED"}, ownerToken)
	s.makeRequest("PUT", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), gin.H{"status": "COMPLETED"}, ownerToken)

	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/bookings/%d/review", bookingID), gin.H{
		"rating": 4,
		"review": "Good space, slightly noisy",
	}, userToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the rating shows on the space
	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/spaces/%d", spaceID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	space := parseResponse(w).Data["space"].(map[string]interface{})
	assert.Equal(t, 4.0, space["rating_average"])
	assert.Equal(t, 1.0, space["rating_count"])

	// second review on the same booking is refused
	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/bookings/%d/review", bookingID), gin.H{"rating": 1}, userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestE2E_BookingListsAndVisibility(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.register(t, "owner@spaces.cm", "OWNER")
	userToken := s.register(t, "user@example.com", "")
	otherToken := s.register(t, "other@example.com", "")
	spaceID := s.createSpace(t, ownerToken)

	w := s.makeRequest("POST", "/api/v1/bookings", bookingBody(spaceID, futureDate(4), "09:00", "10:00"), userToken)
	require.Equal(t, http.StatusCreated, w.Code)
	b := parseResponse(w).Data["booking"].(map[string]interface{})
	bookingID := int64(b["id"].(float64))

	// the booking user sees it in their list
	w = s.makeRequest("GET", "/api/v1/bookings", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	bookings := parseResponse(w).Data["bookings"].([]interface{})
	assert.Len(t, bookings, 1)

	// a stranger cannot read it
	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the space owner can
	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, ownerToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// owner's per-space calendar
	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/space/%d", spaceID), nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	bookings = parseResponse(w).Data["bookings"].([]interface{})
	assert.Len(t, bookings, 1)

	// but not someone else's
	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/space/%d", spaceID), nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestE2E_PastDateRejected(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.register(t, "owner@spaces.cm", "OWNER")
	userToken := s.register(t, "user@example.com", "")
	spaceID := s.createSpace(t, ownerToken)

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	w := s.makeRequest("POST", "/api/v1/bookings", bookingBody(spaceID, yesterday, "09:00", "10:00"), userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", parseResponse(w).Error.Code)
}

func TestE2E_IdenticalActiveSlotBlockedByIndex(t *testing.T) {
	s := setupTestSuite(t)

	day := time.Now().AddDate(0, 0, 5).Truncate(24 * time.Hour)
	first := domain.Booking{
		UserID: 1, SpaceID: 1,
		StartDate: day, EndDate: day,
		StartTime: "09:00", EndTime: "11:00",
		NumberOfPeople: 2,
		Status:         domain.BookingPending,
		PaymentStatus:  domain.PaymentPending,
	}
	require.NoError(t, s.db.Create(&first).Error)

	// an identical active slot written past the service layer hits
	// idx_no_double_booking
	duplicate := first
	duplicate.ID = 0
	duplicate.UserID = 2
	assert.Error(t, s.db.Create(&duplicate).Error)

	// terminal rows are outside the index predicate
	cancelled := first
	cancelled.ID = 0
	cancelled.Status = domain.BookingCancelled
	assert.NoError(t, s.db.Create(&cancelled).Error)
}
