package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventspace/internal/domain"
	"eventspace/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepository
	spaces   SpaceRepository
	notifs   NotificationSender
	currency string
	now      func() time.Time
}

func NewService(bookings BookingRepository, spaces SpaceRepository, notifs NotificationSender, currency string) *Service {
	return &Service{
		bookings: bookings,
		spaces:   spaces,
		notifs:   notifs,
		currency: currency,
		now:      time.Now,
	}
}

// CreateBooking runs the creation protocol in order; the first failed
// check short-circuits with its specific error kind.
func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	w, method, err := s.validateCreate(req)
	if err != nil {
		return nil, err
	}

	space, err := s.spaces.GetByID(ctx, req.SpaceID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if !space.Bookable() {
		return nil, ErrSpaceUnavailable
	}

	if req.NumberOfPeople > space.Capacity {
		verr := newValidationError()
		verr.add("number_of_people", fmt.Sprintf("number of people (%d) exceeds space capacity (%d)", req.NumberOfPeople, space.Capacity))
		return nil, verr
	}

	if dateOnly(w.StartDate).Before(dateOnly(s.now())) {
		verr := newValidationError()
		verr.add("start_date", "start date cannot be in the past")
		return nil, verr
	}
	if w.EndDate.Before(w.StartDate) {
		verr := newValidationError()
		verr.add("end_date", "end date must not be before start date")
		return nil, verr
	}

	candidates, err := s.bookings.FindActiveOverlapping(ctx, req.SpaceID, w.StartDate, w.EndDate, 0)
	if err != nil {
		return nil, err
	}
	if hasConflict(candidates, w) {
		return nil, ErrConflict
	}

	b := &domain.Booking{
		UserID:          userID,
		SpaceID:         space.ID,
		StartDate:       w.StartDate,
		EndDate:         w.EndDate,
		StartTime:       w.StartTime,
		EndTime:         w.EndTime,
		NumberOfPeople:  req.NumberOfPeople,
		TotalPrice:      Quote(space, w),
		Status:          domain.BookingPending,
		PaymentStatus:   domain.PaymentPending,
		PaymentMethod:   method,
		SpecialRequests: req.SpecialRequests,
	}

	// The pre-check above decided fast; the insert re-checks under a
	// space row lock so a concurrent overlapping request cannot slip in
	// between check and write.
	created, err := s.bookings.CreateIfNoConflict(ctx, b, func(cands []domain.Booking) bool {
		return hasConflict(cands, w)
	})
	if err != nil {
		if isOverlapViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if !created {
		return nil, ErrConflict
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCreated(ctx, b)
	}

	return b, nil
}

// CheckAvailability answers the public availability probe for a single
// day window.
func (s *Service) CheckAvailability(ctx context.Context, spaceID int64, date, startTime, endTime string) (bool, error) {
	verr := newValidationError()
	day, err := parseDate(date)
	if err != nil {
		verr.add("date", err.Error())
	}
	validateClock(verr, "start_time", startTime)
	validateClock(verr, "end_time", endTime)
	if err := verr.orNil(); err != nil {
		return false, err
	}

	w := Window{StartDate: day, EndDate: day, StartTime: startTime, EndTime: endTime}

	candidates, err := s.bookings.FindActiveOverlapping(ctx, spaceID, w.StartDate, w.EndDate, 0)
	if err != nil {
		return false, err
	}
	return !hasConflict(candidates, w), nil
}

// CalculatePrice quotes a window against the space's current price.
// Quotes are always live; persisted bookings keep the total computed
// at creation time.
func (s *Service) CalculatePrice(ctx context.Context, req PriceRequest) (*PriceResponse, error) {
	w, err := parseWindow(req.StartDate, req.EndDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if !w.End().After(w.Start()) {
		verr := newValidationError()
		verr.add("end_time", "window must end after it starts")
		return nil, verr
	}

	space, err := s.spaces.GetByID(ctx, req.SpaceID)
	if err != nil {
		return nil, asNotFound(err)
	}

	return &PriceResponse{TotalPrice: Quote(space, w), Currency: s.currency}, nil
}

// Reschedule moves an active booking of the requesting user to a new
// window, re-running the conflict check with the booking excluded so
// it does not collide with itself, and re-quoting the total against
// the space's current price.
func (s *Service) Reschedule(ctx context.Context, actorID, bookingID int64, req RescheduleRequest) (*domain.Booking, error) {
	w, err := parseWindow(req.StartDate, req.EndDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if b.UserID != actorID {
		return nil, ErrForbidden
	}
	if !b.IsActive() {
		return nil, ErrInvalidStatusTransition
	}

	if dateOnly(w.StartDate).Before(dateOnly(s.now())) {
		verr := newValidationError()
		verr.add("start_date", "start date cannot be in the past")
		return nil, verr
	}
	if w.EndDate.Before(w.StartDate) {
		verr := newValidationError()
		verr.add("end_date", "end date must not be before start date")
		return nil, verr
	}

	space, err := s.spaces.GetByID(ctx, b.SpaceID)
	if err != nil {
		return nil, asNotFound(err)
	}

	candidates, err := s.bookings.FindActiveOverlapping(ctx, b.SpaceID, w.StartDate, w.EndDate, bookingID)
	if err != nil {
		return nil, err
	}
	if hasConflict(candidates, w) {
		return nil, ErrConflict
	}

	moved := &domain.Booking{
		ID:         b.ID,
		SpaceID:    b.SpaceID,
		StartDate:  w.StartDate,
		EndDate:    w.EndDate,
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
		TotalPrice: Quote(space, w),
	}

	ok, err := s.bookings.UpdateWindow(ctx, moved, func(cands []domain.Booking) bool {
		return hasConflict(cands, w)
	})
	if err != nil {
		if isOverlapViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// UpdateStatus applies an owner-driven status transition.
func (s *Service) UpdateStatus(ctx context.Context, actorID, bookingID int64, status, reason string) (*domain.Booking, error) {
	newStatus := domain.BookingStatus(status)
	switch newStatus {
	case domain.BookingConfirmed, domain.BookingRejected, domain.BookingCancelled, domain.BookingCompleted:
	default:
		verr := newValidationError()
		verr.add("status", "invalid status")
		return nil, verr
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, asNotFound(err)
	}

	space, err := s.spaces.GetByID(ctx, b.SpaceID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if space.OwnerID != actorID {
		return nil, ErrForbidden
	}

	if newStatus == domain.BookingCancelled && reason == "" {
		verr := newValidationError()
		verr.add("cancellation_reason", "a cancellation reason is required")
		return nil, verr
	}

	if !b.CanTransition(newStatus) {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, newStatus, reason)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingStatusChanged(ctx, updated, reason)
	}

	return updated, nil
}

// Cancel lets the booking's own user cancel while the booking is still
// active.
func (s *Service) Cancel(ctx context.Context, actorID, bookingID int64, reason string) (*domain.Booking, error) {
	if reason == "" {
		verr := newValidationError()
		verr.add("reason", "a cancellation reason is required")
		return nil, verr
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if b.UserID != actorID {
		return nil, ErrForbidden
	}
	if !b.IsActive() {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingCancelled, reason)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingStatusChanged(ctx, updated, reason)
	}

	return updated, nil
}

// UpdatePaymentStatus is restricted to the booking's own user.
func (s *Service) UpdatePaymentStatus(ctx context.Context, actorID, bookingID int64, status string) (*domain.Booking, error) {
	ps := domain.PaymentStatus(status)
	if !domain.ValidPaymentStatus(ps) {
		verr := newValidationError()
		verr.add("payment_status", "invalid payment status")
		return nil, verr
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if b.UserID != actorID {
		return nil, ErrForbidden
	}

	return s.bookings.UpdatePaymentStatus(ctx, bookingID, ps)
}

// AddReview attaches the one-time rating+review to a completed booking
// and folds the rating into the space's running average.
func (s *Service) AddReview(ctx context.Context, actorID, bookingID int64, rating int, review string) (*domain.Booking, error) {
	if rating < 1 || rating > 5 {
		verr := newValidationError()
		verr.add("rating", "rating must be between 1 and 5")
		return nil, verr
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if b.UserID != actorID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingCompleted {
		return nil, ErrInvalidStatusTransition
	}
	if b.Rating != nil {
		return nil, ErrInvalidStatusTransition
	}

	// AttachReview also folds the rating into the space aggregate, in
	// one transaction, so a failure leaves neither half applied.
	updated, err := s.bookings.AttachReview(ctx, bookingID, rating, review)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyNewReview(ctx, updated, rating)
	}

	return updated, nil
}

// GetByID returns a booking to its user or the space's owner (admins
// see everything).
func (s *Service) GetByID(ctx context.Context, actorID int64, actorRole domain.UserRole, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, asNotFound(err)
	}

	if actorRole == domain.RoleAdmin || b.UserID == actorID {
		return b, nil
	}

	space, err := s.spaces.GetByID(ctx, b.SpaceID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if space.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return b, nil
}

// List returns the actor's bookings: own bookings by default, bookings
// of owned spaces with AsOwner, everything for admins.
func (s *Service) List(ctx context.Context, actorID int64, actorRole domain.UserRole, q ListQuery) ([]domain.Booking, int64, error) {
	f := repository.BookingFilters{
		Status:        q.Status,
		PaymentStatus: q.PaymentStatus,
		Limit:         q.Limit,
		Offset:        (q.Page - 1) * q.Limit,
	}

	switch {
	case actorRole == domain.RoleAdmin:
	case q.AsOwner:
		f.SpaceOwnerID = actorID
	default:
		f.UserID = actorID
	}

	return s.bookings.List(ctx, f)
}

// ListForSpace returns a space's bookings to the space's owner.
func (s *Service) ListForSpace(ctx context.Context, actorID, spaceID int64, q ListQuery) ([]domain.Booking, int64, error) {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, 0, asNotFound(err)
	}
	if space.OwnerID != actorID {
		return nil, 0, ErrForbidden
	}

	return s.bookings.List(ctx, repository.BookingFilters{
		SpaceID: spaceID,
		Status:  q.Status,
		Limit:   q.Limit,
		Offset:  (q.Page - 1) * q.Limit,
	})
}

func (s *Service) validateCreate(req CreateBookingRequest) (Window, *domain.PaymentMethod, error) {
	verr := newValidationError()

	if req.SpaceID <= 0 {
		verr.add("space_id", "space is required")
	}
	if req.NumberOfPeople < 1 {
		verr.add("number_of_people", "number of people must be at least 1")
	}

	w, werr := parseWindow(req.StartDate, req.EndDate, req.StartTime, req.EndTime)
	if werr != nil {
		var inner *ValidationError
		if errors.As(werr, &inner) {
			for k, v := range inner.Fields {
				verr.add(k, v)
			}
		}
	}

	var method *domain.PaymentMethod
	if req.PaymentMethod != "" {
		m := domain.PaymentMethod(req.PaymentMethod)
		if !domain.ValidPaymentMethod(m) {
			verr.add("payment_method", "invalid payment method")
		} else {
			method = &m
		}
	}

	if err := verr.orNil(); err != nil {
		return Window{}, nil, err
	}
	return w, method, nil
}

func parseWindow(startDate, endDate, startTime, endTime string) (Window, error) {
	verr := newValidationError()

	sd, err := parseDate(startDate)
	if err != nil {
		verr.add("start_date", err.Error())
	}
	ed, err := parseDate(endDate)
	if err != nil {
		verr.add("end_date", err.Error())
	}
	validateClock(verr, "start_time", startTime)
	validateClock(verr, "end_time", endTime)

	if err := verr.orNil(); err != nil {
		return Window{}, err
	}
	return Window{StartDate: sd, EndDate: ed, StartTime: startTime, EndTime: endTime}, nil
}

func validateClock(verr *ValidationError, field, value string) {
	if _, err := clockMinutes(value); err != nil {
		verr.add(field, err.Error())
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isOverlapViolation recognizes the partial unique index guarding
// active bookings against identical double writes.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_no_double_booking"
	}
	return false
}
