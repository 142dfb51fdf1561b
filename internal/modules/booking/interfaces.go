package booking

import (
	"context"
	"time"

	"eventspace/internal/domain"
	"eventspace/internal/repository"
)

// BookingRepository defines the storage operations the lifecycle needs.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindActiveOverlapping(ctx context.Context, spaceID int64, startDate, endDate time.Time, excludeID int64) ([]domain.Booking, error)
	CreateIfNoConflict(ctx context.Context, b *domain.Booking, conflicts func([]domain.Booking) bool) (bool, error)
	UpdateWindow(ctx context.Context, b *domain.Booking, conflicts func([]domain.Booking) bool) (bool, error)
	List(ctx context.Context, f repository.BookingFilters) ([]domain.Booking, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, cancellationReason string) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Booking, error)
	AttachReview(ctx context.Context, id int64, rating int, review string) (*domain.Booking, error)
}

// SpaceRepository defines the space operations the lifecycle needs.
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
}

// NotificationSender delivers side-effect notifications. Calls are
// best-effort; the service never lets a send failure reach the caller.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, b *domain.Booking) error
	NotifyBookingStatusChanged(ctx context.Context, b *domain.Booking, reason string) error
	NotifyNewReview(ctx context.Context, b *domain.Booking, rating int) error
}
