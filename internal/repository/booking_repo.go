package repository

import (
	"context"
	"time"

	"eventspace/internal/domain"

	"gorm.io/gorm"
)

type BookingFilters struct {
	UserID        int64
	SpaceID       int64
	SpaceOwnerID  int64
	Status        string
	PaymentStatus string
	Limit         int
	Offset        int
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Space").
		Preload("User").
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindActiveOverlapping returns the coarse candidate set for conflict
// detection: PENDING or CONFIRMED bookings of the space whose date
// range overlaps [startDate, endDate] (closed intervals). The fine
// same-day time check is the caller's.
func (r *BookingRepository) FindActiveOverlapping(ctx context.Context, spaceID int64, startDate, endDate time.Time, excludeID int64) ([]domain.Booking, error) {
	return findActiveOverlapping(r.db.WithContext(ctx), spaceID, startDate, endDate, excludeID)
}

func findActiveOverlapping(tx *gorm.DB, spaceID int64, startDate, endDate time.Time, excludeID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	q := tx.
		Where("space_id = ?", spaceID).
		Where("status IN ?", []string{string(domain.BookingPending), string(domain.BookingConfirmed)}).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIfNoConflict runs the check-then-insert sequence in one
// transaction, holding a row lock on the space so two overlapping
// requests cannot both pass the check. Returns false when the
// conflicts callback rejects the candidate set.
func (r *BookingRepository) CreateIfNoConflict(ctx context.Context, b *domain.Booking, conflicts func([]domain.Booking) bool) (bool, error) {
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var space domain.Space
		if err := forUpdate(tx).First(&space, b.SpaceID).Error; err != nil {
			return err
		}

		candidates, err := findActiveOverlapping(tx, b.SpaceID, b.StartDate, b.EndDate, 0)
		if err != nil {
			return err
		}
		if conflicts(candidates) {
			return nil
		}

		if err := tx.Create(b).Error; err != nil {
			return err
		}
		created = true
		return nil
	})

	return created, err
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilters) ([]domain.Booking, int64, error) {
	var bookings []domain.Booking
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.Booking{})

	if f.UserID > 0 {
		q = q.Where("bookings.user_id = ?", f.UserID)
	}
	if f.SpaceID > 0 {
		q = q.Where("bookings.space_id = ?", f.SpaceID)
	}
	if f.SpaceOwnerID > 0 {
		q = q.Joins("JOIN spaces ON spaces.id = bookings.space_id").
			Where("spaces.owner_id = ?", f.SpaceOwnerID)
	}
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("bookings.payment_status = ?", f.PaymentStatus)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("Space").
		Preload("User").
		Order("bookings.created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&bookings).Error

	return bookings, total, err
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, cancellationReason string) (*domain.Booking, error) {
	updates := map[string]any{"status": status}
	if status == domain.BookingCancelled {
		now := time.Now()
		updates["cancelled_at"] = &now
		updates["cancellation_reason"] = cancellationReason
	}

	if err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Booking, error) {
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// UpdateWindow moves a booking to a new slot, re-checking conflicts
// under the space row lock with the booking itself excluded from the
// candidate set. Returns false when the new slot conflicts.
func (r *BookingRepository) UpdateWindow(ctx context.Context, b *domain.Booking, conflicts func([]domain.Booking) bool) (bool, error) {
	moved := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var space domain.Space
		if err := forUpdate(tx).First(&space, b.SpaceID).Error; err != nil {
			return err
		}

		candidates, err := findActiveOverlapping(tx, b.SpaceID, b.StartDate, b.EndDate, b.ID)
		if err != nil {
			return err
		}
		if conflicts(candidates) {
			return nil
		}

		err = tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Updates(map[string]any{
			"start_date":  b.StartDate,
			"end_date":    b.EndDate,
			"start_time":  b.StartTime,
			"end_time":    b.EndTime,
			"total_price": b.TotalPrice,
		}).Error
		if err != nil {
			return err
		}
		moved = true
		return nil
	})

	return moved, err
}

// AttachReview writes the one-time rating and review and folds the
// rating into the space's running average in the same transaction,
// locking the space row so concurrent folds cannot lose updates and a
// failed fold rolls the review back.
func (r *BookingRepository) AttachReview(ctx context.Context, id int64, rating int, review string) (*domain.Booking, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.First(&b, id).Error; err != nil {
			return err
		}

		var space domain.Space
		if err := forUpdate(tx).First(&space, b.SpaceID).Error; err != nil {
			return err
		}

		err := tx.Model(&domain.Booking{}).
			Where("id = ?", id).
			Updates(map[string]any{"rating": rating, "review": review}).Error
		if err != nil {
			return err
		}

		space.ApplyRating(rating)
		return tx.Model(&space).
			Select("rating_average", "rating_count").
			Updates(map[string]any{
				"rating_average": space.RatingAverage,
				"rating_count":   space.RatingCount,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
