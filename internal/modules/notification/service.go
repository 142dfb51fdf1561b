package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"eventspace/internal/domain"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type SpaceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
}

// Service persists notifications, pushes them over the websocket hub
// and mirrors the important ones to email. All delivery is best-effort:
// booking flows must never fail because a notification could not go out.
type Service struct {
	repo       Repository
	users      UserReader
	spaces     SpaceReader
	hub        *Hub
	mailer     Mailer
	adminEmail string
}

func NewService(repo Repository, users UserReader, spaces SpaceReader, hub *Hub, mailer Mailer, adminEmail string) *Service {
	return &Service{
		repo:       repo,
		users:      users,
		spaces:     spaces,
		hub:        hub,
		mailer:     mailer,
		adminEmail: adminEmail,
	}
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// NotifyBookingCreated tells the space owner about a new request, sends
// the requesting user a confirmation that it was received and mirrors
// the event to the configured admin address.
func (s *Service) NotifyBookingCreated(ctx context.Context, b *domain.Booking) error {
	space, err := s.spaces.GetByID(ctx, b.SpaceID)
	if err != nil {
		return fmt.Errorf("load space %d: %w", b.SpaceID, err)
	}

	var errs []error

	title := "New booking request"
	msg := fmt.Sprintf("%s has a new booking request for %s.", space.Name, b.StartDate.Format("2006-01-02"))
	errs = append(errs, s.deliver(ctx, space.OwnerID, domain.NotifBookingCreated, title, msg, b))

	if user, err := s.users.GetByID(ctx, b.UserID); err != nil {
		errs = append(errs, err)
	} else if user.Email != "" {
		body := fmt.Sprintf(
			"Hi %s,\n\nWe received your booking request for %s on %s from %s to %s.\nTotal: %.0f\n\nYou will be notified once the owner responds.",
			user.DisplayName(), space.Name, b.StartDate.Format("2006-01-02"), b.StartTime, b.EndTime, b.TotalPrice,
		)
		errs = append(errs, s.mail(ctx, user.Email, "Booking request received", body))
	}

	if s.adminEmail != "" {
		body := fmt.Sprintf(
			"Booking #%d: %s on %s from %s to %s.\nTotal: %.0f",
			b.ID, space.Name, b.StartDate.Format("2006-01-02"), b.StartTime, b.EndTime, b.TotalPrice,
		)
		errs = append(errs, s.mail(ctx, s.adminEmail, "New booking on the platform", body))
	}

	return errors.Join(errs...)
}

// NotifyBookingStatusChanged tells the booking's user how the owner
// resolved their request. A cancellation additionally notifies the
// owner, since users can cancel their own bookings.
func (s *Service) NotifyBookingStatusChanged(ctx context.Context, b *domain.Booking, reason string) error {
	typ, title, msg := statusNotice(b, reason)

	var errs []error
	errs = append(errs, s.deliver(ctx, b.UserID, typ, title, msg, b))

	if user, err := s.users.GetByID(ctx, b.UserID); err != nil {
		errs = append(errs, err)
	} else if user.Email != "" {
		errs = append(errs, s.mail(ctx, user.Email, title, msg))
	}

	if b.Status == domain.BookingCancelled {
		if space, err := s.spaces.GetByID(ctx, b.SpaceID); err != nil {
			errs = append(errs, err)
		} else if space.OwnerID != 0 {
			errs = append(errs, s.deliver(ctx, space.OwnerID, typ, title, msg, b))
		}
	}

	return errors.Join(errs...)
}

// NotifyNewReview tells the space owner a completed booking was rated.
func (s *Service) NotifyNewReview(ctx context.Context, b *domain.Booking, rating int) error {
	space, err := s.spaces.GetByID(ctx, b.SpaceID)
	if err != nil {
		return fmt.Errorf("load space %d: %w", b.SpaceID, err)
	}

	title := "New review"
	msg := fmt.Sprintf("%s received a %d-star review.", space.Name, rating)
	return s.deliver(ctx, space.OwnerID, domain.NotifNewReview, title, msg, b)
}

// deliver stores the notification row, then pushes it to the recipient's
// open websocket connection if any.
func (s *Service) deliver(ctx context.Context, userID int64, typ domain.NotificationType, title, msg string, b *domain.Booking) error {
	data, _ := json.Marshal(map[string]int64{
		"booking_id": b.ID,
		"space_id":   b.SpaceID,
	})

	n := &domain.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: msg,
		Data:    data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, map[string]interface{}{
			"event":        "notification",
			"notification": n,
		})
	}
	return nil
}

func (s *Service) mail(ctx context.Context, to, subject, body string) error {
	if s.mailer == nil {
		return nil
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		log.Printf("notification: mail to %s failed: %v", to, err)
		return err
	}
	return nil
}

func statusNotice(b *domain.Booking, reason string) (domain.NotificationType, string, string) {
	date := b.StartDate.Format("2006-01-02")
	switch b.Status {
	case domain.BookingConfirmed:
		return domain.NotifBookingConfirmed, "Booking confirmed",
			fmt.Sprintf("Your booking for %s was confirmed.", date)
	case domain.BookingRejected:
		msg := fmt.Sprintf("Your booking for %s was declined.", date)
		if reason != "" {
			msg += " Reason: " + reason
		}
		return domain.NotifBookingRejected, "Booking declined", msg
	case domain.BookingCancelled:
		msg := fmt.Sprintf("The booking for %s was cancelled.", date)
		if reason != "" {
			msg += " Reason: " + reason
		}
		return domain.NotifBookingCancelled, "Booking cancelled", msg
	case domain.BookingCompleted:
		return domain.NotifBookingCompleted, "Booking completed",
			fmt.Sprintf("Your booking for %s is now complete. You can leave a review.", date)
	default:
		return domain.NotifBookingCreated, "Booking updated",
			fmt.Sprintf("The booking for %s was updated.", date)
	}
}
