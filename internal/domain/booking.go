package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingRejected  BookingStatus = "REJECTED"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PayCash         PaymentMethod = "CASH"
	PayCard         PaymentMethod = "CARD"
	PayMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PayBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCash, PayCard, PayMobileMoney, PayBankTransfer:
		return true
	}
	return false
}

type Booking struct {
	ID      int64 `json:"id" gorm:"primaryKey"`
	UserID  int64 `json:"user_id" gorm:"index"`
	SpaceID int64 `json:"space_id" gorm:"index"`

	// Calendar dates of the reservation; times of day are kept
	// separately as HH:MM strings, as entered by the client.
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`

	NumberOfPeople int     `json:"number_of_people"`
	TotalPrice     float64 `json:"total_price"`

	Status        BookingStatus  `json:"status" gorm:"index"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`

	SpecialRequests    string `json:"special_requests,omitempty" gorm:"type:text"`
	CancellationReason string `json:"cancellation_reason,omitempty" gorm:"type:text"`

	// Set exactly once, after completion, by the booking's user.
	Rating *int   `json:"rating,omitempty"`
	Review string `json:"review,omitempty" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Space *Space `json:"space,omitempty" gorm:"foreignKey:SpaceID"`
}

// IsActive reports whether the booking still occupies its time window
// for conflict purposes.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// CanTransition encodes the owner-driven status machine:
// PENDING may be confirmed or rejected, CONFIRMED may complete or be
// cancelled. CANCELLED, REJECTED and COMPLETED are terminal.
func (b *Booking) CanTransition(to BookingStatus) bool {
	switch b.Status {
	case BookingPending:
		return to == BookingConfirmed || to == BookingRejected
	case BookingConfirmed:
		return to == BookingCompleted || to == BookingCancelled
	}
	return false
}
