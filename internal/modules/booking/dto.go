package booking

type CreateBookingRequest struct {
	SpaceID         int64  `json:"space_id" binding:"required"`
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	NumberOfPeople  int    `json:"number_of_people" binding:"required"`
	SpecialRequests string `json:"special_requests"`
	PaymentMethod   string `json:"payment_method"`
}

type PriceRequest struct {
	SpaceID   int64  `json:"space_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type PriceResponse struct {
	TotalPrice float64 `json:"total_price"`
	Currency   string  `json:"currency"`
}

type RescheduleRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type UpdateStatusRequest struct {
	Status             string `json:"status" binding:"required"`
	CancellationReason string `json:"cancellation_reason"`
}

type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

type ListQuery struct {
	Status        string
	PaymentStatus string
	AsOwner       bool
	Page          int
	Limit         int
}
