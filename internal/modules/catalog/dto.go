package catalog

import "eventspace/internal/domain"

type CreateSpaceRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Type        string         `json:"type" binding:"required"`
	Capacity    int            `json:"capacity" binding:"required"`
	Price       float64        `json:"price"`
	PriceUnit   string         `json:"price_unit" binding:"required"`
	Amenities   []string       `json:"amenities"`
	Address     domain.Address `json:"address" binding:"required"`
}

// UpdateSpaceRequest uses pointers so absent fields keep their value.
type UpdateSpaceRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Type        *string         `json:"type"`
	Capacity    *int            `json:"capacity"`
	Price       *float64        `json:"price"`
	PriceUnit   *string         `json:"price_unit"`
	Amenities   *[]string       `json:"amenities"`
	Address     *domain.Address `json:"address"`
	IsAvailable *bool           `json:"is_available"`
}

type ListQuery struct {
	City        string
	Type        string
	MinCapacity int
	MinPrice    float64
	MaxPrice    float64
	Available   *bool
	Page        int
	Limit       int
}
