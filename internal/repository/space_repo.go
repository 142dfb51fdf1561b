package repository

import (
	"context"

	"eventspace/internal/domain"

	"gorm.io/gorm"
)

type SpaceFilters struct {
	City        string
	Type        string
	MinCapacity int
	MinPrice    float64
	MaxPrice    float64
	Available   *bool
	Limit       int
	Offset      int
}

type SpaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

func (r *SpaceRepository) Create(ctx context.Context, s *domain.Space) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SpaceRepository) Update(ctx context.Context, s *domain.Space) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete removes a space for good. Image files are the caller's to
// clean up; bookings referencing the space are left in place.
func (r *SpaceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Space{}, id).Error
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	var s domain.Space
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SpaceRepository) GetAll(ctx context.Context, f SpaceFilters) ([]domain.Space, int64, error) {
	var spaces []domain.Space
	var total int64

	q := r.db.WithContext(ctx).
		Model(&domain.Space{}).
		Where("is_active = ?", true)

	if f.City != "" {
		q = q.Where("address_city = ?", f.City)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.MinCapacity > 0 {
		q = q.Where("capacity >= ?", f.MinCapacity)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.Available != nil {
		q = q.Where("is_available = ?", *f.Available)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&spaces).Error

	return spaces, total, err
}

func (r *SpaceRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]domain.Space, error) {
	var spaces []domain.Space
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&spaces).Error
	return spaces, err
}
