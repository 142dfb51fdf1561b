package catalog

import (
	"context"

	"eventspace/internal/domain"
	"eventspace/internal/pkg/validator"
	"eventspace/internal/repository"
)

// SpaceRepositoryInterface lists the storage operations the catalog uses.
type SpaceRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Space) error
	Update(ctx context.Context, s *domain.Space) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
	GetAll(ctx context.Context, f repository.SpaceFilters) ([]domain.Space, int64, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]domain.Space, error)
}

// ImageRemover deletes stored image files after a space is gone.
type ImageRemover interface {
	Remove(paths []string)
}

type Service struct {
	spaces SpaceRepositoryInterface
	images ImageRemover
}

func NewService(spaces SpaceRepositoryInterface, images ImageRemover) *Service {
	return &Service{spaces: spaces, images: images}
}

func (s *Service) CreateSpace(ctx context.Context, ownerID int64, req CreateSpaceRequest) (*domain.Space, error) {
	spaceType, err := domain.ParseSpaceType(req.Type)
	if err != nil {
		return nil, ErrInvalidSpaceType
	}
	priceUnit, err := domain.ParsePriceUnit(req.PriceUnit)
	if err != nil {
		return nil, ErrInvalidPriceUnit
	}

	space := &domain.Space{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Type:        spaceType,
		Capacity:    req.Capacity,
		Price:       req.Price,
		PriceUnit:   priceUnit,
		Amenities:   req.Amenities,
		Address:     req.Address,
		IsAvailable: true,
		IsActive:    true,
	}

	if fields := validator.Validate(space); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.spaces.Create(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *Service) UpdateSpace(ctx context.Context, userID int64, role domain.UserRole, spaceID int64, req UpdateSpaceRequest) (*domain.Space, error) {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space.OwnerID != userID && role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		space.Name = *req.Name
	}
	if req.Description != nil {
		space.Description = *req.Description
	}
	if req.Type != nil {
		t, err := domain.ParseSpaceType(*req.Type)
		if err != nil {
			return nil, ErrInvalidSpaceType
		}
		space.Type = t
	}
	if req.Capacity != nil && *req.Capacity > 0 {
		space.Capacity = *req.Capacity
	}
	if req.Price != nil && *req.Price >= 0 {
		space.Price = *req.Price
	}
	if req.PriceUnit != nil {
		u, err := domain.ParsePriceUnit(*req.PriceUnit)
		if err != nil {
			return nil, ErrInvalidPriceUnit
		}
		space.PriceUnit = u
	}
	if req.Amenities != nil {
		space.Amenities = *req.Amenities
	}
	if req.Address != nil {
		space.Address = *req.Address
	}
	if req.IsAvailable != nil {
		space.IsAvailable = *req.IsAvailable
	}

	if fields := validator.Validate(space); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.spaces.Update(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

// DeleteSpace removes the space row and its stored images. Bookings
// keep their history; only the listing disappears.
func (s *Service) DeleteSpace(ctx context.Context, userID int64, role domain.UserRole, spaceID int64) error {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return err
	}
	if space.OwnerID != userID && role != domain.RoleAdmin {
		return ErrForbidden
	}

	if err := s.spaces.Delete(ctx, spaceID); err != nil {
		return err
	}
	if s.images != nil && len(space.Images) > 0 {
		s.images.Remove(space.Images)
	}
	return nil
}

func (s *Service) GetSpace(ctx context.Context, spaceID int64) (*domain.Space, error) {
	return s.spaces.GetByID(ctx, spaceID)
}

func (s *Service) ListSpaces(ctx context.Context, q ListQuery) ([]domain.Space, int64, error) {
	return s.spaces.GetAll(ctx, repository.SpaceFilters{
		City:        q.City,
		Type:        q.Type,
		MinCapacity: q.MinCapacity,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		Available:   q.Available,
		Limit:       q.Limit,
		Offset:      (q.Page - 1) * q.Limit,
	})
}

func (s *Service) ListOwnSpaces(ctx context.Context, ownerID int64) ([]domain.Space, error) {
	return s.spaces.GetByOwnerID(ctx, ownerID)
}

// AddImages appends stored image paths to the space.
func (s *Service) AddImages(ctx context.Context, userID int64, role domain.UserRole, spaceID int64, paths []string) (*domain.Space, error) {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space.OwnerID != userID && role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	space.Images = append(space.Images, paths...)
	if err := s.spaces.Update(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}
