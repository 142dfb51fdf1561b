package catalog

import (
	"context"
	"testing"

	"eventspace/internal/domain"
	"eventspace/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSpaceRepository struct {
	mock.Mock
}

func (m *MockSpaceRepository) Create(ctx context.Context, s *domain.Space) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = 1
	}
	return args.Error(0)
}

func (m *MockSpaceRepository) Update(ctx context.Context, s *domain.Space) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSpaceRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSpaceRepository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Space), args.Error(1)
}

func (m *MockSpaceRepository) GetAll(ctx context.Context, f repository.SpaceFilters) ([]domain.Space, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Space), args.Get(1).(int64), args.Error(2)
}

func (m *MockSpaceRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]domain.Space, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Space), args.Error(1)
}

type MockImageRemover struct {
	mock.Mock
}

func (m *MockImageRemover) Remove(paths []string) {
	m.Called(paths)
}

func validCreateRequest() CreateSpaceRequest {
	return CreateSpaceRequest{
		Name:        "Downtown Meeting Room",
		Description: "Bright room near the station",
		Type:        "MEETING_ROOM",
		Capacity:    12,
		Price:       5000,
		PriceUnit:   "HOUR",
		Address: domain.Address{
			Street:  "12 Station Road",
			City:    "Douala",
			Country: "CM",
		},
	}
}

func ownedSpace() *domain.Space {
	return &domain.Space{
		ID:          3,
		OwnerID:     10,
		Name:        "Loft",
		Description: "Open loft",
		Type:        domain.SpaceCoworking,
		Capacity:    30,
		Price:       20000,
		PriceUnit:   domain.PricePerDay,
		Images:      []string{"uploads/a.jpg", "uploads/b.jpg"},
		IsAvailable: true,
		IsActive:    true,
	}
}

func TestService_CreateSpace_Success(t *testing.T) {
	spaces := new(MockSpaceRepository)
	spaces.On("Create", mock.Anything, mock.AnythingOfType("*domain.Space")).Return(nil)

	svc := NewService(spaces, nil)
	space, err := svc.CreateSpace(context.Background(), 10, validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(10), space.OwnerID)
	assert.Equal(t, domain.SpaceMeetingRoom, space.Type)
	assert.True(t, space.IsAvailable)
	assert.True(t, space.IsActive)
	spaces.AssertExpectations(t)
}

func TestService_CreateSpace_UnknownType(t *testing.T) {
	svc := NewService(new(MockSpaceRepository), nil)

	req := validCreateRequest()
	req.Type = "WAREHOUSE"
	_, err := svc.CreateSpace(context.Background(), 10, req)

	assert.ErrorIs(t, err, ErrInvalidSpaceType)
}

func TestService_CreateSpace_UnknownPriceUnit(t *testing.T) {
	svc := NewService(new(MockSpaceRepository), nil)

	req := validCreateRequest()
	req.PriceUnit = "MINUTE"
	_, err := svc.CreateSpace(context.Background(), 10, req)

	assert.ErrorIs(t, err, ErrInvalidPriceUnit)
}

func TestService_CreateSpace_CapacityOutOfRange(t *testing.T) {
	svc := NewService(new(MockSpaceRepository), nil)

	req := validCreateRequest()
	req.Capacity = 500
	_, err := svc.CreateSpace(context.Background(), 10, req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Capacity")
}

func TestService_UpdateSpace_OwnerOnly(t *testing.T) {
	spaces := new(MockSpaceRepository)
	spaces.On("GetByID", mock.Anything, int64(3)).Return(ownedSpace(), nil)

	svc := NewService(spaces, nil)
	name := "New name"
	_, err := svc.UpdateSpace(context.Background(), 99, domain.RoleOwner, 3, UpdateSpaceRequest{Name: &name})

	assert.ErrorIs(t, err, ErrForbidden)
	spaces.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateSpace_AdminBypassesOwnership(t *testing.T) {
	spaces := new(MockSpaceRepository)
	spaces.On("GetByID", mock.Anything, int64(3)).Return(ownedSpace(), nil)
	spaces.On("Update", mock.Anything, mock.AnythingOfType("*domain.Space")).Return(nil)

	svc := NewService(spaces, nil)
	available := false
	space, err := svc.UpdateSpace(context.Background(), 99, domain.RoleAdmin, 3, UpdateSpaceRequest{IsAvailable: &available})

	require.NoError(t, err)
	assert.False(t, space.IsAvailable)
}

func TestService_UpdateSpace_PartialFields(t *testing.T) {
	spaces := new(MockSpaceRepository)
	spaces.On("GetByID", mock.Anything, int64(3)).Return(ownedSpace(), nil)
	spaces.On("Update", mock.Anything, mock.AnythingOfType("*domain.Space")).Return(nil)

	svc := NewService(spaces, nil)
	price := 25000.0
	space, err := svc.UpdateSpace(context.Background(), 10, domain.RoleOwner, 3, UpdateSpaceRequest{Price: &price})

	require.NoError(t, err)
	assert.Equal(t, 25000.0, space.Price)
	assert.Equal(t, "Loft", space.Name)
	assert.Equal(t, domain.PricePerDay, space.PriceUnit)
}

func TestService_DeleteSpace_RemovesImages(t *testing.T) {
	spaces := new(MockSpaceRepository)
	images := new(MockImageRemover)
	spaces.On("GetByID", mock.Anything, int64(3)).Return(ownedSpace(), nil)
	spaces.On("Delete", mock.Anything, int64(3)).Return(nil)
	images.On("Remove", []string{"uploads/a.jpg", "uploads/b.jpg"}).Return()

	svc := NewService(spaces, images)
	err := svc.DeleteSpace(context.Background(), 10, domain.RoleOwner, 3)

	require.NoError(t, err)
	images.AssertExpectations(t)
}

func TestService_DeleteSpace_ForbiddenKeepsImages(t *testing.T) {
	spaces := new(MockSpaceRepository)
	images := new(MockImageRemover)
	spaces.On("GetByID", mock.Anything, int64(3)).Return(ownedSpace(), nil)

	svc := NewService(spaces, images)
	err := svc.DeleteSpace(context.Background(), 42, domain.RoleUser, 3)

	assert.ErrorIs(t, err, ErrForbidden)
	spaces.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	images.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestService_ListSpaces_PassesFilters(t *testing.T) {
	spaces := new(MockSpaceRepository)
	available := true
	expected := repository.SpaceFilters{
		City:        "Douala",
		Type:        "OFFICE",
		MinCapacity: 5,
		Available:   &available,
		Limit:       10,
		Offset:      10,
	}
	spaces.On("GetAll", mock.Anything, expected).Return([]domain.Space{}, int64(0), nil)

	svc := NewService(spaces, nil)
	_, _, err := svc.ListSpaces(context.Background(), ListQuery{
		City:        "Douala",
		Type:        "OFFICE",
		MinCapacity: 5,
		Available:   &available,
		Page:        2,
		Limit:       10,
	})

	require.NoError(t, err)
	spaces.AssertExpectations(t)
}

func TestService_AddImages_Appends(t *testing.T) {
	spaces := new(MockSpaceRepository)
	spaces.On("GetByID", mock.Anything, int64(3)).Return(ownedSpace(), nil)
	spaces.On("Update", mock.Anything, mock.AnythingOfType("*domain.Space")).Return(nil)

	svc := NewService(spaces, nil)
	space, err := svc.AddImages(context.Background(), 10, domain.RoleOwner, 3, []string{"uploads/c.jpg"})

	require.NoError(t, err)
	assert.Len(t, space.Images, 3)
}
