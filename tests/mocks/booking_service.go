package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	models "github.com/roamly/travelbook/internal"
	"github.com/roamly/travelbook/internal/access"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, request *models.BookingRequest, actor access.Actor) (*models.Booking, error) {
	args := m.Called(ctx, request, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id uuid.UUID, actor access.Actor) (*models.Booking, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) UpdateBooking(ctx context.Context, id uuid.UUID, update *models.BookingUpdate, actor access.Actor) (*models.Booking, error) {
	args := m.Called(ctx, id, update, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, id uuid.UUID, actor access.Actor) (*models.Booking, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) BookingsByUser(ctx context.Context, userID uuid.UUID, status *models.BookingStatus, page, limit int) (*models.BookingsPage, error) {
	args := m.Called(ctx, userID, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingsPage), args.Error(1)
}

func (m *MockBookingService) BookingsByPackage(ctx context.Context, packageID uuid.UUID, status *models.BookingStatus, from, to *time.Time, page, limit int) (*models.PackageBookingsResponse, error) {
	args := m.Called(ctx, packageID, status, from, to, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PackageBookingsResponse), args.Error(1)
}

func (m *MockBookingService) TrackBooking(ctx context.Context, trackingID string) (*models.TrackedBooking, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrackedBooking), args.Error(1)
}
