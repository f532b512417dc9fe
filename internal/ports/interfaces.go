package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	models "github.com/roamly/travelbook/internal"
	"github.com/roamly/travelbook/internal/access"
)

type BookingRepository interface {
	// CreateBooking persists the booking after re-checking the package's
	// occupancy inside the same transaction. Returns
	// models.ErrCapacityExceeded, models.ErrPackageNotFound,
	// models.ErrPackageInactive, or the retryable
	// models.ErrDuplicateIdentifier / models.ErrTxConflict.
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetBookingByTrackingID(ctx context.Context, trackingID string) (*models.Booking, *models.StaffContact, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, update models.BookingUpdate) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID, at time.Time) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	PackageOccupancy(ctx context.Context, packageID uuid.UUID) (int, error)
	FindUserIDByEmail(ctx context.Context, email string) (*uuid.UUID, error)
}

type PackageCatalog interface {
	GetPackage(ctx context.Context, id uuid.UUID) (*models.TravelPackage, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, request *models.BookingRequest, actor access.Actor) (*models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID, actor access.Actor) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, update *models.BookingUpdate, actor access.Actor) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID, actor access.Actor) (*models.Booking, error)
	BookingsByUser(ctx context.Context, userID uuid.UUID, status *models.BookingStatus, page, limit int) (*models.BookingsPage, error)
	BookingsByPackage(ctx context.Context, packageID uuid.UUID, status *models.BookingStatus, from, to *time.Time, page, limit int) (*models.PackageBookingsResponse, error)
	TrackBooking(ctx context.Context, trackingID string) (*models.TrackedBooking, error)
}
