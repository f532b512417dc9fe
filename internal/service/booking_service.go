package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	models "github.com/roamly/travelbook/internal"
	"github.com/roamly/travelbook/internal/access"
	"github.com/roamly/travelbook/internal/capacity"
	"github.com/roamly/travelbook/internal/ports"
	"github.com/roamly/travelbook/internal/tracking"
)

const (
	// A confirmed booking can only be cancelled while at least this much
	// lead time remains before the trip starts. Pending bookings are exempt.
	confirmedCancelCutoff = 72 * time.Hour

	// Attempts at minting identifiers before giving up on the request.
	maxMintAttempts = 3

	defaultPageLimit = 10
	maxPageLimit     = 100
)

type bookingService struct {
	repo      ports.BookingRepository
	catalog   ports.PackageCatalog
	capacity  *capacity.Accountant
	generator *tracking.Generator
	now       func() time.Time
}

type Option func(*bookingService)

func WithClock(now func() time.Time) Option {
	return func(s *bookingService) {
		s.now = now
	}
}

func WithGenerator(g *tracking.Generator) Option {
	return func(s *bookingService) {
		s.generator = g
	}
}

func NewBookingService(repo ports.BookingRepository, catalog ports.PackageCatalog, opts ...Option) *bookingService {
	s := &bookingService{
		repo:      repo,
		catalog:   catalog,
		capacity:  capacity.NewAccountant(repo),
		generator: tracking.NewGenerator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) CreateBooking(ctx context.Context, request *models.BookingRequest, actor access.Actor) (*models.Booking, error) {
	pkg, err := s.catalog.GetPackage(ctx, request.PackageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, models.ErrPackageInactive
	}
	if request.NumberOfPeople > pkg.MaxCapacity {
		return nil, fmt.Errorf("%w: %d people requested, package holds %d",
			models.ErrCapacityExceeded, request.NumberOfPeople, pkg.MaxCapacity)
	}

	// Advisory pre-check so obviously full packages fail fast. The create
	// transaction recomputes occupancy before the insert.
	occupied, err := s.capacity.Occupancy(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}
	if occupied+request.NumberOfPeople > pkg.MaxCapacity {
		return nil, fmt.Errorf("%w: %d of %d seats taken",
			models.ErrCapacityExceeded, occupied, pkg.MaxCapacity)
	}

	userID, err := s.resolveOwner(ctx, actor, request.CustomerEmail)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	booking := &models.Booking{
		ID:                  uuid.New(),
		UserID:              userID,
		PackageID:           pkg.ID,
		PackageName:         pkg.Name,
		PackageLocation:     pkg.Location,
		StartDate:           request.StartDate,
		EndDate:             request.EndDate,
		NumberOfPeople:      request.NumberOfPeople,
		CustomerName:        request.CustomerName,
		CustomerEmail:       request.CustomerEmail,
		CustomerPhone:       request.CustomerPhone,
		TotalAmount:         request.TotalAmount,
		PricePerPerson:      request.PricePerPerson,
		SpecialRequirements: request.SpecialRequirements,
		Notes:               request.Notes,
		Status:              models.StatusPending,
		PaymentStatus:       models.PaymentPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	txRetried := false
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		booking.BookingNumber = s.generator.NewBookingNumber()
		booking.TrackingID = s.generator.NewTrackingID()

		saved, err := s.repo.CreateBooking(ctx, booking)
		switch {
		case err == nil:
			return saved, nil
		case errors.Is(err, models.ErrDuplicateIdentifier):
			// Same-millisecond collision on the unique index; mint again.
			continue
		case errors.Is(err, models.ErrTxConflict) && !txRetried:
			txRetried = true
			attempt--
			continue
		default:
			return nil, fmt.Errorf("creating booking: %w", err)
		}
	}
	return nil, models.ErrIdentifierConflict
}

// resolveOwner prefers the authenticated actor; otherwise an account whose
// email matches the customer email is linked, else the booking stays a
// guest booking.
func (s *bookingService) resolveOwner(ctx context.Context, actor access.Actor, customerEmail string) (*uuid.UUID, error) {
	if id, ok := actor.UserID(); ok {
		return &id, nil
	}
	id, err := s.repo.FindUserIDByEmail(ctx, customerEmail)
	if err != nil {
		return nil, fmt.Errorf("resolving booking owner: %w", err)
	}
	return id, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID, actor access.Actor) (*models.Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(actor, booking) {
		return nil, models.ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, id uuid.UUID, update *models.BookingUpdate, actor access.Actor) (*models.Booking, error) {
	if update.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrInvalidInput)
	}

	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(actor, booking) {
		return nil, models.ErrForbidden
	}
	if booking.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: booking is cancelled", models.ErrInvalidStatusChange)
	}

	if err := validateDates(booking, update); err != nil {
		return nil, err
	}

	if update.Status != nil && *update.Status != booking.Status {
		if !booking.Status.CanTransitionTo(*update.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStatusChange, booking.Status, *update.Status)
		}
		// Cancellation goes through the cancel path so the cutoff rule and
		// cancelled_at stamping apply regardless of how it was requested.
		if *update.Status == models.StatusCancelled {
			return s.cancel(ctx, booking)
		}
	}

	return s.repo.UpdateBooking(ctx, id, *update)
}

func (s *bookingService) CancelBooking(ctx context.Context, id uuid.UUID, actor access.Actor) (*models.Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(actor, booking) {
		return nil, models.ErrForbidden
	}
	if booking.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: booking is already cancelled", models.ErrInvalidStatusChange)
	}
	return s.cancel(ctx, booking)
}

func (s *bookingService) cancel(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	now := s.now().UTC()
	if booking.Status == models.StatusConfirmed && booking.StartDate.Sub(now) < confirmedCancelCutoff {
		return nil, models.ErrCancelCutoff
	}
	return s.repo.CancelBooking(ctx, booking.ID, now)
}

func (s *bookingService) BookingsByUser(ctx context.Context, userID uuid.UUID, status *models.BookingStatus, page, limit int) (*models.BookingsPage, error) {
	page, limit = normalizePage(page, limit)
	bookings, err := s.repo.ListBookings(ctx, models.BookingFilter{
		UserID: &userID,
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing user bookings: %w", err)
	}
	return &models.BookingsPage{Bookings: bookings, Page: page, Limit: limit}, nil
}

func (s *bookingService) BookingsByPackage(ctx context.Context, packageID uuid.UUID, status *models.BookingStatus, from, to *time.Time, page, limit int) (*models.PackageBookingsResponse, error) {
	pkg, err := s.catalog.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)
	bookings, err := s.repo.ListBookings(ctx, models.BookingFilter{
		PackageID: &packageID,
		Status:    status,
		From:      from,
		To:        to,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing package bookings: %w", err)
	}

	stats, err := s.capacity.Stats(ctx, pkg)
	if err != nil {
		return nil, err
	}

	return &models.PackageBookingsResponse{
		Bookings: bookings,
		Stats:    stats,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (s *bookingService) TrackBooking(ctx context.Context, trackingID string) (*models.TrackedBooking, error) {
	booking, staff, err := s.repo.GetBookingByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	return models.NewTrackedBooking(booking, staff), nil
}

// validateDates checks the resulting date pair when one or both trip dates
// change.
func validateDates(booking *models.Booking, update *models.BookingUpdate) error {
	if update.StartDate == nil && update.EndDate == nil {
		return nil
	}
	start := booking.StartDate
	end := booking.EndDate
	if update.StartDate != nil {
		start = *update.StartDate
	}
	if update.EndDate != nil {
		end = *update.EndDate
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date precedes start date", models.ErrInvalidInput)
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
