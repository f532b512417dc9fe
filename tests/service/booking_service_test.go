package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	models "github.com/roamly/travelbook/internal"
	"github.com/roamly/travelbook/internal/access"
	"github.com/roamly/travelbook/internal/service"
	"github.com/roamly/travelbook/tests/mocks"
)

var trackingPattern = regexp.MustCompile(`^TRK\d{10}$`)
var bookingNumberPattern = regexp.MustCompile(`^BK\d+$`)

func fixedClock(t time.Time) service.Option {
	return service.WithClock(func() time.Time { return t })
}

func validRequest(packageID uuid.UUID, start time.Time) *models.BookingRequest {
	return &models.BookingRequest{
		PackageID:      packageID,
		StartDate:      start,
		EndDate:        start.Add(7 * 24 * time.Hour),
		NumberOfPeople: 4,
		CustomerName:   "Jane Traveller",
		CustomerEmail:  "jane@example.com",
		CustomerPhone:  "+44 20 7946 0958",
		TotalAmount:    2000,
		PricePerPerson: 500,
	}
}

func activePackage(id uuid.UUID) *models.TravelPackage {
	return &models.TravelPackage{
		ID:          id,
		Name:        "Highlands Escape",
		Location:    "Scotland",
		MaxCapacity: 10,
		IsActive:    true,
	}
}

func TestCreateBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	packageID := uuid.New()
	start := now.Add(30 * 24 * time.Hour)

	t.Run("successful guest booking", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()
		request := validRequest(packageID, start)

		var created *models.Booking
		mockCatalog.On("GetPackage", ctx, packageID).Return(activePackage(packageID), nil)
		mockRepo.On("PackageOccupancy", ctx, packageID).Return(0, nil)
		mockRepo.On("FindUserIDByEmail", ctx, request.CustomerEmail).Return(nil, nil)
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.Booking)
			}).
			Return(&models.Booking{Status: models.StatusPending}, nil)

		booking, err := svc.CreateBooking(ctx, request, access.Anonymous())

		require.NoError(t, err)
		require.NotNil(t, booking)
		require.NotNil(t, created)
		assert.Equal(t, models.StatusPending, created.Status)
		assert.Equal(t, models.PaymentPending, created.PaymentStatus)
		assert.Nil(t, created.UserID)
		assert.Equal(t, "Highlands Escape", created.PackageName)
		assert.Equal(t, "Scotland", created.PackageLocation)
		assert.Regexp(t, trackingPattern, created.TrackingID)
		assert.Regexp(t, bookingNumberPattern, created.BookingNumber)
		assert.Equal(t, now, created.CreatedAt)
		mockRepo.AssertExpectations(t)
		mockCatalog.AssertExpectations(t)
	})

	t.Run("authenticated caller owns the booking", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()
		userID := uuid.New()

		var created *models.Booking
		mockCatalog.On("GetPackage", ctx, packageID).Return(activePackage(packageID), nil)
		mockRepo.On("PackageOccupancy", ctx, packageID).Return(0, nil)
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.Booking)
			}).
			Return(&models.Booking{}, nil)

		_, err := svc.CreateBooking(ctx, validRequest(packageID, start), access.Authenticated(userID))

		require.NoError(t, err)
		require.NotNil(t, created.UserID)
		assert.Equal(t, userID, *created.UserID)
		mockRepo.AssertNotCalled(t, "FindUserIDByEmail", mock.Anything, mock.Anything)
	})

	t.Run("guest booking linked to account matching customer email", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()
		accountID := uuid.New()
		request := validRequest(packageID, start)

		var created *models.Booking
		mockCatalog.On("GetPackage", ctx, packageID).Return(activePackage(packageID), nil)
		mockRepo.On("PackageOccupancy", ctx, packageID).Return(0, nil)
		mockRepo.On("FindUserIDByEmail", ctx, request.CustomerEmail).Return(&accountID, nil)
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.Booking)
			}).
			Return(&models.Booking{}, nil)

		_, err := svc.CreateBooking(ctx, request, access.Anonymous())

		require.NoError(t, err)
		require.NotNil(t, created.UserID)
		assert.Equal(t, accountID, *created.UserID)
	})

	t.Run("package not found", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		mockCatalog.On("GetPackage", ctx, packageID).Return(nil, models.ErrPackageNotFound)

		booking, err := svc.CreateBooking(ctx, validRequest(packageID, start), access.Anonymous())

		assert.Nil(t, booking)
		assert.ErrorIs(t, err, models.ErrPackageNotFound)
		mockRepo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("inactive package rejects new bookings", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		pkg := activePackage(packageID)
		pkg.IsActive = false
		mockCatalog.On("GetPackage", ctx, packageID).Return(pkg, nil)

		_, err := svc.CreateBooking(ctx, validRequest(packageID, start), access.Anonymous())

		assert.ErrorIs(t, err, models.ErrPackageInactive)
		mockRepo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("group larger than package capacity", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		request := validRequest(packageID, start)
		request.NumberOfPeople = 11
		mockCatalog.On("GetPackage", ctx, packageID).Return(activePackage(packageID), nil)

		_, err := svc.CreateBooking(ctx, request, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrCapacityExceeded)
		mockRepo.AssertNotCalled(t, "PackageOccupancy", mock.Anything, mock.Anything)
	})

	t.Run("nearly full package rejects overshooting group", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		request := validRequest(packageID, start)
		request.NumberOfPeople = 2
		mockCatalog.On("GetPackage", ctx, packageID).Return(activePackage(packageID), nil)
		mockRepo.On("PackageOccupancy", ctx, packageID).Return(9, nil)

		_, err := svc.CreateBooking(ctx, request, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrCapacityExceeded)
		mockRepo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("identifier collision retried with fresh identifiers", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()
		request := validRequest(packageID, start)

		mockCatalog.On("GetPackage", ctx, packageID).Return(activePackage(packageID), nil)
		mockRepo.On("PackageOccupancy", ctx, packageID).Return(0, nil)
		mockRepo.On("FindUserIDByEmail", ctx, request.CustomerEmail).Return(nil, nil)
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Return(nil, models.ErrDuplicateIdentifier).Twice()
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Return(&models.Booking{}, nil).Once()

		booking, err := svc.CreateBooking(ctx, request, access.Anonymous())

		require.NoError(t, err)
		assert.NotNil(t, booking)
		mockRepo.AssertNumberOfCalls(t, "CreateBooking", 3)
	})

	t.Run("identifier collisions exhaust the retry budget", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()
		request := validRequest(packageID, start)

		mockCatalog.On("GetPackage", ctx, packageID).Return(activePackage(packageID), nil)
		mockRepo.On("PackageOccupancy", ctx, packageID).Return(0, nil)
		mockRepo.On("FindUserIDByEmail", ctx, request.CustomerEmail).Return(nil, nil)
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Return(nil, models.ErrDuplicateIdentifier)

		_, err := svc.CreateBooking(ctx, request, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrIdentifierConflict)
		mockRepo.AssertNumberOfCalls(t, "CreateBooking", 3)
	})

	t.Run("serialization conflict retried once", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()
		request := validRequest(packageID, start)

		mockCatalog.On("GetPackage", ctx, packageID).Return(activePackage(packageID), nil)
		mockRepo.On("PackageOccupancy", ctx, packageID).Return(0, nil)
		mockRepo.On("FindUserIDByEmail", ctx, request.CustomerEmail).Return(nil, nil)
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Return(nil, models.ErrTxConflict).Once()
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Return(&models.Booking{}, nil).Once()

		_, err := svc.CreateBooking(ctx, request, access.Anonymous())

		require.NoError(t, err)
		mockRepo.AssertNumberOfCalls(t, "CreateBooking", 2)
	})

	t.Run("second serialization conflict surfaces", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()
		request := validRequest(packageID, start)

		mockCatalog.On("GetPackage", ctx, packageID).Return(activePackage(packageID), nil)
		mockRepo.On("PackageOccupancy", ctx, packageID).Return(0, nil)
		mockRepo.On("FindUserIDByEmail", ctx, request.CustomerEmail).Return(nil, nil)
		mockRepo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Return(nil, models.ErrTxConflict)

		_, err := svc.CreateBooking(ctx, request, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrTxConflict)
		mockRepo.AssertNumberOfCalls(t, "CreateBooking", 2)
	})
}

func TestCancelBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bookingID := uuid.New()

	booking := func(status models.BookingStatus, start time.Time) *models.Booking {
		return &models.Booking{
			ID:        bookingID,
			Status:    status,
			StartDate: start,
		}
	}

	t.Run("confirmed booking two days out hits the cutoff", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		mockRepo.On("GetBookingByID", ctx, bookingID).
			Return(booking(models.StatusConfirmed, now.Add(48*time.Hour)), nil)

		_, err := svc.CancelBooking(ctx, bookingID, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrCancelCutoff)
		mockRepo.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed booking four days out cancels", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		b := booking(models.StatusConfirmed, now.Add(96*time.Hour))
		cancelled := *b
		cancelled.Status = models.StatusCancelled
		cancelledAt := now
		cancelled.CancelledAt = &cancelledAt

		mockRepo.On("GetBookingByID", ctx, bookingID).Return(b, nil)
		mockRepo.On("CancelBooking", ctx, bookingID, now).Return(&cancelled, nil)

		result, err := svc.CancelBooking(ctx, bookingID, access.Anonymous())

		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, result.Status)
		require.NotNil(t, result.CancelledAt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("pending booking cancels inside the window", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		b := booking(models.StatusPending, now.Add(24*time.Hour))
		cancelled := *b
		cancelled.Status = models.StatusCancelled

		mockRepo.On("GetBookingByID", ctx, bookingID).Return(b, nil)
		mockRepo.On("CancelBooking", ctx, bookingID, now).Return(&cancelled, nil)

		result, err := svc.CancelBooking(ctx, bookingID, access.Anonymous())

		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, result.Status)
	})

	t.Run("cancelled booking stays cancelled", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		mockRepo.On("GetBookingByID", ctx, bookingID).
			Return(booking(models.StatusCancelled, now.Add(96*time.Hour)), nil)

		_, err := svc.CancelBooking(ctx, bookingID, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrInvalidStatusChange)
		mockRepo.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("owned booking rejects a stranger", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		ownerID := uuid.New()
		b := booking(models.StatusPending, now.Add(96*time.Hour))
		b.UserID = &ownerID

		mockRepo.On("GetBookingByID", ctx, bookingID).Return(b, nil)

		_, err := svc.CancelBooking(ctx, bookingID, access.Authenticated(uuid.New()))

		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestUpdateBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bookingID := uuid.New()

	t.Run("pending booking confirms", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		status := models.StatusConfirmed
		update := &models.BookingUpdate{Status: &status}
		existing := &models.Booking{ID: bookingID, Status: models.StatusPending}
		confirmed := &models.Booking{ID: bookingID, Status: models.StatusConfirmed}

		mockRepo.On("GetBookingByID", ctx, bookingID).Return(existing, nil)
		mockRepo.On("UpdateBooking", ctx, bookingID, *update).Return(confirmed, nil)

		result, err := svc.UpdateBooking(ctx, bookingID, update, access.Anonymous())

		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, result.Status)
	})

	t.Run("confirmed booking cannot move back to pending", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		status := models.StatusPending
		mockRepo.On("GetBookingByID", ctx, bookingID).
			Return(&models.Booking{ID: bookingID, Status: models.StatusConfirmed}, nil)

		_, err := svc.UpdateBooking(ctx, bookingID, &models.BookingUpdate{Status: &status}, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrInvalidStatusChange)
		mockRepo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("status change to cancelled goes through the cutoff rule", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		status := models.StatusCancelled
		mockRepo.On("GetBookingByID", ctx, bookingID).
			Return(&models.Booking{
				ID:        bookingID,
				Status:    models.StatusConfirmed,
				StartDate: now.Add(48 * time.Hour),
			}, nil)

		_, err := svc.UpdateBooking(ctx, bookingID, &models.BookingUpdate{Status: &status}, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrCancelCutoff)
		mockRepo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled booking rejects edits", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		notes := "late checkout please"
		mockRepo.On("GetBookingByID", ctx, bookingID).
			Return(&models.Booking{ID: bookingID, Status: models.StatusCancelled}, nil)

		_, err := svc.UpdateBooking(ctx, bookingID, &models.BookingUpdate{Notes: &notes}, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrInvalidStatusChange)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))

		_, err := svc.UpdateBooking(context.Background(), bookingID, &models.BookingUpdate{}, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "GetBookingByID", mock.Anything, mock.Anything)
	})

	t.Run("date update keeping order is accepted", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		newStart := now.Add(10 * 24 * time.Hour)
		update := &models.BookingUpdate{StartDate: &newStart}
		existing := &models.Booking{
			ID:        bookingID,
			Status:    models.StatusPending,
			StartDate: now.Add(5 * 24 * time.Hour),
			EndDate:   now.Add(15 * 24 * time.Hour),
		}

		mockRepo.On("GetBookingByID", ctx, bookingID).Return(existing, nil)
		mockRepo.On("UpdateBooking", ctx, bookingID, *update).Return(existing, nil)

		_, err := svc.UpdateBooking(ctx, bookingID, update, access.Anonymous())

		require.NoError(t, err)
	})

	t.Run("date update flipping order is rejected", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		newStart := now.Add(20 * 24 * time.Hour)
		existing := &models.Booking{
			ID:        bookingID,
			Status:    models.StatusPending,
			StartDate: now.Add(5 * 24 * time.Hour),
			EndDate:   now.Add(15 * 24 * time.Hour),
		}

		mockRepo.On("GetBookingByID", ctx, bookingID).Return(existing, nil)

		_, err := svc.UpdateBooking(ctx, bookingID, &models.BookingUpdate{StartDate: &newStart}, access.Anonymous())

		assert.ErrorIs(t, err, models.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestQueries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("package listing includes occupancy stats", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()
		packageID := uuid.New()

		pkg := &models.TravelPackage{ID: packageID, Name: "Fjords", MaxCapacity: 10, IsActive: true}
		mockCatalog.On("GetPackage", ctx, packageID).Return(pkg, nil)
		mockRepo.On("ListBookings", ctx, mock.AnythingOfType("models.BookingFilter")).
			Return([]models.Booking{{PackageID: packageID, NumberOfPeople: 9}}, nil)
		mockRepo.On("PackageOccupancy", ctx, packageID).Return(9, nil)

		res, err := svc.BookingsByPackage(ctx, packageID, nil, nil, nil, 1, 20)

		require.NoError(t, err)
		assert.Equal(t, 9, res.Stats.TotalBookedPeople)
		assert.Equal(t, 90, res.Stats.OccupancyRate)
		require.NotNil(t, res.Stats.AvailableCapacity)
		assert.Equal(t, 1, *res.Stats.AvailableCapacity)
	})

	t.Run("user listing defaults pagination", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()
		userID := uuid.New()

		mockRepo.On("ListBookings", ctx, mock.MatchedBy(func(f models.BookingFilter) bool {
			return f.UserID != nil && *f.UserID == userID && f.Page == 1 && f.Limit == 10
		})).Return([]models.Booking{}, nil)

		res, err := svc.BookingsByUser(ctx, userID, nil, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 10, res.Limit)
	})

	t.Run("tracking lookup redacts internals", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		ownerID := uuid.New()
		staffID := uuid.New()
		booking := &models.Booking{
			ID:              uuid.New(),
			BookingNumber:   "BK1748779200000123",
			TrackingID:      "TRK7792001234",
			UserID:          &ownerID,
			PackageID:       uuid.New(),
			PackageName:     "Fjords",
			PackageLocation: "Norway",
			CustomerName:    "Jane Traveller",
			CustomerEmail:   "jane@example.com",
			CustomerPhone:   "+4720123456",
			Status:          models.StatusConfirmed,
			PaymentStatus:   models.PaymentPaid,
			AssignedStaffID: &staffID,
		}
		staff := &models.StaffContact{Name: "Ola Guide", Email: "ola@roamly.example", Phone: "+4799887766"}

		mockRepo.On("GetBookingByTrackingID", ctx, booking.TrackingID).Return(booking, staff, nil)

		tracked, err := svc.TrackBooking(ctx, booking.TrackingID)

		require.NoError(t, err)
		assert.Equal(t, booking.TrackingID, tracked.TrackingID)
		assert.Equal(t, booking.BookingNumber, tracked.BookingNumber)
		assert.Equal(t, booking.CustomerEmail, tracked.CustomerEmail)
		require.NotNil(t, tracked.AssignedStaff)
		assert.Equal(t, "Ola Guide", tracked.AssignedStaff.Name)
	})

	t.Run("unknown tracking code", func(t *testing.T) {
		mockRepo := new(mocks.MockBookingRepository)
		mockCatalog := new(mocks.MockPackageCatalog)
		svc := service.NewBookingService(mockRepo, mockCatalog, fixedClock(now))
		ctx := context.Background()

		mockRepo.On("GetBookingByTrackingID", ctx, "TRK0000000000").
			Return(nil, nil, models.ErrBookingNotFound)

		_, err := svc.TrackBooking(ctx, "TRK0000000000")

		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})
}
