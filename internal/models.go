package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces the forward-only lifecycle:
// PENDING -> CONFIRMED -> CANCELLED, or PENDING -> CANCELLED.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrPackageNotFound     = errors.New("package not found")
	ErrPackageInactive     = errors.New("package is not open for booking")
	ErrCapacityExceeded    = errors.New("package capacity exceeded")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrForbidden           = errors.New("not allowed to access this booking")
	ErrCancelCutoff        = errors.New("confirmed bookings must be cancelled at least 3 days before the start date")
	ErrInvalidStatusChange = errors.New("invalid booking status change")

	// Retryable store conditions. The service converts these into a bounded
	// retry; they never reach the API layer.
	ErrDuplicateIdentifier = errors.New("duplicate booking identifier")
	ErrTxConflict          = errors.New("transaction conflict")

	// ErrIdentifierConflict means the retry budget for identifier minting
	// ran out. Generator exhaustion, not a caller mistake.
	ErrIdentifierConflict = errors.New("could not mint a unique booking identifier")
)

// TravelPackage is owned by the catalog; the booking core only reads it.
type TravelPackage struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Description    string    `json:"description,omitempty"`
	PricePerPerson float64   `json:"price_per_person"`
	MaxCapacity    int       `json:"max_capacity"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Booking struct {
	ID            uuid.UUID  `json:"id"`
	BookingNumber string     `json:"booking_number"`
	TrackingID    string     `json:"tracking_id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	PackageID     uuid.UUID  `json:"package_id"`

	// Catalog snapshot taken at creation time. A later package rename must
	// not rewrite booking history.
	PackageName     string `json:"package_name"`
	PackageLocation string `json:"package_location"`

	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	NumberOfPeople int       `json:"number_of_people"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	TotalAmount    float64 `json:"total_amount"`
	PricePerPerson float64 `json:"price_per_person"`

	SpecialRequirements string `json:"special_requirements,omitempty"`
	Notes               string `json:"notes,omitempty"`

	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	AssignedStaffID *uuid.UUID    `json:"assigned_staff_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

type BookingRequest struct {
	PackageID           uuid.UUID `json:"package_id" validate:"required"`
	StartDate           time.Time `json:"start_date" validate:"required"`
	EndDate             time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	NumberOfPeople      int       `json:"number_of_people" validate:"required,min=1"`
	CustomerName        string    `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail       string    `json:"customer_email" validate:"required,email"`
	CustomerPhone       string    `json:"customer_phone" validate:"required,phone"`
	TotalAmount         float64   `json:"total_amount" validate:"required,gt=0"`
	PricePerPerson      float64   `json:"price_per_person" validate:"required,gt=0"`
	SpecialRequirements string    `json:"special_requirements" validate:"omitempty,max=2000"`
	Notes               string    `json:"notes" validate:"omitempty,max=2000"`
}

// BookingUpdate carries the allow-listed mutable fields. Package identity,
// booking number, tracking id and the owner link are immutable after
// creation and deliberately have no place here.
type BookingUpdate struct {
	StartDate           *time.Time     `json:"start_date"`
	EndDate             *time.Time     `json:"end_date"`
	NumberOfPeople      *int           `json:"number_of_people" validate:"omitempty,min=1"`
	CustomerName        *string        `json:"customer_name" validate:"omitempty,min=2,max=100"`
	CustomerEmail       *string        `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone       *string        `json:"customer_phone" validate:"omitempty,phone"`
	TotalAmount         *float64       `json:"total_amount" validate:"omitempty,gt=0"`
	PricePerPerson      *float64       `json:"price_per_person" validate:"omitempty,gt=0"`
	SpecialRequirements *string        `json:"special_requirements" validate:"omitempty,max=2000"`
	Notes               *string        `json:"notes" validate:"omitempty,max=2000"`
	Status              *BookingStatus `json:"status" validate:"omitempty,booking_status"`
	PaymentStatus       *PaymentStatus `json:"payment_status" validate:"omitempty,payment_status"`
}

func (u *BookingUpdate) Empty() bool {
	return u.StartDate == nil && u.EndDate == nil && u.NumberOfPeople == nil &&
		u.CustomerName == nil && u.CustomerEmail == nil && u.CustomerPhone == nil &&
		u.TotalAmount == nil && u.PricePerPerson == nil &&
		u.SpecialRequirements == nil && u.Notes == nil &&
		u.Status == nil && u.PaymentStatus == nil
}

// CreateBookingResponse surfaces the shareable references at the top level
// so clients do not have to dig into the record for them.
type CreateBookingResponse struct {
	Booking       Booking `json:"booking"`
	BookingNumber string  `json:"booking_number"`
	TrackingID    string  `json:"tracking_id"`
}

// StaffContact is the minimal projection of an assigned staff member
// exposed on the public tracking view.
type StaffContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// TrackedBooking is the redacted view returned by the public tracking
// lookup. It carries the trip and commercial fields plus the booking's own
// identifiers, but no owner user id, no package id and no raw staff id.
type TrackedBooking struct {
	ID            uuid.UUID `json:"id"`
	BookingNumber string    `json:"booking_number"`
	TrackingID    string    `json:"tracking_id"`

	PackageName     string `json:"package_name"`
	PackageLocation string `json:"package_location"`

	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	NumberOfPeople int       `json:"number_of_people"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	TotalAmount    float64 `json:"total_amount"`
	PricePerPerson float64 `json:"price_per_person"`

	SpecialRequirements string `json:"special_requirements,omitempty"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	AssignedStaff *StaffContact `json:"assigned_staff,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func NewTrackedBooking(b *Booking, staff *StaffContact) *TrackedBooking {
	return &TrackedBooking{
		ID:                  b.ID,
		BookingNumber:       b.BookingNumber,
		TrackingID:          b.TrackingID,
		PackageName:         b.PackageName,
		PackageLocation:     b.PackageLocation,
		StartDate:           b.StartDate,
		EndDate:             b.EndDate,
		NumberOfPeople:      b.NumberOfPeople,
		CustomerName:        b.CustomerName,
		CustomerEmail:       b.CustomerEmail,
		CustomerPhone:       b.CustomerPhone,
		TotalAmount:         b.TotalAmount,
		PricePerPerson:      b.PricePerPerson,
		SpecialRequirements: b.SpecialRequirements,
		Status:              b.Status,
		PaymentStatus:       b.PaymentStatus,
		AssignedStaff:       staff,
		CreatedAt:           b.CreatedAt,
		CancelledAt:         b.CancelledAt,
	}
}

// OccupancyStats aggregates a package's bookings in {PENDING, CONFIRMED}.
type OccupancyStats struct {
	TotalBookedPeople int  `json:"total_booked_people"`
	MaxCapacity       int  `json:"max_capacity"`
	OccupancyRate     int  `json:"occupancy_rate"`
	AvailableCapacity *int `json:"available_capacity"`
}

type BookingFilter struct {
	PackageID *uuid.UUID
	UserID    *uuid.UUID
	Status    *BookingStatus
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

func (f BookingFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

type BookingsPage struct {
	Bookings []Booking `json:"bookings"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

type PackageBookingsResponse struct {
	Bookings []Booking      `json:"bookings"`
	Stats    OccupancyStats `json:"stats"`
	Page     int            `json:"page"`
	Limit    int            `json:"limit"`
}
