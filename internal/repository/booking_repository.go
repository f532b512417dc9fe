package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	models "github.com/roamly/travelbook/internal"
)

type DBConn interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

type BookingRepository struct {
	db DBConn
}

func NewBookingRepository(db DBConn) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, booking_number, tracking_id, user_id, package_id,
        package_name, package_location, start_date, end_date, number_of_people,
        customer_name, customer_email, customer_phone, total_amount, price_per_person,
        COALESCE(special_requirements, ''), COALESCE(notes, ''),
        status, payment_status, assigned_staff_id, created_at, updated_at, cancelled_at`

// CreateBooking inserts the booking after re-checking occupancy inside the
// same transaction. The package row is locked FOR UPDATE so concurrent
// creators for the same package serialize on the check; a capacity read
// taken before this transaction is advisory only.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, mapPgError(err)
	}
	defer tx.Rollback(ctx)

	var maxCapacity int
	var isActive bool
	err = tx.QueryRow(ctx,
		`SELECT max_capacity, is_active FROM packages WHERE id = $1 FOR UPDATE`,
		booking.PackageID,
	).Scan(&maxCapacity, &isActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrPackageNotFound
	}
	if err != nil {
		return nil, mapPgError(err)
	}
	if !isActive {
		return nil, models.ErrPackageInactive
	}

	var occupied int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(number_of_people), 0) FROM bookings WHERE package_id = $1 AND status IN ($2, $3)`,
		booking.PackageID, models.StatusPending, models.StatusConfirmed,
	).Scan(&occupied)
	if err != nil {
		return nil, mapPgError(err)
	}
	if occupied+booking.NumberOfPeople > maxCapacity {
		return nil, models.ErrCapacityExceeded
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	_, err = tx.Exec(ctx, `
        INSERT INTO bookings (id, booking_number, tracking_id, user_id, package_id,
            package_name, package_location, start_date, end_date, number_of_people,
            customer_name, customer_email, customer_phone, total_amount, price_per_person,
            special_requirements, notes, status, payment_status, assigned_staff_id,
            created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
    `,
		booking.ID, booking.BookingNumber, booking.TrackingID, booking.UserID, booking.PackageID,
		booking.PackageName, booking.PackageLocation, booking.StartDate, booking.EndDate, booking.NumberOfPeople,
		booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone, booking.TotalAmount, booking.PricePerPerson,
		nullIfEmpty(booking.SpecialRequirements), nullIfEmpty(booking.Notes), booking.Status, booking.PaymentStatus,
		booking.AssignedStaffID, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return booking, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns), id)
	booking, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	return booking, nil
}

// GetBookingByTrackingID also resolves the assigned staff member, if any,
// into the minimal contact projection used by the public tracking view.
func (r *BookingRepository) GetBookingByTrackingID(ctx context.Context, trackingID string) (*models.Booking, *models.StaffContact, error) {
	query := `
        SELECT b.id, b.booking_number, b.tracking_id, b.user_id, b.package_id,
            b.package_name, b.package_location, b.start_date, b.end_date, b.number_of_people,
            b.customer_name, b.customer_email, b.customer_phone, b.total_amount, b.price_per_person,
            COALESCE(b.special_requirements, ''), COALESCE(b.notes, ''),
            b.status, b.payment_status, b.assigned_staff_id, b.created_at, b.updated_at, b.cancelled_at,
            s.name, s.email, s.phone
        FROM bookings b
        LEFT JOIN users s ON s.id = b.assigned_staff_id
        WHERE b.tracking_id = $1
    `
	var booking models.Booking
	var staffName, staffEmail, staffPhone *string
	err := r.db.QueryRow(ctx, query, trackingID).Scan(
		bookingScanDests(&booking,
			&staffName, &staffEmail, &staffPhone)...,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get booking by tracking id: %w", err)
	}

	var staff *models.StaffContact
	if staffName != nil {
		staff = &models.StaffContact{Name: *staffName}
		if staffEmail != nil {
			staff.Email = *staffEmail
		}
		if staffPhone != nil {
			staff.Phone = *staffPhone
		}
	}
	return &booking, staff, nil
}

func (r *BookingRepository) UpdateBooking(ctx context.Context, id uuid.UUID, update models.BookingUpdate) (*models.Booking, error) {
	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.StartDate != nil {
		set("start_date", *update.StartDate)
	}
	if update.EndDate != nil {
		set("end_date", *update.EndDate)
	}
	if update.NumberOfPeople != nil {
		set("number_of_people", *update.NumberOfPeople)
	}
	if update.CustomerName != nil {
		set("customer_name", *update.CustomerName)
	}
	if update.CustomerEmail != nil {
		set("customer_email", *update.CustomerEmail)
	}
	if update.CustomerPhone != nil {
		set("customer_phone", *update.CustomerPhone)
	}
	if update.TotalAmount != nil {
		set("total_amount", *update.TotalAmount)
	}
	if update.PricePerPerson != nil {
		set("price_per_person", *update.PricePerPerson)
	}
	if update.SpecialRequirements != nil {
		set("special_requirements", nullIfEmpty(*update.SpecialRequirements))
	}
	if update.Notes != nil {
		set("notes", nullIfEmpty(*update.Notes))
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if update.PaymentStatus != nil {
		set("payment_status", *update.PaymentStatus)
	}
	if len(sets) == 0 {
		return nil, models.ErrInvalidInput
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE bookings SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return booking, nil
}

// CancelBooking is a status transition, never a row delete; historical
// reporting keeps seeing the booking.
func (r *BookingRepository) CancelBooking(ctx context.Context, id uuid.UUID, at time.Time) (*models.Booking, error) {
	query := fmt.Sprintf(`
        UPDATE bookings SET status = $2, cancelled_at = $3, updated_at = $3
        WHERE id = $1 RETURNING %s`, bookingColumns)
	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, models.StatusCancelled, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	return booking, nil
}

func (r *BookingRepository) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings`, bookingColumns)
	var args []interface{}
	var conditions []string
	where := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.PackageID != nil {
		where("package_id = $%d", *filter.PackageID)
	}
	if filter.UserID != nil {
		where("user_id = $%d", *filter.UserID)
	}
	if filter.Status != nil {
		where("status = $%d", *filter.Status)
	}
	if filter.From != nil {
		where("start_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		where("start_date <= $%d", *filter.To)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset())
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (r *BookingRepository) PackageOccupancy(ctx context.Context, packageID uuid.UUID) (int, error) {
	var occupied int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(number_of_people), 0) FROM bookings WHERE package_id = $1 AND status IN ($2, $3)`,
		packageID, models.StatusPending, models.StatusConfirmed,
	).Scan(&occupied)
	if err != nil {
		return 0, fmt.Errorf("package occupancy: %w", err)
	}
	return occupied, nil
}

// FindUserIDByEmail links guest bookings to an existing account. A miss is
// not an error: the booking simply stays a guest booking.
func (r *BookingRepository) FindUserIDByEmail(ctx context.Context, email string) (*uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT id FROM users WHERE lower(email) = lower($1)`, email,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &id, nil
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var booking models.Booking
	if err := row.Scan(bookingScanDests(&booking)...); err != nil {
		return nil, err
	}
	return &booking, nil
}

func bookingScanDests(b *models.Booking, extra ...interface{}) []interface{} {
	dests := []interface{}{
		&b.ID, &b.BookingNumber, &b.TrackingID, &b.UserID, &b.PackageID,
		&b.PackageName, &b.PackageLocation, &b.StartDate, &b.EndDate, &b.NumberOfPeople,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.TotalAmount, &b.PricePerPerson,
		&b.SpecialRequirements, &b.Notes, &b.Status, &b.PaymentStatus, &b.AssignedStaffID,
		&b.CreatedAt, &b.UpdatedAt, &b.CancelledAt,
	}
	return append(dests, extra...)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return models.ErrDuplicateIdentifier
		case "40001", "40P01":
			return models.ErrTxConflict
		}
	}
	return err
}
