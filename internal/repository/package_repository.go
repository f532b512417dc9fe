package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	models "github.com/roamly/travelbook/internal"
)

// PackageRepository is the booking core's read-only window onto the travel
// package catalog. Package rows are created and edited elsewhere.
type PackageRepository struct {
	db DBConn
}

func NewPackageRepository(db DBConn) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) GetPackage(ctx context.Context, id uuid.UUID) (*models.TravelPackage, error) {
	var pkg models.TravelPackage
	err := r.db.QueryRow(ctx, `
        SELECT id, name, location, COALESCE(description, ''), price_per_person,
            max_capacity, is_active, created_at, updated_at
        FROM packages WHERE id = $1
    `, id).Scan(
		&pkg.ID, &pkg.Name, &pkg.Location, &pkg.Description, &pkg.PricePerPerson,
		&pkg.MaxCapacity, &pkg.IsActive, &pkg.CreatedAt, &pkg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	return &pkg, nil
}
