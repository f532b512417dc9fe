// Package capacity computes how many seats of a travel package are
// currently held. Occupancy is the sum of number_of_people over the
// package's bookings in {PENDING, CONFIRMED}; cancelled bookings never
// count.
package capacity

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	models "github.com/roamly/travelbook/internal"
)

// OccupancyReader is the slice of the booking store the accountant needs.
type OccupancyReader interface {
	PackageOccupancy(ctx context.Context, packageID uuid.UUID) (int, error)
}

type Accountant struct {
	store OccupancyReader
}

func NewAccountant(store OccupancyReader) *Accountant {
	return &Accountant{store: store}
}

func (a *Accountant) Occupancy(ctx context.Context, packageID uuid.UUID) (int, error) {
	occupied, err := a.store.PackageOccupancy(ctx, packageID)
	if err != nil {
		return 0, fmt.Errorf("reading package occupancy: %w", err)
	}
	return occupied, nil
}

// Stats derives the reporting view of a package's occupancy. The read here
// is advisory; the create transaction re-checks before inserting.
func (a *Accountant) Stats(ctx context.Context, pkg *models.TravelPackage) (models.OccupancyStats, error) {
	occupied, err := a.Occupancy(ctx, pkg.ID)
	if err != nil {
		return models.OccupancyStats{}, err
	}
	return NewStats(occupied, pkg.MaxCapacity), nil
}

// NewStats computes the occupancy figures for a package with the given
// capacity. A non-positive capacity means the package defines none:
// the rate is 0 and available capacity is null.
func NewStats(occupied, maxCapacity int) models.OccupancyStats {
	stats := models.OccupancyStats{
		TotalBookedPeople: occupied,
		MaxCapacity:       maxCapacity,
	}
	if maxCapacity > 0 {
		stats.OccupancyRate = int(math.Round(float64(occupied) / float64(maxCapacity) * 100))
		available := maxCapacity - occupied
		stats.AvailableCapacity = &available
	}
	return stats
}
