package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	models "github.com/roamly/travelbook/internal"
)

type MockPackageCatalog struct {
	mock.Mock
}

func (m *MockPackageCatalog) GetPackage(ctx context.Context, id uuid.UUID) (*models.TravelPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TravelPackage), args.Error(1)
}
