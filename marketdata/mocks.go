package marketdata

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSource is a mock implementation of the Source interface.
type MockSource struct {
	mock.Mock
}

// Ensure the MockSource implements the Source interface.
var _ Source = (*MockSource)(nil)

// FetchProjectedBlocks returns the projected mempool blocks.
func (m *MockSource) FetchProjectedBlocks(
	ctx context.Context) ([]ProjectedBlock, error) {

	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]ProjectedBlock), args.Error(1)
}

// FetchRecommendedFees returns the recommended fee rates.
func (m *MockSource) FetchRecommendedFees(
	ctx context.Context) (*RecommendedFees, error) {

	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*RecommendedFees), args.Error(1)
}
