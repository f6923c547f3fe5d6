package mocks

import (
	"context"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReservationRepository мок для ReservationRepository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) GetByID(ctx context.Context, reservationID uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByStatuses(ctx context.Context, statuses []entity.ReservationStatus) ([]entity.Reservation, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reservation), args.Error(1)
}

// MockPaymentRepository мок для PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) GetByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Payment, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CreateIfAbsent(ctx context.Context, payment *entity.Payment) (bool, error) {
	args := m.Called(ctx, payment)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) Replace(ctx context.Context, payment *entity.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// MockPaymentGenerator мок для PaymentGeneratorInterface
type MockPaymentGenerator struct {
	mock.Mock
}

func (m *MockPaymentGenerator) Generate(ctx context.Context, opts entity.GenerateOptions) (*entity.GenerateReport, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GenerateReport), args.Error(1)
}

func (m *MockPaymentGenerator) GenerateForReservation(ctx context.Context, reservationID uuid.UUID) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func (m *MockPaymentGenerator) ProcessReservationEvent(ctx context.Context, event *entity.ReservationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
