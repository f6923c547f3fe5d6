package service

import (
	"context"
	"errors"
	"testing"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"
	"staynest/payment-worker-service/internal/app/payment-worker/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newGeneratorFixture() (*PaymentGenerator, *mocks.MockReservationRepository, *mocks.MockPaymentRepository) {
	reservationRepo := new(mocks.MockReservationRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	generator := NewPaymentGenerator(reservationRepo, paymentRepo, entity.PaymentMethodCard)
	return generator, reservationRepo, paymentRepo
}

func confirmedReservation() entity.Reservation {
	return entity.Reservation{
		ID:         uuid.New(),
		GuestID:    uuid.New(),
		TotalPrice: 30000,
		Currency:   "EUR",
		Status:     entity.ReservationStatusConfirmed,
	}
}

func TestGenerate_CreatesPaymentForConfirmedReservation(t *testing.T) {
	generator, reservationRepo, paymentRepo := newGeneratorFixture()
	ctx := context.Background()

	reservation := confirmedReservation()
	defaultStatuses := []entity.ReservationStatus{entity.ReservationStatusConfirmed}

	reservationRepo.On("ListByStatuses", ctx, defaultStatuses).Return([]entity.Reservation{reservation}, nil)
	paymentRepo.On("CreateIfAbsent", ctx, mock.AnythingOfType("*entity.Payment")).Return(true, nil).Run(func(args mock.Arguments) {
		payment := args.Get(1).(*entity.Payment)
		assert.Equal(t, reservation.ID, payment.ReservationID)
		assert.Equal(t, int64(30000), payment.Amount)
		assert.Equal(t, "EUR", payment.Currency)
		assert.Equal(t, entity.PaymentMethodCard, payment.Method)
		assert.Equal(t, entity.PaymentStatusPending, payment.Status)
	})

	report, err := generator.Generate(ctx, entity.GenerateOptions{})

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.Skipped)
}

func TestGenerate_SecondRunSkipsExistingPayment(t *testing.T) {
	generator, reservationRepo, paymentRepo := newGeneratorFixture()
	ctx := context.Background()

	reservation := confirmedReservation()
	defaultStatuses := []entity.ReservationStatus{entity.ReservationStatusConfirmed}

	reservationRepo.On("ListByStatuses", ctx, defaultStatuses).Return([]entity.Reservation{reservation}, nil)
	// Платеж уже существует - повторный прогон идемпотентен
	paymentRepo.On("CreateIfAbsent", ctx, mock.Anything).Return(false, nil)

	report, err := generator.Generate(ctx, entity.GenerateOptions{})

	assert.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 1, report.Skipped)
	paymentRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestGenerate_ForceReplacesPaymentWithFreshID(t *testing.T) {
	generator, reservationRepo, paymentRepo := newGeneratorFixture()
	ctx := context.Background()

	reservation := confirmedReservation()
	defaultStatuses := []entity.ReservationStatus{entity.ReservationStatusConfirmed}

	var replacedID uuid.UUID
	reservationRepo.On("ListByStatuses", ctx, defaultStatuses).Return([]entity.Reservation{reservation}, nil)
	paymentRepo.On("Replace", ctx, mock.AnythingOfType("*entity.Payment")).Return(nil).Run(func(args mock.Arguments) {
		payment := args.Get(1).(*entity.Payment)
		replacedID = payment.ID
	})

	report, err := generator.Generate(ctx, entity.GenerateOptions{Force: true})

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.NotEqual(t, uuid.Nil, replacedID)
	paymentRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestGenerate_CustomStatusesAndMethod(t *testing.T) {
	generator, reservationRepo, paymentRepo := newGeneratorFixture()
	ctx := context.Background()

	statuses := []entity.ReservationStatus{entity.ReservationStatusConfirmed, entity.ReservationStatusCompleted}

	reservationRepo.On("ListByStatuses", ctx, statuses).Return([]entity.Reservation{confirmedReservation()}, nil)
	paymentRepo.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
		payment := args.Get(1).(*entity.Payment)
		assert.Equal(t, entity.PaymentMethodPaypal, payment.Method)
	})

	report, err := generator.Generate(ctx, entity.GenerateOptions{
		Statuses: statuses,
		Method:   entity.PaymentMethodPaypal,
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
}

func TestGenerate_AbortsOnFirstPersistenceError(t *testing.T) {
	generator, reservationRepo, paymentRepo := newGeneratorFixture()
	ctx := context.Background()

	first := confirmedReservation()
	second := confirmedReservation()
	defaultStatuses := []entity.ReservationStatus{entity.ReservationStatusConfirmed}

	reservationRepo.On("ListByStatuses", ctx, defaultStatuses).Return([]entity.Reservation{first, second}, nil)
	paymentRepo.On("CreateIfAbsent", ctx, mock.MatchedBy(func(p *entity.Payment) bool {
		return p.ReservationID == first.ID
	})).Return(false, errors.New("db error"))

	report, err := generator.Generate(ctx, entity.GenerateOptions{})

	assert.Error(t, err)
	assert.Nil(t, report)
	// До второго бронирования прогон не дошел
	paymentRepo.AssertNumberOfCalls(t, "CreateIfAbsent", 1)
}

func TestGenerateForReservation_Confirmed(t *testing.T) {
	generator, reservationRepo, paymentRepo := newGeneratorFixture()
	ctx := context.Background()

	reservation := confirmedReservation()

	reservationRepo.On("GetByID", ctx, reservation.ID).Return(&reservation, nil)
	paymentRepo.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil)

	err := generator.GenerateForReservation(ctx, reservation.ID)

	assert.NoError(t, err)
	paymentRepo.AssertExpectations(t)
}

func TestGenerateForReservation_PendingSkipped(t *testing.T) {
	generator, reservationRepo, paymentRepo := newGeneratorFixture()
	ctx := context.Background()

	reservation := confirmedReservation()
	reservation.Status = entity.ReservationStatusPending

	reservationRepo.On("GetByID", ctx, reservation.ID).Return(&reservation, nil)

	err := generator.GenerateForReservation(ctx, reservation.ID)

	assert.NoError(t, err)
	// Неподтвержденное бронирование не получает платеж
	paymentRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestProcessReservationEvent_ConfirmedCreatesPayment(t *testing.T) {
	generator, reservationRepo, paymentRepo := newGeneratorFixture()
	ctx := context.Background()

	reservation := confirmedReservation()

	reservationRepo.On("GetByID", ctx, reservation.ID).Return(&reservation, nil)
	paymentRepo.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil)

	err := generator.ProcessReservationEvent(ctx, &entity.ReservationEvent{
		EventType:     entity.EventTypeReservationConfirmed,
		ReservationID: reservation.ID,
	})

	assert.NoError(t, err)
	paymentRepo.AssertExpectations(t)
}

func TestProcessReservationEvent_CreatedIgnored(t *testing.T) {
	generator, reservationRepo, paymentRepo := newGeneratorFixture()
	ctx := context.Background()

	err := generator.ProcessReservationEvent(ctx, &entity.ReservationEvent{
		EventType:     entity.EventTypeReservationCreated,
		ReservationID: uuid.New(),
	})

	assert.NoError(t, err)
	reservationRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	paymentRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestNewPaymentGenerator_InvalidDefaultMethodFallsBackToCard(t *testing.T) {
	reservationRepo := new(mocks.MockReservationRepository)
	paymentRepo := new(mocks.MockPaymentRepository)

	generator := NewPaymentGenerator(reservationRepo, paymentRepo, entity.PaymentMethod("crypto"))

	assert.Equal(t, entity.PaymentMethodCard, generator.defaultMethod)
}
