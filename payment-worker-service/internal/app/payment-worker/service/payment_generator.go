package service

import (
	"context"
	"fmt"
	"log"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"
	"staynest/payment-worker-service/internal/app/payment-worker/repository"
	"staynest/pkg/metrics"

	"github.com/google/uuid"
)

// PaymentGenerator создает платежи по бронированиям
// Обычный режим идемпотентен: бронирование с платежом пропускается
// Режим force пересоздает платеж с новым ID
type PaymentGenerator struct {
	reservationRepo repository.ReservationRepository
	paymentRepo     repository.PaymentRepository
	defaultMethod   entity.PaymentMethod
}

// NewPaymentGenerator создает новый генератор платежей
func NewPaymentGenerator(
	reservationRepo repository.ReservationRepository,
	paymentRepo repository.PaymentRepository,
	defaultMethod entity.PaymentMethod,
) *PaymentGenerator {
	if !defaultMethod.IsValid() {
		defaultMethod = entity.PaymentMethodCard
	}

	return &PaymentGenerator{
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		defaultMethod:   defaultMethod,
	}
}

// Generate прогоняет батч генерации платежей
// ЛОГИКА:
// 1. Выбрать бронирования в заданных статусах (по умолчанию confirmed)
// 2. Для каждого: force - пересоздать платеж, иначе создать если отсутствует
// 3. Первая ошибка персистентности прерывает весь прогон
func (g *PaymentGenerator) Generate(ctx context.Context, opts entity.GenerateOptions) (*entity.GenerateReport, error) {
	statuses := opts.Statuses
	if len(statuses) == 0 {
		statuses = []entity.ReservationStatus{entity.ReservationStatusConfirmed}
	}

	method := opts.Method
	if !method.IsValid() {
		method = g.defaultMethod
	}

	reservations, err := g.reservationRepo.ListByStatuses(ctx, statuses)
	if err != nil {
		metrics.PaymentGenerationRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	log.Printf("Payment generation run started: %d reservations, force=%v", len(reservations), opts.Force)

	report := &entity.GenerateReport{}

	for i := range reservations {
		reservation := &reservations[i]

		created, err := g.generateOne(ctx, reservation, method, opts.Force)
		if err != nil {
			// Прогон прерывается на первой ошибке, уже созданные платежи остаются
			metrics.PaymentGenerationRuns.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("failed to generate payment for reservation %s: %w", reservation.ID, err)
		}

		if created {
			report.Processed++
		} else {
			report.Skipped++
		}
	}

	metrics.PaymentGenerationRuns.WithLabelValues("ok").Inc()
	log.Printf("Payment generation run finished: processed=%d, skipped=%d", report.Processed, report.Skipped)

	return report, nil
}

// generateOne создает или пересоздает платеж по одному бронированию
func (g *PaymentGenerator) generateOne(ctx context.Context, reservation *entity.Reservation, method entity.PaymentMethod, force bool) (bool, error) {
	payment := g.buildPayment(reservation, method)

	if force {
		if err := g.paymentRepo.Replace(ctx, payment); err != nil {
			return false, err
		}
		metrics.PaymentsGenerated.WithLabelValues("force").Inc()
		return true, nil
	}

	created, err := g.paymentRepo.CreateIfAbsent(ctx, payment)
	if err != nil {
		return false, err
	}

	if created {
		metrics.PaymentsGenerated.WithLabelValues("batch").Inc()
	} else {
		metrics.PaymentsSkipped.WithLabelValues("batch").Inc()
	}

	return created, nil
}

// GenerateForReservation создает платеж по одному бронированию
// Бронирование должно быть подтверждено или завершено, иначе пропускается
func (g *PaymentGenerator) GenerateForReservation(ctx context.Context, reservationID uuid.UUID) error {
	reservation, err := g.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.Status != entity.ReservationStatusConfirmed && reservation.Status != entity.ReservationStatusCompleted {
		log.Printf("Reservation %s has status %s, skipping payment generation", reservationID, reservation.Status)
		metrics.PaymentsSkipped.WithLabelValues("event").Inc()
		return nil
	}

	payment := g.buildPayment(reservation, g.defaultMethod)

	created, err := g.paymentRepo.CreateIfAbsent(ctx, payment)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if created {
		metrics.PaymentsGenerated.WithLabelValues("event").Inc()
		log.Printf("Payment %s created for reservation %s (%d %s)",
			payment.ID, reservationID, payment.Amount, payment.Currency)
	} else {
		metrics.PaymentsSkipped.WithLabelValues("event").Inc()
		log.Printf("Payment already exists for reservation %s, skipping", reservationID)
	}

	return nil
}

// ProcessReservationEvent обрабатывает событие бронирования из Kafka
// Платеж создается только по RESERVATION_CONFIRMED
func (g *PaymentGenerator) ProcessReservationEvent(ctx context.Context, event *entity.ReservationEvent) error {
	switch event.EventType {
	case entity.EventTypeReservationConfirmed:
		return g.GenerateForReservation(ctx, event.ReservationID)
	case entity.EventTypeReservationCreated, entity.EventTypeReservationCancelled:
		// По этим событиям платежи не создаются
		log.Printf("Received %s event for reservation %s, skipping", event.EventType, event.ReservationID)
		return nil
	default:
		log.Printf("Unknown event type: %s for reservation %s", event.EventType, event.ReservationID)
		return nil
	}
}

// buildPayment собирает новый платеж по бронированию
// Каждый вызов дает платеж со свежим ID
func (g *PaymentGenerator) buildPayment(reservation *entity.Reservation, method entity.PaymentMethod) *entity.Payment {
	return &entity.Payment{
		ID:            uuid.New(),
		ReservationID: reservation.ID,
		Amount:        reservation.TotalPrice,
		Currency:      reservation.Currency,
		Method:        method,
		Status:        entity.PaymentStatusPending,
	}
}
