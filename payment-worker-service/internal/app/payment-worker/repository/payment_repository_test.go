package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PaymentRepositoryTestSuite тестовый suite для PostgreSQL repository
type PaymentRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  PaymentRepository
	sqlDB *sql.DB
}

func TestPaymentRepositorySuite(t *testing.T) {
	suite.Run(t, new(PaymentRepositoryTestSuite))
}

func (s *PaymentRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewPaymentRepository(s.db)
}

func (s *PaymentRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func (s *PaymentRepositoryTestSuite) newPayment() *entity.Payment {
	return &entity.Payment{
		ID:            uuid.New(),
		ReservationID: uuid.New(),
		Amount:        30000,
		Currency:      "EUR",
		Method:        entity.PaymentMethodCard,
		Status:        entity.PaymentStatusPending,
	}
}

// ===================== GetByReservationID Tests =====================

func (s *PaymentRepositoryTestSuite) TestGetByReservationID_Success() {
	ctx := context.Background()
	paymentID := uuid.New()
	reservationID := uuid.New()
	createdAt := time.Now()

	rows := sqlmock.NewRows([]string{"id", "reservation_id", "amount", "currency", "method", "status", "created_at"}).
		AddRow(paymentID, reservationID, int64(30000), "EUR", "card", "pending", createdAt)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments" WHERE reservation_id = $1`)).
		WithArgs(reservationID, 1).
		WillReturnRows(rows)

	payment, err := s.repo.GetByReservationID(ctx, reservationID)

	s.NoError(err)
	s.NotNil(payment)
	s.Equal(paymentID, payment.ID)
	s.Equal(reservationID, payment.ReservationID)
	s.Equal(int64(30000), payment.Amount)
	s.Equal(entity.PaymentMethodCard, payment.Method)
	s.Equal(entity.PaymentStatusPending, payment.Status)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PaymentRepositoryTestSuite) TestGetByReservationID_NotFound() {
	ctx := context.Background()
	reservationID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments" WHERE reservation_id = $1`)).
		WithArgs(reservationID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	payment, err := s.repo.GetByReservationID(ctx, reservationID)

	s.Error(err)
	s.Nil(payment)
	s.ErrorIs(err, ErrPaymentNotFound)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== CreateIfAbsent Tests =====================

func (s *PaymentRepositoryTestSuite) TestCreateIfAbsent_CreatesWhenMissing() {
	ctx := context.Background()
	payment := s.newPayment()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "payments" WHERE reservation_id = $1`)).
		WithArgs(payment.ReservationID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "payments"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	created, err := s.repo.CreateIfAbsent(ctx, payment)

	s.NoError(err)
	s.True(created)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PaymentRepositoryTestSuite) TestCreateIfAbsent_SkipsWhenExists() {
	ctx := context.Background()
	payment := s.newPayment()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "payments" WHERE reservation_id = $1`)).
		WithArgs(payment.ReservationID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectCommit()

	created, err := s.repo.CreateIfAbsent(ctx, payment)

	s.NoError(err)
	s.False(created)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PaymentRepositoryTestSuite) TestCreateIfAbsent_RollsBackOnInsertError() {
	ctx := context.Background()
	payment := s.newPayment()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "payments" WHERE reservation_id = $1`)).
		WithArgs(payment.ReservationID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "payments"`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	created, err := s.repo.CreateIfAbsent(ctx, payment)

	s.Error(err)
	s.False(created)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Replace Tests =====================

func (s *PaymentRepositoryTestSuite) TestReplace_DeletesAndCreates() {
	ctx := context.Background()
	payment := s.newPayment()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "payments" WHERE reservation_id = $1`)).
		WithArgs(payment.ReservationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "payments"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	err := s.repo.Replace(ctx, payment)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PaymentRepositoryTestSuite) TestReplace_RollsBackOnDeleteError() {
	ctx := context.Background()
	payment := s.newPayment()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "payments" WHERE reservation_id = $1`)).
		WithArgs(payment.ReservationID).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	err := s.repo.Replace(ctx, payment)

	s.Error(err)
	s.NoError(s.mock.ExpectationsWereMet())
}
