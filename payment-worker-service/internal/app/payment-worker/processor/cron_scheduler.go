package processor

import (
	"context"
	"log"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"
	"staynest/payment-worker-service/internal/app/payment-worker/service"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодически прогоняет батч-генерацию платежей
// Батч покрывает подтвержденные и завершенные бронирования, которые
// могли проскочить мимо Kafka consumer (например, при его простое)
type CronScheduler struct {
	cron         *cron.Cron
	generatorSvc service.PaymentGeneratorInterface
}

func NewCronScheduler(generatorSvc service.PaymentGeneratorInterface) *CronScheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &CronScheduler{
		cron:         c,
		generatorSvc: generatorSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	log.Printf("Starting cron scheduler with schedule: %s", schedule)

	_, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron job triggered: generating payments")

		if report, err := s.runBatch(ctx); err != nil {
			log.Printf("ERROR: Failed to generate payments: %v", err)
		} else {
			log.Printf("Cron job completed: processed=%d, skipped=%d", report.Processed, report.Skipped)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started")

	log.Println("Performing initial payment generation run...")
	if report, err := s.runBatch(ctx); err != nil {
		log.Printf("WARNING: Failed initial payment generation run: %v", err)
	} else {
		log.Printf("Initial payment generation completed: processed=%d, skipped=%d", report.Processed, report.Skipped)
	}

	return nil
}

func (s *CronScheduler) runBatch(ctx context.Context) (*entity.GenerateReport, error) {
	return s.generatorSvc.Generate(ctx, entity.GenerateOptions{
		Statuses: []entity.ReservationStatus{
			entity.ReservationStatusConfirmed,
			entity.ReservationStatusCompleted,
		},
	})
}

func (s *CronScheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
