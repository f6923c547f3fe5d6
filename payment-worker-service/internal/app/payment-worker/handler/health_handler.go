package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"
	"staynest/payment-worker-service/internal/app/payment-worker/service"

	"gorm.io/gorm"
)

type HealthCheckHandler struct {
	db           *gorm.DB
	generatorSvc service.PaymentGeneratorInterface
}

func NewHealthCheckHandler(db *gorm.DB, generatorSvc service.PaymentGeneratorInterface) *HealthCheckHandler {
	return &HealthCheckHandler{
		db:           db,
		generatorSvc: generatorSvc,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// GenerateRequest - тело запроса ручного запуска генерации платежей
type GenerateRequest struct {
	Statuses []entity.ReservationStatus `json:"statuses"`
	Method   entity.PaymentMethod       `json:"method"`
	Force    bool                       `json:"force"`
}

func (h *HealthCheckHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"

	if err := h.checkDatabase(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["database"] = "healthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")

	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthCheckHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.checkDatabase(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthCheckHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

// TriggerGenerate запускает генерацию платежей вручную
// POST /generate с опциональным телом {statuses, method, force}
func (h *HealthCheckHandler) TriggerGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	for _, status := range req.Statuses {
		switch status {
		case entity.ReservationStatusPending, entity.ReservationStatusConfirmed,
			entity.ReservationStatusCompleted, entity.ReservationStatusCancelled:
		default:
			http.Error(w, "invalid reservation status: "+string(status), http.StatusBadRequest)
			return
		}
	}

	if req.Method != "" && !req.Method.IsValid() {
		http.Error(w, "invalid payment method: "+string(req.Method), http.StatusBadRequest)
		return
	}

	report, err := h.generatorSvc.Generate(r.Context(), entity.GenerateOptions{
		Statuses: req.Statuses,
		Method:   req.Method,
		Force:    req.Force,
	})
	if err != nil {
		http.Error(w, "payment generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(report)
}

func (h *HealthCheckHandler) checkDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (h *HealthCheckHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/health/readiness", h.Readiness)
	mux.HandleFunc("/health/liveness", h.Liveness)
	mux.HandleFunc("/generate", h.TriggerGenerate)
}
