package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"midtrans-go/internal/logger"
	"midtrans-go/internal/payment"

	"go.uber.org/zap"
)

// Handler receives Midtrans transaction notifications, verifies them and
// hands the verified payload to the OnVerified hook.
type Handler struct {
	Processor *payment.NotificationProcessor

	// OnVerified runs after a notification passes signature verification.
	// Optional; a returned error maps to a 500 so Midtrans redelivers.
	OnVerified func(*payment.Notification) error
}

func NewHandler(processor *payment.NotificationProcessor) *Handler {
	return &Handler{Processor: processor}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	notif, err := h.Processor.Process(body)
	if err != nil {
		var mismatch *payment.SignatureMismatchError
		var invalid *payment.ValidationError
		switch {
		case errors.As(err, &mismatch):
			log.Warn("rejected notification with bad signature", zap.String("remote", r.RemoteAddr))
			http.Error(w, "invalid signature", http.StatusUnauthorized)
		case errors.As(err, &invalid):
			http.Error(w, "invalid notification payload", http.StatusBadRequest)
		default:
			log.Error("failed to process notification", zap.Error(err))
			http.Error(w, "failed to process notification", http.StatusInternalServerError)
		}
		return
	}

	log.Info("verified transaction notification",
		zap.String("order_id", notif.OrderID()),
		zap.String("transaction_status", notif.TransactionStatus()),
		zap.String("payment_type", notif.PaymentType()),
	)

	if h.OnVerified != nil {
		if err := h.OnVerified(notif); err != nil {
			log.Error("failed to handle notification", zap.Error(err))
			http.Error(w, "failed to handle notification", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(notif.Fields())
}
