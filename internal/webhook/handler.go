package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fystack/jetton-buy-notifier/internal/classifier"
	"github.com/fystack/jetton-buy-notifier/internal/notifier"
	"github.com/fystack/jetton-buy-notifier/internal/tonapi"
)

const maxBodyBytes = 1 << 20

// EventFetcher is satisfied by *tonapi.Client.
type EventFetcher interface {
	GetEvent(ctx context.Context, txHash string) (*tonapi.Event, error)
}

type webhookRequest struct {
	TxHash string `json:"tx_hash"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Handler serves the inbound webhook. It keeps no per-request state, so one
// instance serves any number of concurrent requests.
type Handler struct {
	explorer EventFetcher
	gate     *classifier.Gate
	notifier notifier.Notifier
	logger   *slog.Logger
	version  string
}

func NewHandler(explorer EventFetcher, gate *classifier.Gate, n notifier.Notifier, logger *slog.Logger, version string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = "1.0.0" // fallback version
	}
	return &Handler{
		explorer: explorer,
		gate:     gate,
		notifier: n,
		logger:   logger,
		version:  version,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle("POST /webhook", h.recoverer(http.HandlerFunc(h.HandleWebhook)))
	mux.HandleFunc("GET /health", h.HandleHealth)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	})
}

// HandleWebhook acknowledges with an empty 200 on every handled path,
// including a missing tx_hash and explorer failures. Unexpected errors are
// answered with an error payload.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.process(r); err != nil {
		h.logger.Error("Webhook error", "err", err)
		h.writeError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) process(r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	h.logger.Info("Get webhook", "body", strings.TrimSpace(string(body)))

	var req webhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if req.TxHash == "" {
		h.logger.Warn("tx_hash not found")
		return nil
	}

	ctx := r.Context()
	log := h.logger.With("tx_hash", req.TxHash)

	event, err := h.explorer.GetEvent(ctx, req.TxHash)
	if err != nil {
		var statusErr *tonapi.StatusError
		if errors.As(err, &statusErr) {
			log.Error("Request error", "status", statusErr.Code, "body", statusErr.Body)
			return nil
		}
		return err
	}
	log.Info("Request status success [200]")

	record, err := classifier.Classify(event)
	switch {
	case errors.Is(err, classifier.ErrNotClassifiable):
		if err == classifier.ErrNotClassifiable {
			log.Info("Event not classifiable")
		} else {
			// wrapped: the event itself is malformed
			log.Warn("Event not classifiable", "reason", err)
		}
		record = nil
	case err != nil:
		return err
	}

	if record != nil {
		log.Debug("Event classified", "record", record.String())
	}
	if !h.gate.Allow(record) {
		return nil
	}

	// delivery must not be cut short if the caller hangs up
	if err := h.notifier.Notify(context.WithoutCancel(ctx), *record); err != nil {
		log.Error("Notification failed", "err", err)
		return nil
	}
	log.Info("Buy notified", "amount", record.Amount, "price", record.Price, "wallet", record.UserWallet)
	return nil
}

// recoverer converts a panic into the generic error payload.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.Error("Webhook panic", "panic", rec, "stack", string(debug.Stack()))
				h.writeError(w, fmt.Sprint(rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", "status", statusCode, "err", err)
	}
}

// writeError answers with the default 200 status and an error body.
func (h *Handler) writeError(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusOK, ErrorResponse{Status: "error", Message: message})
}
