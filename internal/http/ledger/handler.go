package ledger

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/encoding"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/ledger/store"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/settings", h.export)
	r.Post("/settings/import", h.importBackup)
	r.Patch("/transactions/{id}/payment-month", h.setPaymentMonth)
	r.Patch("/transactions/{id}/status", h.setStatus)
	r.Post("/goals/{id}/skip", h.skipGoal)
	r.Post("/fund/skip", h.skipFund)
}

func (h *Handler) export(w http.ResponseWriter, _ *http.Request) {
	raw, err := store.Encode(h.svc.Snapshot())
	if err != nil {
		slog.Error("failed to encode settings", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(raw); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// importBackup replaces the settings with an uploaded backup, sent either as
// the request body or as the "file" field of a multipart form.
func (h *Handler) importBackup(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = r.Body

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(encoding.MaxBackupSize); err != nil {
			http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		body = file
	}

	raw, err := encoding.ReadUTF8(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := store.Decode(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Replace(r.Context(), settings); err != nil {
		slog.Error("failed to import settings", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type paymentMonthRequest struct {
	PaymentMonth string `json:"payment_month"`
}

func (h *Handler) setPaymentMonth(w http.ResponseWriter, r *http.Request) {
	var req paymentMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	month, err := calendar.ParseMonth(req.PaymentMonth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeResult(w, h.svc.SetPaymentMonth(r.Context(), chi.URLParam(r, "id"), month))
}

type statusRequest struct {
	Status transaction.Status `json:"status"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Status != transaction.StatusPending && req.Status != transaction.StatusPaid {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	writeResult(w, h.svc.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status))
}

type skipRequest struct {
	Month string `json:"month"`
}

func decodeSkip(r *http.Request) (calendar.Month, error) {
	var req skipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return calendar.Month{}, err
	}

	return calendar.ParseMonth(req.Month)
}

func (h *Handler) skipGoal(w http.ResponseWriter, r *http.Request) {
	month, err := decodeSkip(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeResult(w, h.svc.SkipGoalMonth(r.Context(), chi.URLParam(r, "id"), month))
}

func (h *Handler) skipFund(w http.ResponseWriter, r *http.Request) {
	month, err := decodeSkip(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeResult(w, h.svc.SkipFundMonth(r.Context(), month))
}

func writeResult(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		slog.Error("failed to update settings", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
