package projection

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
)

type Handler struct {
	asm *projection.Assembler
}

func NewHandler(asm *projection.Assembler) *Handler {
	return &Handler{asm: asm}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/projection", h.project)
	r.Get("/opportunities", h.opportunities)
	r.Post("/repair", h.repair)
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := projection.Filter{
		Text:     q.Get("q"),
		Category: q.Get("category"),
	}

	if s := q.Get("month"); s != "" {
		m, err := calendar.ParseMonth(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter.Month = &m
	}

	res, err := h.asm.Assemble(r.Context(), filter)
	if err != nil {
		slog.Error("failed to assemble projection", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toProjectionResponse(res)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) opportunities(w http.ResponseWriter, r *http.Request) {
	month := calendar.MonthOf(h.asm.Now())

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := calendar.ParseMonth(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		month = m
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(h.asm.Opportunities(month))); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) repair(w http.ResponseWriter, r *http.Request) {
	res, err := h.asm.Repair(r.Context())
	if err != nil {
		slog.Error("failed to repair settings", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	err = json.NewEncoder(w).Encode(repairResponse{
		Sanitized: res.Sanitized,
		Healed:    res.Healed,
		Passes:    res.Passes,
		Changed:   res.Changed(),
	})
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
