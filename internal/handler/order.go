package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"osboard/internal/dashboard"
	"osboard/internal/model"
	"osboard/internal/storage"
)

// OrderDashboard is the part of service.Dashboard the API needs.
type OrderDashboard interface {
	LoadAll(ctx context.Context) ([]model.ServiceOrder, error)
	Create(ctx context.Context, draft model.Draft) (model.ServiceOrder, error)
	Complete(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	View(mode dashboard.FilterMode) []dashboard.Item
	Stats() dashboard.Stats
	Report(ctx context.Context) string
}

const maxDraftBody = 64 << 10

func ListOrdersHandler(d OrderDashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := dashboard.ParseFilterMode(r.URL.Query().Get("filter"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, d.View(mode))
	}
}

func CreateOrderHandler(d OrderDashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft model.Draft
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDraftBody)).Decode(&draft); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		order, err := d.Create(r.Context(), draft)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrValidation):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, storage.ErrDuplicateID):
				http.Error(w, "order already exists", http.StatusConflict)
			default:
				slog.Error("order create failed", "error", err)
				http.Error(w, "failed to save order", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, order)
	}
}

func CompleteOrderHandler(d OrderDashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Complete(r.Context(), id); err != nil {
			slog.Error("order complete failed", "id", id, "error", err)
			http.Error(w, "failed to update order", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteOrderHandler(d OrderDashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Remove(r.Context(), id); err != nil {
			slog.Error("order delete failed", "id", id, "error", err)
			http.Error(w, "failed to delete order", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ReloadOrdersHandler(d OrderDashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := d.LoadAll(r.Context())
		if err != nil {
			slog.Error("order reload failed", "error", err)
			http.Error(w, "failed to load orders", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

func StatsHandler(d OrderDashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Stats())
	}
}

type reportResponse struct {
	Report string `json:"report"`
}

// ReportHandler always answers 200; failures come back as report text.
func ReportHandler(d OrderDashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, reportResponse{Report: d.Report(r.Context())})
	}
}
