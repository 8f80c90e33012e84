package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/avbaser/coldstore/internal/billing"
	"github.com/avbaser/coldstore/internal/metrics"
	"github.com/avbaser/coldstore/internal/repository"
	"github.com/avbaser/coldstore/internal/storage"
)

type itemRequest struct {
	Name          string          `json:"name"`
	GSTNumber     string          `json:"gst_number"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Quantity      int64           `json:"quantity"`
	RatePerDay    decimal.Decimal `json:"rate_per_day"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	ItemName      string          `json:"item_name"`
	Location      string          `json:"location"`
	IncomingDate  string          `json:"incoming_date"`
	OutgoingDate  string          `json:"outgoing_date"`
	LabourNote    string          `json:"labour_note"`
}

func (req *itemRequest) toItem() (storage.Item, error) {
	if req.Name == "" {
		return storage.Item{}, errors.New("missing name")
	}
	if req.Quantity < 0 {
		return storage.Item{}, errors.New("quantity must be non-negative")
	}
	if req.RatePerDay.IsNegative() {
		return storage.Item{}, errors.New("rate_per_day must be non-negative")
	}
	if req.PaymentAmount.IsNegative() {
		return storage.Item{}, errors.New("payment_amount must be non-negative")
	}

	startDate, err := time.Parse(repository.DateLayout, req.StartDate)
	if err != nil {
		return storage.Item{}, errors.New("invalid start_date, use YYYY-MM-DD")
	}
	endDate, err := time.Parse(repository.DateLayout, req.EndDate)
	if err != nil {
		return storage.Item{}, errors.New("invalid end_date, use YYYY-MM-DD")
	}

	item := storage.Item{
		Name:          req.Name,
		GSTNumber:     req.GSTNumber,
		StartDate:     startDate.UTC(),
		EndDate:       endDate.UTC(),
		Quantity:      req.Quantity,
		RatePerDay:    req.RatePerDay,
		PaymentAmount: req.PaymentAmount,
		ItemName:      req.ItemName,
		Location:      req.Location,
		LabourNote:    req.LabourNote,
	}

	if req.IncomingDate != "" {
		d, err := time.Parse(repository.DateLayout, req.IncomingDate)
		if err != nil {
			return storage.Item{}, errors.New("invalid incoming_date, use YYYY-MM-DD")
		}
		d = d.UTC()
		item.IncomingDate = &d
	}
	if req.OutgoingDate != "" {
		d, err := time.Parse(repository.DateLayout, req.OutgoingDate)
		if err != nil {
			return storage.Item{}, errors.New("invalid outgoing_date, use YYYY-MM-DD")
		}
		d = d.UTC()
		item.OutgoingDate = &d
	}

	return item, nil
}

func itemIDFromRequest(r *http.Request) (int64, error) {
	idStr, ok := mux.Vars(r)["id"]
	if !ok || idStr == "" {
		return 0, errors.New("missing item ID")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid item ID")
	}
	return id, nil
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := req.toItem()
	if err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	id, err := s.storage.AddItem(r.Context(), item)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidDateRange) {
			respondError(w, http.StatusBadRequest, "Validation failed: end date is before start date")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("create_item").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	metrics.ItemsCreatedTotal.Inc()
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Item created successfully",
		"id":      id,
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.storage.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("get_item").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to get item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := req.toItem()
	if err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if err := s.storage.UpdateItem(r.Context(), id, item); err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidDateRange):
			respondError(w, http.StatusBadRequest, "Validation failed: end date is before start date")
		case errors.Is(err, repository.ErrObjectNotFound):
			respondError(w, http.StatusNotFound, "Item not found")
		default:
			metrics.OperationErrorsTotal.WithLabelValues("update_item").Inc()
			respondError(w, http.StatusInternalServerError, "Failed to update item")
		}
		return
	}

	metrics.ItemsUpdatedTotal.Inc()
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Item updated successfully",
	})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.storage.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("delete_item").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}

	metrics.ItemsDeletedTotal.Inc()
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Item %d deleted successfully", id),
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListItems(r.Context())
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_items").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handleItemHistory(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := s.storage.GetItemHistory(r.Context(), id)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("item_history").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to get item history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.storage.ListHistory(r.Context())
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_history").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}
