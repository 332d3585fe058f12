package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/emiliopalmerini/billheat/internal/domain"
	"github.com/emiliopalmerini/billheat/internal/heatmap"
)

const maxBillBytes = 1 << 20

type billsResponse struct {
	Months []string `json:"months"`
}

type billResponse struct {
	ID string `json:"id"`
	domain.BillDocument
	Total decimal.Decimal `json:"total"`
}

func newBillResponse(b *domain.Bill) billResponse {
	return billResponse{ID: b.ID, BillDocument: domain.NewBillDocument(b), Total: b.Total()}
}

type subscriberResponse struct {
	Name   string   `json:"name"`
	Number string   `json:"number"`
	Months []string `json:"months"`
}

type subscriberDetailResponse struct {
	Name    string                  `json:"name"`
	Number  string                  `json:"number"`
	Details []subscriberMonthDetail `json:"details"`
}

type subscriberMonthDetail struct {
	Month string `json:"month"`
	domain.SubscriberDocument
}

func (s *Server) handleAPIBills(w http.ResponseWriter, r *http.Request) {
	months, err := s.bills.ListMonths(r.Context())
	if err != nil {
		s.httpError(w, r, err)
		return
	}

	resp := billsResponse{Months: make([]string, 0, len(months))}
	for _, m := range months {
		resp.Months = append(resp.Months, domain.FormatMonth(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIBill(w http.ResponseWriter, r *http.Request) {
	month, err := domain.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		s.httpError(w, r, fmt.Errorf("%w: %v", heatmap.ErrInvalidArgument, err))
		return
	}

	bill, err := s.bills.Get(r.Context(), month)
	if err != nil {
		s.httpError(w, r, err)
		return
	}
	if bill == nil {
		s.httpError(w, r, fmt.Errorf("%w: no bill for %s", heatmap.ErrNotFound, domain.FormatMonth(month)))
		return
	}
	writeJSON(w, http.StatusOK, newBillResponse(bill))
}

// handleAPICreateBill stores a new bill. An existing month is a conflict
// unless replace=true is given.
func (s *Server) handleAPICreateBill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bill, err := domain.DecodeBill(http.MaxBytesReader(w, r.Body, maxBillBytes))
	if err != nil {
		s.httpError(w, r, err)
		return
	}

	if r.URL.Query().Get("replace") != "true" {
		existing, err := s.bills.Get(ctx, bill.Month)
		if err != nil {
			s.httpError(w, r, err)
			return
		}
		if existing != nil {
			s.httpError(w, r, fmt.Errorf("%w: %s", domain.ErrBillExists, domain.FormatMonth(bill.Month)))
			return
		}
	}

	if err := s.bills.Save(ctx, bill); err != nil {
		s.httpError(w, r, fmt.Errorf("failed to save bill: %w", err))
		return
	}
	s.logger.Info("Bill stored", "month", domain.FormatMonth(bill.Month), "subscribers", len(bill.Subscribers))
	writeJSON(w, http.StatusCreated, newBillResponse(bill))
}

func (s *Server) handleAPISubscribers(w http.ResponseWriter, r *http.Request) {
	histories, err := s.histories(r.Context())
	if err != nil {
		s.httpError(w, r, err)
		return
	}

	resp := make([]subscriberResponse, 0, len(histories))
	for _, h := range histories {
		sub := subscriberResponse{Name: h.Name, Number: h.Number, Months: make([]string, 0, len(h.Months))}
		for _, m := range h.Months {
			sub.Months = append(sub.Months, domain.FormatMonth(m.Month))
		}
		resp = append(resp, sub)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPISubscriber(w http.ResponseWriter, r *http.Request) {
	histories, err := s.histories(r.Context())
	if err != nil {
		s.httpError(w, r, err)
		return
	}

	number := chi.URLParam(r, "number")
	h, ok := domain.FindHistory(histories, number)
	if !ok {
		s.httpError(w, r, fmt.Errorf("%w: no subscriber %s", heatmap.ErrNotFound, number))
		return
	}

	resp := subscriberDetailResponse{Name: h.Name, Number: h.Number}
	for _, m := range h.Months {
		resp.Details = append(resp.Details, subscriberMonthDetail{
			Month:              domain.FormatMonth(m.Month),
			SubscriberDocument: domain.NewSubscriberDocument(m.Subscriber),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// histories groups the subscribers of every stored bill.
func (s *Server) histories(ctx context.Context) ([]domain.SubscriberHistory, error) {
	months, err := s.bills.ListMonths(ctx)
	if err != nil {
		return nil, err
	}

	bills := make([]*domain.Bill, 0, len(months))
	for _, m := range months {
		b, err := s.bills.Get(ctx, m)
		if err != nil {
			return nil, err
		}
		if b != nil {
			bills = append(bills, b)
		}
	}
	return domain.Histories(bills), nil
}
