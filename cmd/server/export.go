package main

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/fraktkalkulator/internal/form"
	"github.com/Simplici0/fraktkalkulator/internal/metrics"
	"github.com/Simplici0/fraktkalkulator/internal/receipt"
	"github.com/Simplici0/fraktkalkulator/internal/store"
)

type estimatesViewData struct {
	baseViewData
	Query     string
	Estimates []store.Summary
}

// handleReceiptExport snapshots the posted estimate to history and returns
// the receipt as a download.
func (s *server) handleReceiptExport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	docType, err := receipt.ParseDocType(r.PostFormValue("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := parseCalculatorForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b := f.Estimate(s.pricing)
	if !form.CanExport(b) {
		s.renderCalculator(w, http.StatusUnprocessableEntity, f, "Legg til minst én vare før du laster ned kvitteringen.")
		return
	}

	in := f.Input()
	saved, err := s.estimates.Save(r.Context(), store.Record{
		Destination:    in.Destination,
		HasLoadingRamp: in.HasLoadingRamp,
		Rounding:       s.pricing.Rounding,
		RampTracking:   s.pricing.RampTracking,
		Items:          in.Items,
		Breakdown:      b,
	})
	if err != nil {
		metrics.RecordExportError(string(docType), "store")
		s.logger.Error("save estimate", zap.Error(err))
		http.Error(w, "failed to save estimate", http.StatusInternalServerError)
		return
	}

	s.writeReceipt(w, saved, docType)
}

func (s *server) handleEstimatesList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	estimates, err := s.estimates.List(r.Context(), query)
	if err != nil {
		s.logger.Error("list estimates", zap.Error(err))
		http.Error(w, "failed to load estimates", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, http.StatusOK, "estimates.html", estimatesViewData{
		Query:     query,
		Estimates: estimates,
	})
}

// handleEstimateReceipt re-exports a stored snapshot without recalculating it.
func (s *server) handleEstimateReceipt(w http.ResponseWriter, r *http.Request) {
	docType, err := receipt.ParseDocType(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.estimates.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("load estimate", zap.Error(err))
		http.Error(w, "failed to load estimate", http.StatusInternalServerError)
		return
	}

	s.writeReceipt(w, rec, docType)
}

func (s *server) writeReceipt(w http.ResponseWriter, rec store.Record, docType receipt.DocType) {
	rc := receipt.Build(rec.Input(), rec.Breakdown, rec.Options(), rec.CreatedAt.Local())
	rc.Reference = rec.ID

	body, err := receipt.Render(rc, docType)
	if err != nil {
		metrics.RecordExportError(string(docType), "render")
		s.logger.Error("render receipt", zap.String("estimate_id", rec.ID), zap.String("format", string(docType)), zap.Error(err))
		http.Error(w, "failed to render receipt", http.StatusInternalServerError)
		return
	}

	metrics.RecordExport(string(docType), rec.Breakdown.TotalCost)
	s.logger.Info("receipt exported",
		zap.String("estimate_id", rec.ID),
		zap.String("format", string(docType)),
		zap.String("destination", rec.Destination),
		zap.Float64("total_cost", rec.Breakdown.TotalCost),
	)

	w.Header().Set("Content-Type", docType.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": docType.Filename()}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
