package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Simplici0/fraktkalkulator/internal/form"
	"github.com/Simplici0/fraktkalkulator/internal/metrics"
	"github.com/Simplici0/fraktkalkulator/internal/pricing"
	"github.com/Simplici0/fraktkalkulator/internal/receipt"
)

const maxAPIBodyBytes = 1 << 20

// jsonQuantity accepts a quantity as a JSON number or string and keeps it as
// text so the pricing engine parses both the same way.
type jsonQuantity string

func (q *jsonQuantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*q = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = jsonQuantity(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a number or a string")
	}
	*q = jsonQuantity(n.String())
	return nil
}

type estimateRequestItem struct {
	Quantity jsonQuantity `json:"quantity"`
	Category string       `json:"category"`
}

type estimateRequest struct {
	Items          []estimateRequestItem `json:"items"`
	Destination    string                `json:"destination"`
	HasLoadingRamp *bool                 `json:"has_loading_ramp"`
}

type estimateResponse struct {
	Destination    string            `json:"destination"`
	HasLoadingRamp bool              `json:"has_loading_ramp"`
	Rounding       string            `json:"rounding"`
	RampTracking   bool              `json:"ramp_tracking"`
	Breakdown      pricing.Breakdown `json:"breakdown"`
	Rows           []receipt.Row     `json:"rows"`
	Exportable     bool              `json:"exportable"`
}

type catalogResponse struct {
	Placeholder        string                `json:"placeholder"`
	Categories         []pricing.Category    `json:"categories"`
	Destinations       []pricing.Destination `json:"destinations"`
	DefaultDestination string                `json:"default_destination"`
	RampSurcharge      float64               `json:"ramp_surcharge"`
	Rounding           string                `json:"rounding"`
	RampTracking       bool                  `json:"ramp_tracking"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleEstimateAPI(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAPIBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req estimateRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	in := pricing.Input{
		Items:          make([]pricing.LineItem, 0, len(req.Items)),
		Destination:    strings.TrimSpace(req.Destination),
		HasLoadingRamp: true,
	}
	if in.Destination == "" {
		in.Destination = pricing.DefaultDestination().Name
	}
	if req.HasLoadingRamp != nil {
		in.HasLoadingRamp = *req.HasLoadingRamp
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, pricing.LineItem{Quantity: string(item.Quantity), Category: item.Category})
	}

	b := pricing.Calculate(in, s.pricing)
	metrics.RecordEstimate(in.Destination, "api")

	writeJSON(w, http.StatusOK, estimateResponse{
		Destination:    in.Destination,
		HasLoadingRamp: in.HasLoadingRamp,
		Rounding:       s.pricing.Rounding.String(),
		RampTracking:   s.pricing.RampTracking,
		Breakdown:      b,
		Rows:           receipt.Aggregate(in.Items),
		Exportable:     form.CanExport(b),
	})
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		Placeholder:        pricing.PlaceholderCategory,
		Categories:         pricing.Categories(),
		Destinations:       pricing.Destinations(),
		DefaultDestination: pricing.DefaultDestination().Name,
		RampSurcharge:      pricing.RampSurcharge,
		Rounding:           s.pricing.Rounding.String(),
		RampTracking:       s.pricing.RampTracking,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
