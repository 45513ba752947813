package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"spendwise/internal/export"
	"spendwise/internal/report"
)

// serveCached answers from the report cache, rendering and storing on a miss.
// render returns the body and the tags a later write invalidates it by.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, contentType string, render func() ([]byte, []string, error)) {
	key := r.URL.Path + "?" + r.URL.Query().Encode()
	if hit, ok := s.reportCache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		NewJSONResponse().Header("Content-Type", hit.contentType).Raw(hit.body).Write(w)
		return
	}

	gen := s.reportCache.Generation()
	body, tags, err := render()
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	s.reportCache.SetTaggedAt(gen, key, cachedResponse{contentType: contentType, body: body}, tags...)
	w.Header().Set("X-Cache", "MISS")
	NewJSONResponse().Header("Content-Type", contentType).Raw(body).Write(w)
}

// monthlyView returns all months, or only those in the from/to range when given.
func (s *Server) monthlyView(r *http.Request, rng *MonthRange) (report.MonthlyView, error) {
	if rng == nil {
		return s.reports.MonthlyTotals(r.Context())
	}
	return s.reports.MonthlyTotalsBetween(r.Context(), rng.From, rng.To)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseMonthRange(r.URL.Query())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	s.serveCached(w, r, "application/json", func() ([]byte, []string, error) {
		view, err := s.monthlyView(r, rng)
		if err != nil {
			return nil, nil, err
		}
		body, err := json.Marshal(s.formatter.MonthlyRecord(view))
		return body, []string{tagAll}, err
	})
}

func (s *Server) handleMonthlyCSV(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseMonthRange(r.URL.Query())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	view, err := s.monthlyView(r, rng)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteMonthlyCSV(&buf, view.Months); err != nil {
		FromError(r, err).Write(w)
		return
	}
	writeCSV(w, "monthly.csv", buf.Bytes())
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthQuery(r.URL.Query())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	s.serveCached(w, r, "application/json", func() ([]byte, []string, error) {
		view, err := s.reports.CategoryBreakdown(r.Context(), month)
		if err != nil {
			return nil, nil, err
		}
		body, err := json.Marshal(export.BreakdownRecord(view))
		return body, []string{monthTag(view.Month)}, err
	})
}

func (s *Server) handleCategoryCSV(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthQuery(r.URL.Query())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	view, err := s.reports.CategoryBreakdown(r.Context(), month)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteBreakdownCSV(&buf, view); err != nil {
		FromError(r, err).Write(w)
		return
	}
	writeCSV(w, "categories-"+view.Month.String()+".csv", buf.Bytes())
}

func (s *Server) handleSummaryReport(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, "application/json", func() ([]byte, []string, error) {
		kpis, err := s.reports.Summary(r.Context())
		if err != nil {
			return nil, nil, err
		}
		body, err := json.Marshal(kpis)
		return body, []string{tagAll}, err
	})
}
