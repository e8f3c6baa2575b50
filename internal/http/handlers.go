package http

import (
	"bytes"
	"fmt"
	"net/http"

	"shiplog/internal/chart"
	"shiplog/internal/core"
	"shiplog/internal/export"
	applog "shiplog/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, chart.DailySeries(s.loader.Load(r.Context())))
}

type monthlyResponse struct {
	chart.Series
	Year  int `json:"year"`
	Total int `json:"total"`
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r, s.now())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	totals := core.MonthlyTotalsFor(s.loader.Load(r.Context()), year)
	writeJSON(w, r, http.StatusOK, monthlyResponse{
		Series: chart.MonthlySeries(totals, year),
		Year:   year,
		Total:  totals.Sum(),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r, s.now())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	wb := export.Build(s.loader.Load(r.Context()), year, s.now(), s.exportPrefix)

	// Buffer so a failed render can still become a 500.
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, wb); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Workbook render failed",
			applog.FieldYear, year, applog.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", wb.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
