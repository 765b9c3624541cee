package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.List(r.Context())
	if err != nil {
		s.events.LogError(r.Context(), "List transactions failed", err, applog.ComponentLedger, applog.OpList, nil)
		writeError(w, r, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, r, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readInput(w, r)
	if !ok {
		return
	}

	tx, err := s.ledger.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			writeError(w, r, http.StatusBadRequest, msgMissingFields)
			return
		}
		s.events.LogError(r.Context(), "Create transaction failed", err, applog.ComponentLedger, applog.OpCreate, nil)
		writeError(w, r, http.StatusInternalServerError, msgCreateFailed)
		return
	}
	s.events.LogTransactionChanged(r.Context(), applog.OpCreate, tx.ID, string(tx.Type), tx.Category, tx.Date, tx.Amount.String())
	writeJSON(w, r, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readInput(w, r)
	if !ok {
		return
	}

	id, ok := parseID(r)
	if !ok {
		writeJSON(w, r, http.StatusOK, nil)
		return
	}

	tx, err := s.ledger.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			writeError(w, r, http.StatusBadRequest, msgMissingFields)
			return
		}
		s.events.LogError(r.Context(), "Update transaction failed", err, applog.ComponentLedger, applog.OpUpdate,
			applog.NewFields().WithTransaction(id, string(in.Type), in.Category, in.Date, in.Amount.String()))
		writeError(w, r, http.StatusInternalServerError, msgUpdateFailed)
		return
	}
	if tx == nil {
		writeJSON(w, r, http.StatusOK, nil)
		return
	}
	s.events.LogTransactionChanged(r.Context(), applog.OpUpdate, tx.ID, string(tx.Type), tx.Category, tx.Date, tx.Amount.String())
	writeJSON(w, r, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		NewJSONResponse(http.StatusNoContent).Empty().Write(w, r)
		return
	}
	if err := s.ledger.Delete(r.Context(), id); err != nil {
		s.events.LogError(r.Context(), "Delete transaction failed", err, applog.ComponentLedger, applog.OpDelete,
			applog.NewFields().WithTransaction(id, "", "", "", ""))
		writeError(w, r, http.StatusInternalServerError, msgDeleteFailed)
		return
	}
	s.events.LogTransactionChanged(r.Context(), applog.OpDelete, id, "", "", "", "")
	NewJSONResponse(http.StatusNoContent).Empty().Write(w, r)
}

// readInput decodes and presence-checks a transaction body, writing the
// 400 response itself when the body is unusable.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (core.TransactionInput, bool) {
	in, err := decodeTransactionInput(w, r)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, r, http.StatusBadRequest, msgInvalidAmount)
		return in, false
	case err != nil:
		writeError(w, r, http.StatusBadRequest, msgInvalidBody)
		return in, false
	}
	if err := in.Validate(); err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			applog.FromContext(r.Context()).DebugContext(r.Context(), "Transaction rejected", "missing", verr.Missing)
		}
		writeError(w, r, http.StatusBadRequest, msgMissingFields)
		return in, false
	}
	return in, true
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := parseFilter(q)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidMode)
		return
	}
	page, err := parsePage(q)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidPage)
		return
	}

	v, err := s.ledger.View(r.Context(), f, page)
	if err != nil {
		s.events.LogError(r.Context(), "Build view failed", err, applog.ComponentLedger, applog.OpView,
			applog.LogFields{applog.FieldMode: string(f.Mode), applog.FieldPage: page})
		writeError(w, r, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidMode)
		return
	}
	wb, err := s.ledger.Workbook(r.Context(), f)
	if err != nil {
		s.events.LogError(r.Context(), "Build workbook failed", err, applog.ComponentExport, applog.OpExport, nil)
		writeError(w, r, http.StatusInternalServerError, msgExportFailed)
		return
	}
	NewJSONResponse(http.StatusOK).
		Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.json"`, wb.Title)).
		Body(wb).
		Write(w, r)
}

func (s *Server) handlePublishWorkbook(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidMode)
		return
	}
	ref, err := s.ledger.PublishWorkbook(r.Context(), f)
	if err != nil {
		if errors.Is(err, services.ErrExportUnavailable) {
			writeError(w, r, http.StatusServiceUnavailable, msgExportDisabled)
			return
		}
		s.events.LogError(r.Context(), "Publish workbook failed", err, applog.ComponentExport, applog.OpExport, nil)
		writeError(w, r, http.StatusInternalServerError, msgExportFailed)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]string{"ref": ref})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleReady runs every registered dependency check with a shared
// timeout; any failure makes the whole service not ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "check", name, applog.FieldError, err)
			checks[name] = "failed"
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, r, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.GetMetrics()
	rl := s.limiter.GetMetrics()

	metrics := []Gauge{
		{Name: "http_requests_total", Help: "Total number of HTTP requests", Value: func() int64 { return tm.TotalRequests }},
		{Name: "http_client_errors_total", Help: "Responses with a 4xx status", Value: func() int64 { return tm.ClientErrors }},
		{Name: "http_server_errors_total", Help: "Responses with a 5xx status", Value: func() int64 { return tm.ServerErrors }},
		{Name: "http_response_time_avg_us", Help: "Average response time in microseconds", Value: func() int64 { return tm.AverageResponseTime }},
		{Name: "rate_limit_rejected_total", Help: "Mutating requests rejected by the rate limiter", Value: func() int64 { return rl.Rejected }},
		{Name: "rate_limit_clients", Help: "Clients tracked by the rate limiter", Value: func() int64 { return rl.ClientCount }},
		{Name: "security_suspicious_requests_total", Help: "Requests matching probe patterns", Value: s.detector.SuspiciousCount},
		{Name: "uptime_seconds", Help: "Seconds since the server started", Value: func() int64 { return int64(time.Since(s.startedAt).Seconds()) }},
	}
	metrics = append(metrics, s.gauges...)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %d\n", m.Name, m.Help, m.Name, m.Name, m.Value())
	}
}
