package http

import (
	"context"
	"net/http"
	"time"

	"pennywise/internal/services"
)

func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	mp := ParseMonthParams(r.URL.Query())
	o, err := s.expenses.CategoryStats(r.Context(), mustUser(r).ID, mp.Year, mp.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(newCategoryStatsView(o)).Write(w)
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	series, err := s.expenses.MonthlyStats(r.Context(), mustUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(newMonthlyStatsView(series)).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mp := ParseMonthParams(q)
	d, err := s.expenses.Dashboard(r.Context(), mustUser(r).ID, services.DashboardQuery{
		Year:  mp.Year,
		Month: mp.Month,
		Page:  ParsePage(q),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(newDashboardView(d)).Write(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports not_ready when the store cannot be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"templates": "ok", "store": "ok"}
	if s.pinger == nil {
		checks["store"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if err := s.pinger.Ping(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	NewResponse().Status(code).JSON(map[string]any{
		"status": status,
		"checks": checks,
	}).Write(w)
}
