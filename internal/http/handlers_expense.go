package http

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"pennywise/internal/export"
	"pennywise/internal/log"
	"pennywise/internal/services"
)

// handleExpenses serves GET (paged list) and POST (create) on one path.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	if r.Method == http.MethodPost {
		s.limited(s.handleCreateExpense).ServeHTTP(w, r)
		return
	}

	page, err := s.expenses.ListPage(r.Context(), mustUser(r).ID, ParsePage(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(newPageView(page)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	e, err := s.expenses.AddExpense(r.Context(), expenseInput(mustUser(r).ID, p))
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Expense created",
		log.NewFields().WithExpense(e.ID, e.Amount.Cents, string(e.Category), string(e.PaymentType)).ToSlice()...)
	NewResponse().Status(http.StatusCreated).JSON(newExpenseView(e)).Write(w)
}

func expenseInput(userID string, p *RequestBodyParser) services.AddExpenseInput {
	return services.AddExpenseInput{
		UserID:      userID,
		Description: p.Get("description"),
		Amount:      p.Get("amount"),
		Date:        p.Get("date"),
		PaymentType: p.Get("payment_type"),
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	items, err := s.expenses.ListExpenses(r.Context(), mustUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, items); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentExport).ErrorContext(r.Context(),
			"Failed to build export", log.FieldError, err)
		InternalServerError().Write(w)
		return
	}

	h := w.Header()
	h.Set("Content-Type", export.ContentType)
	h.Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
