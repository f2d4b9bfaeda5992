package http

import (
	"time"

	"pennywise/internal/auth"
	"pennywise/internal/core"
	"pennywise/internal/services"
)

type userView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func newUserView(u core.User) userView {
	return userView{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName(), CreatedAt: u.CreatedAt}
}

type sessionView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userView  `json:"user"`
}

func newSessionView(s auth.Session) sessionView {
	return sessionView{Token: s.Token, ExpiresAt: s.ExpiresAt, User: newUserView(s.User)}
}

type expenseView struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	AmountCents int64     `json:"amount_cents"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	PaymentType string    `json:"payment_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func newExpenseView(e core.Expense) expenseView {
	return expenseView{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.Float(),
		AmountCents: e.Amount.Cents,
		Date:        e.Date.String(),
		Category:    string(e.Category),
		PaymentType: string(e.PaymentType),
		CreatedAt:   e.CreatedAt,
	}
}

func newExpenseViews(es []core.Expense) []expenseView {
	out := make([]expenseView, 0, len(es))
	for _, e := range es {
		out = append(out, newExpenseView(e))
	}
	return out
}

type pageView struct {
	Items      []expenseView `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	TotalItems int           `json:"total_items"`
}

func newPageView(p services.Page) pageView {
	return pageView{
		Items:      newExpenseViews(p.Items),
		Page:       p.Page,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
	}
}

type categoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type monthTotal struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type categoryStatsView struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	MonthName string          `json:"month_name"`
	Total     float64         `json:"total"`
	Totals    []categoryTotal `json:"totals"`
	Chart     services.Chart  `json:"chart"`
}

func newCategoryStatsView(o core.MonthOverview) categoryStatsView {
	totals := make([]categoryTotal, 0, len(o.ByCategory))
	for _, c := range o.ByCategory {
		totals = append(totals, categoryTotal{Category: string(c.Category), Amount: c.Amount.Float()})
	}
	return categoryStatsView{
		Year:      o.Year,
		Month:     o.Month,
		MonthName: core.MonthName(o.Month),
		Total:     o.Total.Float(),
		Totals:    totals,
		Chart:     services.CategoryChart(o.ByCategory),
	}
}

type monthlyStatsView struct {
	Totals []monthTotal   `json:"totals"`
	Chart  services.Chart `json:"chart"`
}

func newMonthlyStatsView(series []core.MonthAmount) monthlyStatsView {
	totals := make([]monthTotal, 0, len(series))
	for _, m := range series {
		totals = append(totals, monthTotal{Month: m.Month, Amount: m.Amount.Float()})
	}
	return monthlyStatsView{Totals: totals, Chart: services.MonthlyChart(series)}
}

type dashboardView struct {
	Expenses      pageView          `json:"expenses"`
	Years         []int             `json:"years"`
	Categories    categoryStatsView `json:"categories"`
	Monthly       monthlyStatsView  `json:"monthly"`
	PageSize      int               `json:"page_size"`
	AllCategories []string          `json:"all_categories"`
	PaymentTypes  []string          `json:"payment_types"`
}

func newDashboardView(d services.Dashboard) dashboardView {
	cats := make([]string, 0, len(d.Categories))
	for _, c := range d.Categories {
		cats = append(cats, string(c))
	}
	pts := make([]string, 0, len(d.PaymentTypes))
	for _, p := range d.PaymentTypes {
		pts = append(pts, string(p))
	}
	return dashboardView{
		Expenses:      newPageView(d.Page),
		Years:         d.Years,
		Categories:    newCategoryStatsView(d.Overview),
		Monthly:       newMonthlyStatsView(d.Monthly),
		PageSize:      d.PageSize,
		AllCategories: cats,
		PaymentTypes:  pts,
	}
}
