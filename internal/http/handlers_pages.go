package http

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"pennywise/internal/auth"
	"pennywise/internal/core"
	"pennywise/internal/log"
	"pennywise/internal/services"
)

const signUpNotice = "Sign up successful! Please log in."

type pageData struct {
	Theme            string
	ToggleThemeQuery template.URL
	Error            string
	Notice           string
	Email            string
}

func newPageData(path string, r *http.Request) pageData {
	q := r.URL.Query()
	theme := themeFrom(q)
	return pageData{
		Theme:            theme,
		ToggleThemeQuery: withQuery(path, q, map[string]string{"theme": otherTheme(theme)}),
	}
}

type expenseForm struct {
	Description string
	Amount      string
	Date        string
	PaymentType string
}

type monthOption struct {
	Number int
	Name   string
}

type trackerPage struct {
	pageData
	DisplayName string
	Today       string
	Form        expenseForm
	D           services.Dashboard
	Pages       []int
	Months      []monthOption

	query url.Values
}

// PageQuery links to page n, keeping theme and the selected month.
func (p trackerPage) PageQuery(n int) template.URL {
	return withQuery("/tracker", p.query, map[string]string{"page": strconv.Itoa(n)})
}

var monthOptions = func() []monthOption {
	out := make([]monthOption, 12)
	for i := range out {
		out[i] = monthOption{Number: i + 1, Name: core.MonthName(i + 1)}
	}
	return out
}()

func trackerURL(r *http.Request) string {
	return "/tracker?theme=" + themeFrom(r.URL.Query())
}

func loginURL(r *http.Request) string {
	return "/?theme=" + themeFrom(r.URL.Query())
}

// requirePageUser sends visitors without a valid session back to the login page.
func (s *Server) requirePageUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.currentUser(r)
		if err != nil {
			http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
			return
		}
		ctx := auth.WithUser(r.Context(), u)
		ctx = log.WithLogger(ctx, log.FromContext(ctx).With(log.FieldUserID, u.ID))
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.currentUser(r); err == nil {
		http.Redirect(w, r, trackerURL(r), http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", newPageData("/", r))
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	email, password, err := credentials(r)
	data := newPageData("/", r)
	if err != nil {
		data.Error = "Invalid request"
		s.render(w, r, http.StatusBadRequest, "login.html", data)
		return
	}
	sess, err := s.auth.SignIn(r.Context(), email, password)
	if err != nil {
		status, msg := errorStatus(r, err)
		data.Error, data.Email = msg, email
		s.render(w, r, status, "login.html", data)
		return
	}
	http.SetCookie(w, sessionCookie(r, sess))
	http.Redirect(w, r, trackerURL(r), http.StatusSeeOther)
}

func (s *Server) handleSignUpSubmit(w http.ResponseWriter, r *http.Request) {
	email, password, err := credentials(r)
	data := newPageData("/", r)
	if err != nil {
		data.Error = "Invalid request"
		s.render(w, r, http.StatusBadRequest, "login.html", data)
		return
	}
	data.Email = email
	if _, err := s.auth.SignUp(r.Context(), email, password); err != nil {
		status, msg := errorStatus(r, err)
		data.Error = msg
		s.render(w, r, status, "login.html", data)
		return
	}
	data.Notice = signUpNotice
	s.render(w, r, http.StatusOK, "login.html", data)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		_ = s.auth.SignOut(r.Context(), token)
	}
	http.SetCookie(w, clearedCookie(r))
	http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
}

func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	s.renderTracker(w, r, http.StatusOK, expenseForm{Date: core.Today().String(), PaymentType: string(core.Debit)}, "")
}

func (s *Server) handleTrackerAdd(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.renderTracker(w, r, http.StatusBadRequest, expenseForm{}, "Invalid request")
		return
	}
	in := expenseInput(mustUser(r).ID, p)
	if _, err := s.expenses.AddExpense(r.Context(), in); err != nil {
		status, msg := errorStatus(r, err)
		form := expenseForm{Description: in.Description, Amount: in.Amount, Date: in.Date, PaymentType: in.PaymentType}
		s.renderTracker(w, r, status, form, msg)
		return
	}
	http.Redirect(w, r, trackerURL(r), http.StatusSeeOther)
}

func (s *Server) renderTracker(w http.ResponseWriter, r *http.Request, status int, form expenseForm, errMsg string) {
	u := mustUser(r)
	q := r.URL.Query()
	mp := ParseMonthParams(q)
	d, err := s.expenses.Dashboard(r.Context(), u.ID, services.DashboardQuery{
		Year:  mp.Year,
		Month: mp.Month,
		Page:  ParsePage(q),
	})
	if err != nil {
		code, msg := errorStatus(r, err)
		HTMLErrorResponse(code, msg).Write(w)
		return
	}

	data := trackerPage{
		pageData:    newPageData("/tracker", r),
		DisplayName: u.DisplayName(),
		Today:       core.Today().String(),
		Form:        form,
		D:           d,
		Pages:       pageNumbers(d.Page.TotalPages),
		Months:      monthOptions,
		query:       q,
	}
	data.Error = errMsg
	s.render(w, r, status, "tracker.html", data)
}
