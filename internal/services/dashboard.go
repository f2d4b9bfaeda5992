package services

import (
	"context"

	"pennywise/internal/core"
)

// Chart colours of the tracker page.
var (
	CategoryPalette = []string{
		"#FF6384", "#42ff55", "#36A2EB", "#FFCE56",
		"#ff3a3a", "#4BC0C0", "#9966FF", "#FF9F40",
	}
	MonthlyBarColor = "#ebe236"
)

const MonthlyChartLabel = "Monthly Spending"

// Dataset follows the Chart.js dataset shape. BackgroundColor is either a
// palette or a single colour.
type Dataset struct {
	Label                string    `json:"label,omitempty"`
	Data                 []float64 `json:"data"`
	BackgroundColor      any       `json:"backgroundColor"`
	HoverBackgroundColor any       `json:"hoverBackgroundColor,omitempty"`
	BorderColor          string    `json:"borderColor,omitempty"`
	BorderWidth          int       `json:"borderWidth,omitempty"`
}

type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// CategoryChart is the pie dataset for one month's breakdown.
func CategoryChart(breakdown []core.CategoryAmount) Chart {
	c := Chart{Labels: make([]string, 0, len(breakdown))}
	data := make([]float64, 0, len(breakdown))
	for _, b := range breakdown {
		c.Labels = append(c.Labels, string(b.Category))
		data = append(data, b.Amount.Float())
	}
	c.Datasets = []Dataset{{
		Data:                 data,
		BackgroundColor:      CategoryPalette,
		HoverBackgroundColor: CategoryPalette,
	}}
	return c
}

// MonthlyChart is the bar dataset over the monthly series.
func MonthlyChart(series []core.MonthAmount) Chart {
	c := Chart{Labels: make([]string, 0, len(series))}
	data := make([]float64, 0, len(series))
	for _, m := range series {
		c.Labels = append(c.Labels, m.Month)
		data = append(data, m.Amount.Float())
	}
	c.Datasets = []Dataset{{
		Label:           MonthlyChartLabel,
		Data:            data,
		BackgroundColor: MonthlyBarColor,
		BorderColor:     MonthlyBarColor,
		BorderWidth:     1,
	}}
	return c
}

// DashboardQuery selects the month and page. Zero values mean the current
// year, the current month and the first page.
type DashboardQuery struct {
	Year  int
	Month int
	Page  int
}

type Dashboard struct {
	Page         Page
	Years        []int
	Year         int
	Month        int
	MonthName    string
	Overview     core.MonthOverview
	Monthly      []core.MonthAmount
	CategoryPie  Chart
	MonthlyBars  Chart
	PageSize     int
	Categories   []core.Category
	PaymentTypes []core.PaymentType
}

// Dashboard gathers everything the tracker page shows from one list read.
func (s *ExpenseService) Dashboard(ctx context.Context, userID string, q DashboardQuery) (Dashboard, error) {
	items, err := s.ListExpenses(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	today := core.Today()
	year, month := q.Year, q.Month
	if year == 0 {
		year = today.Year()
	}
	if month < 1 || month > 12 {
		month = today.Month()
	}

	years := core.Years(items)
	if len(years) == 0 {
		years = []int{today.Year()}
	}

	overview := core.Overview(items, year, month)
	monthly := core.MonthlySeries(items)
	return Dashboard{
		Page:         paginate(items, s.pageSize, q.Page),
		Years:        years,
		Year:         year,
		Month:        month,
		MonthName:    core.MonthName(month),
		Overview:     overview,
		Monthly:      monthly,
		CategoryPie:  CategoryChart(overview.ByCategory),
		MonthlyBars:  MonthlyChart(monthly),
		PageSize:     s.pageSize,
		Categories:   core.Categories(),
		PaymentTypes: core.PaymentTypes(),
	}, nil
}

// CategoryStats is the category breakdown for one month.
func (s *ExpenseService) CategoryStats(ctx context.Context, userID string, year, month int) (core.MonthOverview, error) {
	items, err := s.ListExpenses(ctx, userID)
	if err != nil {
		return core.MonthOverview{}, err
	}
	return core.Overview(items, year, month), nil
}

// MonthlyStats is the all-time spend per month name.
func (s *ExpenseService) MonthlyStats(ctx context.Context, userID string) ([]core.MonthAmount, error) {
	items, err := s.ListExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.MonthlySeries(items), nil
}
