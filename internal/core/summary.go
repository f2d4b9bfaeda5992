package core

import (
	"sort"
	"time"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// MonthAmount represents an amount aggregated by calendar month name.
type MonthAmount struct {
	Month  string
	Amount Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount
}

// MonthName returns the short English month name ("Jan".."Dec") for a 1-based month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()[:3]
}

// CategoryTotals sums amounts per category for records dated in the given
// year and 1-based month. Categories with no records are absent.
func CategoryTotals(records []Expense, year, month int) map[Category]Money {
	out := make(map[Category]Money)
	for _, r := range records {
		if r.Date.Year() != year || r.Date.Month() != month {
			continue
		}
		out[r.Category] = out[r.Category].Add(r.Amount)
	}
	return out
}

// MonthlyTotals sums amounts per calendar month name across all years.
// May 2023 and May 2024 land in the same "May" bucket.
func MonthlyTotals(records []Expense) map[string]Money {
	out := make(map[string]Money)
	for _, r := range records {
		name := MonthName(r.Date.Month())
		if name == "" {
			continue
		}
		out[name] = out[name].Add(r.Amount)
	}
	return out
}

// CategoryBreakdown is CategoryTotals ordered by first appearance in records.
func CategoryBreakdown(records []Expense, year, month int) []CategoryAmount {
	totals := CategoryTotals(records, year, month)
	out := make([]CategoryAmount, 0, len(totals))
	seen := make(map[Category]bool, len(totals))
	for _, r := range records {
		if r.Date.Year() != year || r.Date.Month() != month || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, CategoryAmount{Category: r.Category, Amount: totals[r.Category]})
	}
	return out
}

// MonthlySeries is MonthlyTotals ordered by first appearance in records.
func MonthlySeries(records []Expense) []MonthAmount {
	totals := MonthlyTotals(records)
	out := make([]MonthAmount, 0, len(totals))
	seen := make(map[string]bool, len(totals))
	for _, r := range records {
		name := MonthName(r.Date.Month())
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, MonthAmount{Month: name, Amount: totals[name]})
	}
	return out
}

// Overview builds the month summary used by the dashboard.
func Overview(records []Expense, year, month int) MonthOverview {
	ov := MonthOverview{Year: year, Month: month, ByCategory: CategoryBreakdown(records, year, month)}
	for _, c := range ov.ByCategory {
		ov.Total = ov.Total.Add(c.Amount)
	}
	return ov
}

// Years lists the distinct years present in records, newest first.
func Years(records []Expense) []int {
	seen := make(map[int]bool)
	out := []int{}
	for _, r := range records {
		if r.Date.IsZero() || seen[r.Date.Year()] {
			continue
		}
		seen[r.Date.Year()] = true
		out = append(out, r.Date.Year())
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
