package core

import (
	"reflect"
	"testing"
)

func rec(desc string, cents int64, y, m, d int) Expense {
	return Expense{
		Description: desc,
		Amount:      Money{Cents: cents},
		Date:        NewDate(y, m, d),
		Category:    Categorize(desc),
		PaymentType: Debit,
		UserID:      "u1",
	}
}

func TestCategoryTotalsExample(t *testing.T) {
	records := []Expense{
		rec("Swiggy order", 25000, 2024, 5, 2),
		rec("Uber ride", 12000, 2024, 5, 3),
	}
	got := CategoryTotals(records, 2024, 5)
	want := map[Category]Money{
		CategoryFood:      {Cents: 25000},
		CategoryTransport: {Cents: 12000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCategoryTotalsEmpty(t *testing.T) {
	got := CategoryTotals(nil, 2024, 5)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil map, got %v", got)
	}
}

func TestCategoryTotalsSingleCategory(t *testing.T) {
	records := []Expense{
		rec("zomato", 100, 2024, 5, 1),
		rec("swiggy", 250, 2024, 5, 9),
		rec("restaurant", 50, 2024, 5, 31),
	}
	got := CategoryTotals(records, 2024, 5)
	if len(got) != 1 || got[CategoryFood].Cents != 400 {
		t.Fatalf("expected single Food entry of 400, got %v", got)
	}
}

func TestCategoryTotalsFiltersByYearAndMonth(t *testing.T) {
	records := []Expense{
		rec("zomato", 100, 2024, 5, 1),
		rec("zomato", 200, 2024, 6, 1),
		rec("zomato", 400, 2023, 5, 1),
	}
	got := CategoryTotals(records, 2024, 5)
	if got[CategoryFood].Cents != 100 {
		t.Fatalf("expected 100, got %d", got[CategoryFood].Cents)
	}
}

func TestCategoryTotalsDoesNotMutateInput(t *testing.T) {
	records := []Expense{rec("zomato", 100, 2024, 5, 1)}
	before := append([]Expense(nil), records...)
	_ = CategoryTotals(records, 2024, 5)
	_ = MonthlyTotals(records)
	if !reflect.DeepEqual(before, records) {
		t.Fatalf("input mutated")
	}
}

// Months are bucketed by name only; the year is ignored.
func TestMonthlyTotalsMergesYears(t *testing.T) {
	records := []Expense{
		rec("zomato", 100, 2024, 5, 1),
		rec("uber", 300, 2023, 5, 20),
		rec("rent", 1000, 2024, 4, 1),
	}
	got := MonthlyTotals(records)
	want := map[string]Money{
		"May": {Cents: 400},
		"Apr": {Cents: 1000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMonthlyTotalsEmpty(t *testing.T) {
	got := MonthlyTotals([]Expense{})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil map, got %v", got)
	}
}

func TestBreakdownAndSeriesOrder(t *testing.T) {
	records := []Expense{
		rec("uber", 100, 2024, 5, 9),
		rec("zomato", 200, 2024, 5, 8),
		rec("ola", 50, 2024, 5, 7),
		rec("rent", 900, 2024, 4, 1),
	}
	bd := CategoryBreakdown(records, 2024, 5)
	want := []CategoryAmount{
		{Category: CategoryTransport, Amount: Money{Cents: 150}},
		{Category: CategoryFood, Amount: Money{Cents: 200}},
	}
	if !reflect.DeepEqual(bd, want) {
		t.Fatalf("expected %v, got %v", want, bd)
	}
	series := MonthlySeries(records)
	if len(series) != 2 || series[0].Month != "May" || series[0].Amount.Cents != 350 || series[1].Month != "Apr" {
		t.Fatalf("unexpected series %v", series)
	}
	ov := Overview(records, 2024, 5)
	if ov.Total.Cents != 350 || len(ov.ByCategory) != 2 {
		t.Fatalf("unexpected overview %+v", ov)
	}
}

func TestYears(t *testing.T) {
	records := []Expense{
		rec("a", 1, 2023, 1, 1),
		rec("b", 1, 2025, 1, 1),
		rec("c", 1, 2023, 2, 1),
		rec("d", 1, 2024, 1, 1),
	}
	got := Years(records)
	if !reflect.DeepEqual(got, []int{2025, 2024, 2023}) {
		t.Fatalf("unexpected years %v", got)
	}
	if len(Years(nil)) != 0 {
		t.Fatalf("expected no years")
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(1) != "Jan" || MonthName(12) != "Dec" {
		t.Fatalf("unexpected month names")
	}
	if MonthName(0) != "" || MonthName(13) != "" {
		t.Fatalf("out of range months should be empty")
	}
}
