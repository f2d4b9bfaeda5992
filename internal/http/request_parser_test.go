package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"pennywise/internal/core"
)

func TestParseMonthParams(t *testing.T) {
	today := core.Today()
	tests := []struct {
		name      string
		query     url.Values
		wantYear  int
		wantMonth int
	}{
		{"both values provided", url.Values{"year": {"2024"}, "month": {"12"}}, 2024, 12},
		{"only year", url.Values{"year": {"2023"}}, 2023, today.Month()},
		{"only month", url.Values{"month": {"5"}}, today.Year(), 5},
		{"month out of range", url.Values{"year": {"2024"}, "month": {"13"}}, 2024, today.Month()},
		{"garbage", url.Values{"year": {"abc"}, "month": {"x"}}, today.Year(), today.Month()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseMonthParams(tt.query)

			if result.Year != tt.wantYear {
				t.Errorf("Year = %d, want %d", result.Year, tt.wantYear)
			}
			if result.Month != tt.wantMonth {
				t.Errorf("Month = %d, want %d", result.Month, tt.wantMonth)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := map[string]int{"": 1, "3": 3, "0": 1, "-2": 1, "two": 1}
	for in, want := range tests {
		if got := ParsePage(url.Values{"page": {in}}); got != want {
			t.Errorf("ParsePage(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"description": "Swiggy", "amount": 42.5, "password": "  pw  "}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !parser.IsJSON() {
		t.Error("Expected IsJSON() to be true")
	}
	if d := parser.Get("description"); d != "Swiggy" {
		t.Errorf("Get('description') = %q, want 'Swiggy'", d)
	}
	if amount := parser.Get("amount"); amount != "42.5" {
		t.Errorf("Get('amount') = %q, want '42.5'", amount)
	}
	if pw := parser.GetRaw("password"); pw != "  pw  " {
		t.Errorf("GetRaw('password') = %q", pw)
	}
}

func TestRequestBodyParser_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"a":`))
	req.Header.Set("Content-Type", "application/json")

	if err := NewRequestBodyParser(req).Parse(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	body := "description=Uber+ride&amount=100"
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if parser.IsJSON() {
		t.Error("Expected IsJSON() to be false for form data")
	}
	if d := parser.Get("description"); d != "Uber ride" {
		t.Errorf("Get('description') = %q, want 'Uber ride'", d)
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(""))

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if val := parser.Get("nonexistent"); val != "" {
		t.Errorf("Get('nonexistent') = %q, want empty string", val)
	}
}

func TestRequestBodyParser_TooLarge(t *testing.T) {
	body := "description=" + strings.Repeat("a", maxBodyBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))

	if err := NewRequestBodyParser(req).Parse(); err != errBodyTooLarge {
		t.Fatalf("Parse() error = %v, want %v", err, errBodyTooLarge)
	}
}

func TestRequireMethod(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		allowed []string
		wantErr bool
	}{
		{"POST allowed", http.MethodPost, []string{http.MethodPost}, false},
		{"GET allowed with multiple", http.MethodGet, []string{http.MethodGet, http.MethodPost}, false},
		{"GET not allowed", http.MethodGet, []string{http.MethodPost}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/test", nil)
			result := RequireMethod(req, tt.allowed...)

			if tt.wantErr && result == nil {
				t.Error("Expected error response but got nil")
			}
			if !tt.wantErr && result != nil {
				t.Error("Expected nil but got error response")
			}
		})
	}
}

func TestRequirePOST(t *testing.T) {
	if result := RequirePOST(httptest.NewRequest(http.MethodPost, "/test", nil)); result != nil {
		t.Error("RequirePOST should allow POST requests")
	}
	if result := RequirePOST(httptest.NewRequest(http.MethodGet, "/test", nil)); result == nil {
		t.Error("RequirePOST should reject GET requests")
	}
}
