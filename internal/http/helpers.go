package http

import (
	"html/template"
	"net/url"
	"strings"

	"pennywise/internal/core"
)

const (
	themeDark  = "dark"
	themeLight = "light"
)

// formatMoney renders an amount the way the tracker lists it, e.g. "₹250.50".
func formatMoney(m core.Money) string {
	return "₹" + m.String()
}

// sanitizeInput trims whitespace and drops control characters other than tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// themeFrom reads the theme query parameter. Dark is the default.
func themeFrom(q url.Values) string {
	if strings.EqualFold(q.Get("theme"), themeLight) {
		return themeLight
	}
	return themeDark
}

func otherTheme(theme string) string {
	if theme == themeLight {
		return themeDark
	}
	return themeLight
}

// withQuery copies q, applies the overrides, and returns path with the new query.
func withQuery(path string, q url.Values, overrides map[string]string) template.URL {
	out := url.Values{}
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range overrides {
		out.Set(k, v)
	}
	return template.URL(path + "?" + out.Encode())
}

func pageNumbers(total int) []int {
	pages := make([]int, 0, total)
	for i := 1; i <= total; i++ {
		pages = append(pages, i)
	}
	return pages
}

var templateFuncs = template.FuncMap{
	"money": formatMoney,
	"add":   func(a, b int) int { return a + b },
	"sub":   func(a, b int) int { return a - b },
}
