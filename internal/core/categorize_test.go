package core

import "testing"

func TestCategorize(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"Swiggy order", CategoryFood},
		{"dinner at restaurant", CategoryFood},
		{"Monthly SIP", CategoryInvestment},
		{"mutual fund top-up", CategoryInvestment},
		{"Movie tickets", CategoryEntertainment},
		{"Uber ride", CategoryTransport},
		{"metro card", CategoryTransport},
		{"Amazon purchase", CategoryShopping},
		{"new jeans", CategoryShopping},
		{"Bigbasket vegetables", CategoryGroceries},
		{"House rent", CategoryHousing},
		{"Electricity bill", CategoryUtilities},
		{"wifi", CategoryUtilities},
		{"Random thing", CategoryMiscellaneous},
		{"", CategoryMiscellaneous},
	}
	for _, tc := range cases {
		if got := Categorize(tc.in); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	if Categorize("ZOMATO order") != Categorize("zomato order") {
		t.Fatalf("expected same category regardless of case")
	}
	if got := Categorize("ZOMATO order"); got != CategoryFood {
		t.Fatalf("expected Food, got %q", got)
	}
}

func TestCategorizeFirstRuleWins(t *testing.T) {
	// Food is declared before Transport.
	if got := Categorize("uber to the restaurant"); got != CategoryFood {
		t.Fatalf("expected Food, got %q", got)
	}
	// Shopping is declared before Utilities.
	if got := Categorize("amazon phone"); got != CategoryShopping {
		t.Fatalf("expected Shopping, got %q", got)
	}
}

// Keywords match as substrings, including inside unrelated words.
// These cases pin that behavior so a change to it is deliberate.
func TestCategorizeSubstringLimitation(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"database course", CategoryUtilities},
		{"gift for parent", CategoryHousing},
		{"automobile insurance", CategoryTransport},
	}
	for _, tc := range cases {
		if got := Categorize(tc.in); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	r := Rules()
	r[0].Keywords[0] = "changed"
	r[0].Category = "Other"
	if got := Categorize("zomato"); got != CategoryFood {
		t.Fatalf("rule table mutated through copy, got %q", got)
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 9 {
		t.Fatalf("expected 9 categories, got %d", len(cats))
	}
	if cats[len(cats)-1] != CategoryMiscellaneous {
		t.Fatalf("expected fallback last, got %q", cats[len(cats)-1])
	}
	for _, c := range cats {
		if !c.IsValid() {
			t.Fatalf("%q should be valid", c)
		}
	}
	if Category("Travel").IsValid() {
		t.Fatalf("unknown category should be invalid")
	}
}
