package core

import "strings"

// Category is the label assigned to an expense from its description.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryInvestment    Category = "Investment"
	CategoryEntertainment Category = "Entertainment"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryGroceries     Category = "Groceries"
	CategoryHousing       Category = "Housing"
	CategoryUtilities     Category = "Utilities"

	// CategoryMiscellaneous is the fallback. The stored label keeps its
	// historical spelling so existing records keep aggregating together.
	CategoryMiscellaneous Category = "Misseleneous"
)

// Rule maps a category to the keywords that select it.
type Rule struct {
	Category Category
	Keywords []string
}

// rules are evaluated in order; the first rule with a matching keyword wins.
// Keywords are lowercase and match as plain substrings, so short ones like
// "auto" or "data" also hit inside longer words.
var rules = []Rule{
	{CategoryFood, []string{"zomato", "swiggy", "restaurant"}},
	{CategoryInvestment, []string{"sip", "mutual fund", "stocks", "investment"}},
	{CategoryEntertainment, []string{"movie", "cinema", "theater"}},
	{CategoryTransport, []string{"uber", "ola", "taxi", "cab", "auto", "ride", "bus", "train", "metro"}},
	{CategoryShopping, []string{
		"amazon", "flipkart", "ajio", "myntra", "westside", "max", "pantaloons",
		"zara", "h&m", "tshirt", "shirt", "pant", "jeans",
	}},
	{CategoryGroceries, []string{
		"bigbasket", "grofers", "dmart", "reliance fresh", "spencer",
		"more supermarket", "vegetables", "fruits", "grocery",
	}},
	{CategoryHousing, []string{"rent"}},
	{CategoryUtilities, []string{
		"wifi", "electricity", "broadband", "bill", "recharge", "mobile",
		"internet", "data", "phone", "cable", "tv", "battery",
	}},
}

// Categorize returns the first category whose keyword occurs in the
// lowercased description, or CategoryMiscellaneous when none does.
func Categorize(description string) Category {
	d := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(d, kw) {
				return r.Category
			}
		}
	}
	return CategoryMiscellaneous
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Categories lists every category in rule order followed by the fallback.
func Categories() []Category {
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.Category)
	}
	return append(out, CategoryMiscellaneous)
}

func (c Category) IsValid() bool {
	if c == CategoryMiscellaneous {
		return true
	}
	for _, r := range rules {
		if r.Category == c {
			return true
		}
	}
	return false
}
