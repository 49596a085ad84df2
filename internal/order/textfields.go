package order

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// firstPageLineLimit bounds the capitalized-line fallback scan for the
// customer name.
const firstPageLineLimit = 15

// fieldRule is one ordered extraction rule: a pure function over the
// raw page text. Rules are evaluated in order, first non-empty match
// wins, which keeps precedence independently testable.
type fieldRule struct {
	Name  string
	Apply func(text string) (string, bool)
}

var (
	customerLabelRe = regexp.MustCompile(`(?im)^[^\S\n]*(?:customer\s+name|customer|bill\s*to|ship\s*to|client|name)[:\s]+(\S[^\n\r]*)`)
	dateLabelRe     = regexp.MustCompile(`(?im)^[^\S\n]*(?:order\s+date|invoice\s+date|date)[:\s]+(\S[^\n\r]*)`)
	labelWordRe     = regexp.MustCompile(`(?i)^(?:customer|bill\s*to|ship\s*to|client|name|date|order|invoice|total|subtotal|page)\b`)
)

// TextFieldExtractor recovers order header fields from raw page text
// with ordered pattern rules. Absence is represented as nil, never as
// an error.
type TextFieldExtractor struct {
	dateOrder     DateOrder
	customerRules []fieldRule
	dateRules     []fieldRule
}

// NewTextFieldExtractor creates an extractor using the given ambiguous
// date-order policy.
func NewTextFieldExtractor(dateOrder DateOrder) *TextFieldExtractor {
	e := &TextFieldExtractor{dateOrder: dateOrder}

	e.customerRules = []fieldRule{
		{Name: "customer_label", Apply: applyLabel(customerLabelRe)},
		{Name: "capitalized_line", Apply: firstCapitalizedLine},
	}
	e.dateRules = []fieldRule{
		{Name: "date_label", Apply: applyLabel(dateLabelRe)},
		{Name: "bare_date", Apply: func(text string) (string, bool) {
			if m := numericDateRe.FindString(text); m != "" {
				return m, true
			}
			if m := monthNameDateRe.FindString(text); m != "" {
				return m, true
			}
			if m := dayFirstNameRe.FindString(text); m != "" {
				return m, true
			}
			return "", false
		}},
	}
	return e
}

// CustomerName returns the extracted customer name, or nil when no rule
// matched.
func (e *TextFieldExtractor) CustomerName(text string) *string {
	for _, rule := range e.customerRules {
		if v, ok := rule.Apply(text); ok {
			return String(v)
		}
	}
	return nil
}

// OrderDate returns the extracted order date, or nil when no rule
// produced a parseable date.
func (e *TextFieldExtractor) OrderDate(text string) *time.Time {
	for _, rule := range e.dateRules {
		v, ok := rule.Apply(text)
		if !ok {
			continue
		}
		if d, parsed := ParseDate(v, e.dateOrder); parsed {
			return &d
		}
	}
	return nil
}

// applyLabel builds a rule function from a label regexp whose first
// capture group is the field value up to the line break.
func applyLabel(re *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		v := strings.TrimSpace(m[1])
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// firstCapitalizedLine finds the first capitalized multi-word line near
// the top of the document that is not itself a recognized label line.
func firstCapitalizedLine(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	limit := firstPageLineLimit
	if limit > len(lines) {
		limit = len(lines)
	}

	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line == "" || labelWordRe.MatchString(line) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 {
			continue
		}
		if allCapitalized(words) {
			return line, true
		}
	}
	return "", false
}

func allCapitalized(words []string) bool {
	for _, w := range words {
		r := []rune(w)[0]
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
