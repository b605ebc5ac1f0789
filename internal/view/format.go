package view

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dayForm = "2006-01-02"

var (
	indian = message.NewPrinter(language.MustParse("en-IN"))
	upper  = cases.Upper(language.English)
	lower  = cases.Lower(language.English)
)

// FormatCurrency renders whole rupees with Indian digit grouping, e.g.
// "Rs. 1,23,456".
func FormatCurrency(v any) string {
	d := toDecimal(v).Round(0)
	return "Rs. " + indian.Sprintf("%d", d.IntPart())
}

// FormatMoney renders rupees with two decimals, e.g. "Rs. 1,234.50".
func FormatMoney(v any) string {
	d := toDecimal(v).Round(2)
	f, _ := d.Float64()
	return "Rs. " + indian.Sprintf("%.2f", f)
}

// FormatNumber groups digits the same way as FormatCurrency.
func FormatNumber(v any) string {
	return indian.Sprintf("%d", toDecimal(v).IntPart())
}

// FormatDay renders a YYYY-MM-DD string as "02 Jan 2006". Unparseable input is
// returned unchanged.
func FormatDay(value string) string {
	t, err := time.Parse(dayForm, value)
	if err != nil {
		return value
	}
	return t.Format("02 Jan 2006")
}

// Capitalize upper-cases the first letter and lower-cases the rest, e.g.
// "MEDICINE" -> "Medicine".
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return upper.String(string(r)) + lower.String(s[size:])
}

func toDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case float64:
		return decimal.NewFromFloat(n)
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
