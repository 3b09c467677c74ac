// Package format renders amounts, dates and text for display.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"finboard/internal/models"
)

// Defaults used when a preference is missing or invalid.
const (
	DefaultCurrency   = "USD"
	DefaultLocale     = "en-US"
	DefaultDateFormat = "MM/DD/YYYY"
	DefaultTruncate   = 50
	DefaultPercentDP  = 1
)

// symbolAfter lists languages that write the currency symbol after the
// amount, separated by a no-break space.
var symbolAfter = map[string]bool{
	"cs": true, "da": true, "de": true, "fi": true, "fr": true, "it": true,
	"nb": true, "pl": true, "ru": true, "sv": true, "uk": true,
}

// Currency formats amount in the given ISO 4217 currency for locale, always
// with two decimals. Unknown codes fall back to USD and unknown locales to
// en-US. Separators follow the locale. The symbol goes after the amount for
// the languages in symbolAfter and before it otherwise; other CLDR currency
// patterns (accounting negatives, per-region spacing) are not reproduced.
func Currency(amount decimal.Decimal, code, locale string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	tag := parseLocale(locale)
	p := message.NewPrinter(tag)

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	sym := p.Sprint(currency.Symbol(unit))
	num := p.Sprint(number.Decimal(amount.Abs().Round(2).InexactFloat64(), number.Scale(2)))
	if base, _ := tag.Base(); symbolAfter[base.String()] {
		return sign + num + "\u00a0" + sym
	}
	return sign + sym + num
}

// Number formats value with en-US thousands separators and a fixed number of
// decimals.
func Number(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprint(number.Decimal(value, number.Scale(decimals)))
}

// Percentage formats value with a fixed number of decimals and a percent
// sign.
func Percentage(value float64, decimals int) string {
	if decimals < 0 {
		decimals = DefaultPercentDP
	}
	return fmt.Sprintf("%.*f%%", decimals, value)
}

// Date substitutes the MM, DD, YYYY and YY tokens of layout with t's month,
// day and year. Each token is replaced once. A zero time yields "".
func Date(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DefaultDateFormat
	}
	out := strings.Replace(layout, "MM", fmt.Sprintf("%02d", int(t.Month())), 1)
	out = strings.Replace(out, "DD", fmt.Sprintf("%02d", t.Day()), 1)
	out = strings.Replace(out, "YYYY", fmt.Sprintf("%04d", t.Year()), 1)
	out = strings.Replace(out, "YY", fmt.Sprintf("%02d", t.Year()%100), 1)
	return out
}

// DateString parses s as RFC 3339 or YYYY-MM-DD and formats it with Date.
// Unparseable input yields "".
func DateString(s, layout string) string {
	for _, l := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(l, s); err == nil {
			return Date(t, layout)
		}
	}
	return ""
}

// Truncate shortens text to length runes and appends "...". A non-positive
// length uses DefaultTruncate.
func Truncate(text string, length int) string {
	if length <= 0 {
		length = DefaultTruncate
	}
	if utf8.RuneCountInString(text) <= length {
		return text
	}
	return string([]rune(text)[:length]) + "..."
}

// CapitalizeWords upper-cases the first letter of every space-separated word
// and lower-cases the rest.
func CapitalizeWords(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// Formatter renders values using one user's preferences.
type Formatter struct {
	currency   string
	locale     string
	dateFormat string
}

// ForPreferences builds a Formatter from stored preferences, filling in
// defaults for empty fields.
func ForPreferences(prefs models.UserPreferences) Formatter {
	f := Formatter{currency: prefs.Currency, locale: prefs.Locale, dateFormat: prefs.DateFormat}
	if f.currency == "" {
		f.currency = DefaultCurrency
	}
	if f.locale == "" {
		f.locale = DefaultLocale
	}
	if f.dateFormat == "" {
		f.dateFormat = DefaultDateFormat
	}
	return f
}

func (f Formatter) Money(amount decimal.Decimal) string {
	return Currency(amount, f.currency, f.locale)
}

func (f Formatter) Date(t time.Time) string {
	return Date(t, f.dateFormat)
}
