package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/models"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		code   string
		locale string
		want   string
	}{
		{"usd", "1234.5", "USD", "en-US", "$1,234.50"},
		{"negative", "-45", "USD", "en-US", "-$45.00"},
		{"rounds_to_cents", "0.999", "USD", "en-US", "$1.00"},
		{"unknown_code_falls_back", "10", "???", "en-US", "$10.00"},
		{"unknown_locale_falls_back", "10", "USD", "not a locale!", "$10.00"},
		{"symbol_after_in_german", "1234.56", "EUR", "de-DE", "1.234,56\u00a0€"},
		{"negative_symbol_after", "-5", "EUR", "fr-FR", "-5,00\u00a0€"},
		{"symbol_before_in_british", "1234.56", "GBP", "en-GB", "£1,234.56"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Currency(decimal.RequireFromString(tt.amount), tt.code, tt.locale)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	if got := Number(1234567, 0); got != "1,234,567" {
		t.Errorf("expected 1,234,567, got %q", got)
	}
	if got := Number(1234.5, 2); got != "1,234.50" {
		t.Errorf("expected 1,234.50, got %q", got)
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(45.678, 1); got != "45.7%" {
		t.Errorf("expected 45.7%%, got %q", got)
	}
	if got := Percentage(100, 0); got != "100%" {
		t.Errorf("expected 100%%, got %q", got)
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2025, 4, 7, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		layout string
		want   string
	}{
		{"MM/DD/YYYY", "04/07/2025"},
		{"DD-MM-YY", "07-04-25"},
		{"YYYY.MM.DD", "2025.04.07"},
		{"", "04/07/2025"},
	}
	early := time.Date(5, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := Date(early, "DD-MM-YY"); got != "01-02-05" {
		t.Errorf("expected 01-02-05 for year 5, got %q", got)
	}
	if got := Date(early, "YYYY"); got != "0005" {
		t.Errorf("expected 0005, got %q", got)
	}
	for _, tt := range tests {
		if got := Date(d, tt.layout); got != tt.want {
			t.Errorf("layout %q: expected %q, got %q", tt.layout, tt.want, got)
		}
	}
	if got := Date(time.Time{}, "MM/DD/YYYY"); got != "" {
		t.Errorf("expected empty string for zero time, got %q", got)
	}
}

func TestDateString(t *testing.T) {
	if got := DateString("2025-04-07", "DD/MM/YYYY"); got != "07/04/2025" {
		t.Errorf("expected 07/04/2025, got %q", got)
	}
	if got := DateString("not a date", "DD/MM/YYYY"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("expected untouched text, got %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("expected hello..., got %q", got)
	}
	long := "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"
	if got := Truncate(long, 0); len(got) != DefaultTruncate+3 {
		t.Errorf("expected default length, got %d", len(got))
	}
	if got := Truncate("", 5); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestCapitalizeWords(t *testing.T) {
	if got := CapitalizeWords("eMERGENCY fund"); got != "Emergency Fund" {
		t.Errorf("expected Emergency Fund, got %q", got)
	}
	if got := CapitalizeWords(""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestForPreferences(t *testing.T) {
	f := ForPreferences(models.UserPreferences{})
	if got := f.Money(decimal.NewFromInt(5)); got != "$5.00" {
		t.Errorf("expected $5.00, got %q", got)
	}
	if got := f.Date(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)); got != "01/02/2025" {
		t.Errorf("expected 01/02/2025, got %q", got)
	}
}
