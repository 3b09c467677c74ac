package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidate()
	tests := []struct {
		tag   string
		value string
		valid bool
	}{
		{"iso4217", "USD", true},
		{"iso4217", "EUR", true},
		{"iso4217", "XYZ1", false},
		{"iso4217", "QQQ", false},
		{"account_type", "checking", true},
		{"account_type", "loan", true},
		{"account_type", "crypto", false},
		{"transaction_kind", "transfer", true},
		{"transaction_kind", "income", false},
		{"frequency", "biweekly", true},
		{"frequency", "daily", false},
		{"goal_category", "Emergency Fund", true},
		{"goal_category", "emergency fund", false},
		{"time_range", "week", true},
		{"time_range", "decade", false},
		{"budget_method", "50-30-20", true},
		{"budget_method", "envelope", false},
		{"date_format", "MM/DD/YYYY", true},
		{"date_format", "YYYY-MM-DD", true},
		{"date_format", "DD.MM.YY", true},
		{"date_format", "MM/DD", false},
		{"date_format", "%Y-%m-%d", false},
		{"widget_id", "upcoming-bills", true},
		{"widget_id", "weather", false},
		{"type_filter", "expense", true},
		{"type_filter", "refund", false},
		{"sort_field", "account", true},
		{"sort_field", "note", false},
		{"sort_direction", "desc", true},
		{"sort_direction", "down", false},
		{"start_of_week", "monday", true},
		{"start_of_week", "friday", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.value, func(t *testing.T) {
			err := v.Var(tt.value, tt.tag)
			if tt.valid && err != nil {
				t.Errorf("expected %q to pass %s, got %v", tt.value, tt.tag, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to fail %s", tt.value, tt.tag)
			}
		})
	}
}
