package validator

import (
	"testing"

	"github.com/shopspring/decimal"
)

type sample struct {
	Name   string          `json:"name" binding:"required,max=5"`
	Phone  string          `json:"phone" binding:"omitempty,mobile"`
	Amount decimal.Decimal `json:"amount" binding:"gt=0"`
}

func TestValidateStruct(t *testing.T) {
	Setup()

	tests := []struct {
		name   string
		in     sample
		fields []string
	}{
		{"valid", sample{Name: "Ann", Phone: "13800138000", Amount: decimal.NewFromInt(5)}, nil},
		{"missing name", sample{Amount: decimal.NewFromInt(1)}, []string{"name"}},
		{"bad phone", sample{Name: "Ann", Phone: "12345", Amount: decimal.NewFromInt(1)}, []string{"phone"}},
		{"zero amount", sample{Name: "Ann"}, []string{"amount"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateStruct(tt.in)
			if len(got) != len(tt.fields) {
				t.Fatalf("ValidateStruct = %v, want fields %v", got, tt.fields)
			}
			for _, f := range tt.fields {
				if got[f] == "" {
					t.Errorf("missing message for %s in %v", f, got)
				}
			}
		})
	}
}

func TestMobileTag(t *testing.T) {
	Setup()
	for phone, ok := range map[string]bool{
		"13912345678":  true,
		"12912345678":  false,
		"1391234567":   false,
		"139123456789": false,
	} {
		fields := ValidateStruct(sample{Name: "Ann", Phone: phone, Amount: decimal.NewFromInt(1)})
		if (fields == nil) != ok {
			t.Errorf("phone %q: fields = %v, want valid=%t", phone, fields, ok)
		}
	}
}
