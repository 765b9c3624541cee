package core

import (
	"errors"
	"testing"
)

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{
		Date:        "2024-01-05",
		Description: "Infaq Jumat Minggu 1",
		Category:    "Infaq Jumat",
		Amount:      NewMoney(1250000),
		Type:        Income,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := map[string]func(*TransactionInput){
		"date":        func(in *TransactionInput) { in.Date = "" },
		"description": func(in *TransactionInput) { in.Description = "" },
		"category":    func(in *TransactionInput) { in.Category = "" },
		"amount":      func(in *TransactionInput) { in.Amount = Money{} },
		"type":        func(in *TransactionInput) { in.Type = "" },
	}
	for field, mutate := range cases {
		in := good
		mutate(&in)
		err := in.Validate()
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || len(ve.Missing) != 1 || ve.Missing[0] != field {
			t.Fatalf("%s: unexpected missing list %v", field, ve)
		}
	}
}

func TestValidateIsPresenceOnly(t *testing.T) {
	in := TransactionInput{
		Date:        "not-a-date",
		Description: "x",
		Category:    "y",
		Amount:      NewMoney(-5),
		Type:        "transfer",
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected presence-only validation to pass, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in    string
		month string
		ok    bool
	}{
		{"2024-01-05", "2024-01", true},
		{"2024-02-29T10:00:00Z", "2024-02", true},
		{"2024-13-01", "", false},
		{"05/01/2024", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := MonthKey(tc.in)
		if ok != tc.ok || got != tc.month {
			t.Fatalf("%q: expected (%q,%v), got (%q,%v)", tc.in, tc.month, tc.ok, got, ok)
		}
	}
}
