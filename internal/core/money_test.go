package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1250000", "1250000", true},
		{"12,5", "12.5", true},
		{" 2.50 ", "2.5", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"1e400", "", false},
		{"-1e400", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneySumIsExact(t *testing.T) {
	var sum Money
	for i := 0; i < 10; i++ {
		sum = sum.Add(MoneyFromFloat(0.1))
	}
	if !sum.Equal(NewMoney(1)) {
		t.Fatalf("expected exact 1, got %s", sum)
	}
}

func TestFormatIDR(t *testing.T) {
	cases := map[string]Money{
		"Rp 0":          NewMoney(0),
		"Rp 950":        NewMoney(950),
		"Rp 1.250.000":  NewMoney(1250000),
		"Rp 12.345.678": MoneyFromFloat(12345677.6),
		"-Rp 300.000":   NewMoney(-300000),
	}
	for want, m := range cases {
		if got := m.FormatIDR(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{NewMoney(50000)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"amount":50000}` {
		t.Fatalf("unexpected encoding %s", b)
	}

	var in TransactionInput
	if err := json.Unmarshal([]byte(`{"amount":"75000"}`), &in); err != nil {
		t.Fatal(err)
	}
	if !in.Amount.Equal(NewMoney(75000)) {
		t.Fatalf("expected 75000 from string, got %s", in.Amount)
	}
	if err := json.Unmarshal([]byte(`{"amount":null}`), &in); err != nil || !in.Amount.IsZero() {
		t.Fatalf("expected null to decode as zero, got %s (err=%v)", in.Amount, err)
	}
	if err := json.Unmarshal([]byte(`{"amount":"lots"}`), &in); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestAmountBeyondFloatRangeIsRejected(t *testing.T) {
	for _, body := range []string{`{"amount":1e400}`, `{"amount":"1e400"}`, `{"amount":-1e400}`} {
		var in TransactionInput
		err := json.Unmarshal([]byte(body), &in)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s: expected ErrInvalidAmount, got %v", body, err)
		}
	}

	var in TransactionInput
	if err := json.Unmarshal([]byte(`{"amount":1e300}`), &in); err != nil {
		t.Fatalf("large finite amount rejected: %v", err)
	}
}

func TestMoneyFromFloatNonFinite(t *testing.T) {
	for _, f := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if m := MoneyFromFloat(f); !m.IsZero() {
			t.Fatalf("expected zero for %v, got %s", f, m)
		}
	}
}
