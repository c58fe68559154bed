package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"500", 50000, true},
		{"0", 0, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"9999999999999.99", 999999999999999, true},
		{"10000000000000", 0, false},
		{"9999999999999.999", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		50000:  "500",
		30000:  "300",
		1250:   "12.5",
		1205:   "12.05",
		0:      "0",
		-30000: "-300",
		-5:     "-0.05",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%d)=%q, want %q", in, got, want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(LedgerItem{ID: "x", Date: "2024-01-10", Amount: Money{Cents: 1250}, Type: Invoice})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"x","date":"2024-01-10","amount":12.5,"description":"","type":"invoice"}`
	if string(b) != want {
		t.Fatalf("got %s", b)
	}

	var li LedgerItem
	if err := json.Unmarshal([]byte(`{"amount":0.30000000000000004}`), &li); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if li.Amount.Cents != 30 {
		t.Fatalf("expected 30 cents, got %d", li.Amount.Cents)
	}

	if err := json.Unmarshal([]byte(`{"amount":"abc"}`), &li); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestMoneyJSONRejectsHugeAmounts(t *testing.T) {
	for _, in := range []string{
		`{"amount":60000000000000000}`,
		`{"amount":10000000000000}`,
		`{"amount":-10000000000000}`,
		`{"amount":1e300}`,
	} {
		var li LedgerItem
		if err := json.Unmarshal([]byte(in), &li); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s: err = %v, want ErrInvalidAmount", in, err)
		}
	}

	var li LedgerItem
	if err := json.Unmarshal([]byte(`{"amount":9999999999999.99}`), &li); err != nil {
		t.Fatalf("largest amount rejected: %v", err)
	}
	if li.Amount.Cents != MaxCents-1 {
		t.Fatalf("cents = %d, want %d", li.Amount.Cents, MaxCents-1)
	}
}

func TestMoneyArithmeticSaturates(t *testing.T) {
	big := Money{Cents: math.MaxInt64 - 10}
	if got := big.Add(Money{Cents: 100}); got.Cents != math.MaxInt64 {
		t.Errorf("Add overflow = %d, want MaxInt64", got.Cents)
	}
	if got := (Money{Cents: math.MinInt64 + 10}).Sub(Money{Cents: 100}); got.Cents != math.MinInt64 {
		t.Errorf("Sub underflow = %d, want MinInt64", got.Cents)
	}
	if got := (Money{Cents: 10}).Sub(Money{Cents: math.MinInt64}); got.Cents != math.MaxInt64 {
		t.Errorf("Sub of MinInt64 = %d, want MaxInt64", got.Cents)
	}
	if got := (Money{Cents: 500}).Sub(Money{Cents: 800}); got.Cents != -300 {
		t.Errorf("Sub = %d, want -300", got.Cents)
	}
}
