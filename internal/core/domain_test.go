package core

import (
	"strings"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{Date: "2024-01-05", Category: "Food", Amount: 10, UserID: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Negative and zero amounts are accepted on purpose.
	for _, amt := range []float64{-5, 0} {
		e := good
		e.Amount = amt
		if err := e.Validate(); err != nil {
			t.Fatalf("amount %v: expected ok, got %v", amt, err)
		}
	}

	bads := []Expense{
		{Date: "not-a-date", Category: "Food", Amount: 1},
		{Date: "2024-13-40", Category: "Food", Amount: 1},
		{Date: "2024-01-05", Category: "   ", Amount: 1},
		{Date: "2024-01-05", Category: "Food", Description: strings.Repeat("x", 201)},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMonthKey(t *testing.T) {
	cases := []struct {
		date string
		want string
		ok   bool
	}{
		{"2024-01-05", "2024-01", true},
		{"2024-12-31", "2024-12", true},
		{"2024-1-5", "", false},
		{"05/01/2024", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := MonthKey(tc.date)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got %q, %v", i, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.34", 12.34, true},
		{"12,34", 12.34, true},
		{" 7 ", 7, true},
		{"-3.50", -3.5, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12.3.4", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got %v, %v", i, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
