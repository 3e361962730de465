package core

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "850000", want: 850000},
		{in: "1.250.000", want: 1250000},
		{in: " 50000 ", want: 50000},
		{in: "0", wantErr: true},
		{in: "", wantErr: true},
		{in: "-100", wantErr: true},
		{in: "+100", wantErr: true},
		{in: "12,5", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAmount(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			}
			if got.Rupiah != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got.Rupiah, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		rupiah int64
		want   string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{850000, "Rp850.000"},
		{1250000, "Rp1.250.000"},
		{-40000, "-Rp40.000"},
	}
	for _, tt := range tests {
		if got := (Money{Rupiah: tt.rupiah}).String(); got != tt.want {
			t.Errorf("Money(%d).String() = %q, want %q", tt.rupiah, got, tt.want)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Rupiah: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}
