package services

import (
	"math"
	"testing"
)

func TestFormatVND(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "0 ₫"},
		{"hundreds", 754, "754 ₫"},
		{"thousands", 166000, "166.000 ₫"},
		{"millions", 3179400, "3.179.400 ₫"},
		{"rounds half dong", 1234.5, "1.235 ₫"},
		{"negative", -2500000, "-2.500.000 ₫"},
		{"nan", math.NaN(), "0 ₫"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVND(tt.input); got != tt.expect {
				t.Errorf("FormatVND(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatVNDCode(t *testing.T) {
	if got := FormatVNDCode(6358800); got != "6.358.800 VND" {
		t.Errorf("FormatVNDCode() = %q", got)
	}
}

func TestFormatMandays(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{9, "9"},
		{3, "3"},
		{1.0 / 3.0, "0.33"},
		{2.5, "2.50"},
		{math.Inf(1), "0"},
	}

	for _, tt := range tests {
		if got := FormatMandays(tt.input); got != tt.expect {
			t.Errorf("FormatMandays(%v) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatResources(t *testing.T) {
	got := FormatResources(ResourceQuantity{CPUCores: 8, RAMGigabytes: 16, StorageGigabytes: 100})
	if got != "8 vCPU / 16 GB RAM / 100 GB" {
		t.Errorf("FormatResources() = %q", got)
	}
}
