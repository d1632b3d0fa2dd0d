package services

import (
	"math"
	"testing"
)

func examplePrices() *UnitPriceTable {
	return &UnitPriceTable{
		CPU:             166000,
		RAM:             111000,
		DiskSanAllFlash: 754,
		DiskSanHDD:      300,
		OSWindows:       450000,
		OSLinux:         0,
	}
}

func exampleItem() InfrastructureItem {
	return InfrastructureItem{
		Category:          CategoryAppServer,
		OperatingSystem:   "Ubuntu Linux (64 bit)",
		ConfigurationText: "CPU: 8 core; RAM 16GB; storage: 100GB",
		Quantity:          1,
		StorageTier:       StorageSanAllFlash,
	}
}

func TestCalcItemCost(t *testing.T) {
	got := CalcItemCost(exampleItem(), examplePrices())
	if got.UnitPrice != 3179400 {
		t.Errorf("UnitPrice = %v, want 3179400", got.UnitPrice)
	}
	if got.TotalPrice != 3179400 {
		t.Errorf("TotalPrice = %v, want 3179400", got.TotalPrice)
	}
}

func TestCalcItemCost_Quantity(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		wantTotal float64
	}{
		{"two units", 2, 6358800},
		{"zero counts as one", 0, 3179400},
		{"negative counts as one", -3, 3179400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := exampleItem()
			item.Quantity = tt.quantity
			got := CalcItemCost(item, examplePrices())
			if got.TotalPrice != tt.wantTotal {
				t.Errorf("TotalPrice = %v, want %v", got.TotalPrice, tt.wantTotal)
			}
			if got.UnitPrice != 3179400 {
				t.Errorf("UnitPrice = %v, want 3179400", got.UnitPrice)
			}
		})
	}
}

func TestCalcItemCost_NilPrices(t *testing.T) {
	got := CalcItemCost(exampleItem(), nil)
	if got != (CalculationResult{}) {
		t.Errorf("CalcItemCost with nil prices = %+v, want zero", got)
	}
}

func TestCalcItemCost_MissingStoragePrice(t *testing.T) {
	prices := &UnitPriceTable{CPU: 166000, RAM: 111000}
	got := CalcItemCost(exampleItem(), prices)
	if got.UnitPrice != 8*166000+16*111000 {
		t.Errorf("UnitPrice = %v, want %v", got.UnitPrice, 8*166000+16*111000)
	}
}

func TestUnitPriceTable_StoragePriceZeroMeansUnset(t *testing.T) {
	tests := []struct {
		name   string
		prices *UnitPriceTable
		tier   StorageTier
		want   float64
	}{
		{"priced tier", &UnitPriceTable{DiskSanAllFlash: 754, ObjectStorage: 500}, StorageObject, 500},
		{"zero-priced tier billed as all-flash", &UnitPriceTable{DiskSanAllFlash: 754, ObjectStorage: 0}, StorageObject, 754},
		{"zero tier and zero all-flash", &UnitPriceTable{DiskSanHDD: 0}, StorageSanHDD, 0},
		{"nil table", nil, StorageObject, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prices.StoragePrice(tt.tier); got != tt.want {
				t.Errorf("StoragePrice(%s) = %v, want %v", tt.tier, got, tt.want)
			}
		})
	}
}

func TestCalcItemCost_StorageTier(t *testing.T) {
	tests := []struct {
		name        string
		tier        StorageTier
		wantStorage float64
	}{
		{"all-flash", StorageSanAllFlash, 100 * 754},
		{"hdd", StorageSanHDD, 100 * 300},
		{"object falls back to all-flash", StorageObject, 100 * 754},
		{"unknown tier falls back to all-flash", StorageTier("tape"), 100 * 754},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := exampleItem()
			item.StorageTier = tt.tier
			b := CalcItemBreakdown(item, examplePrices())
			if b.Storage != tt.wantStorage {
				t.Errorf("Storage = %v, want %v", b.Storage, tt.wantStorage)
			}
		})
	}
}

func TestCalcItemCost_WindowsLicence(t *testing.T) {
	for _, osName := range []string{"Windows Server 2019", "WINDOWS 11", "microsoft window"} {
		t.Run(osName, func(t *testing.T) {
			item := exampleItem()
			item.OperatingSystem = osName
			b := CalcItemBreakdown(item, examplePrices())
			if b.OS != 450000 {
				t.Errorf("OS = %v, want 450000", b.OS)
			}
		})
	}
}

func TestCalcItemCost_Bandwidth(t *testing.T) {
	prices := &UnitPriceTable{BandwidthInternational: 1000, BandwidthInternal: 10}
	item := InfrastructureItem{
		InternationalBandwidthMbps: 5,
		InternalBandwidthMbps:      math.NaN(),
		Quantity:                   2,
	}
	got := CalcItemCost(item, prices)
	if got.UnitPrice != 5000 {
		t.Errorf("UnitPrice = %v, want 5000", got.UnitPrice)
	}
	if got.TotalPrice != 10000 {
		t.Errorf("TotalPrice = %v, want 10000", got.TotalPrice)
	}
}

func TestUnitPriceTable_PriceAndSetPrice(t *testing.T) {
	var p UnitPriceTable
	for i, k := range PriceKeys {
		p.SetPrice(k, float64(i+1))
	}
	for i, k := range PriceKeys {
		if got := p.Price(k); got != float64(i+1) {
			t.Errorf("Price(%s) = %v, want %v", k, got, i+1)
		}
	}
	if got := p.Price(PriceKey("gpu")); got != 0 {
		t.Errorf("Price(unknown) = %v, want 0", got)
	}

	var nilTable *UnitPriceTable
	if got := nilTable.Price(PriceCPU); got != 0 {
		t.Errorf("nil table Price = %v, want 0", got)
	}

	p.SetPrice(PriceCPU, math.Inf(1))
	if got := p.Price(PriceCPU); got != 0 {
		t.Errorf("Price of infinite value = %v, want 0", got)
	}
}

func TestCalcItemCost_Deterministic(t *testing.T) {
	item := exampleItem()
	prices := examplePrices()
	wantRes := ParseConfig(item.ConfigurationText)
	want := CalcItemCost(item, prices)

	for i := 0; i < 100; i++ {
		if got := ParseConfig(item.ConfigurationText); got != wantRes {
			t.Fatalf("run %d: ParseConfig = %+v, want %+v", i, got, wantRes)
		}
		if got := CalcItemCost(item, prices); got != want {
			t.Fatalf("run %d: CalcItemCost = %+v, want %+v", i, got, want)
		}
	}
	if prices.CPU != 166000 || item.Quantity != 1 {
		t.Error("inputs were modified")
	}
}
