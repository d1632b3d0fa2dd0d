package services

import (
	"math"
	"testing"
)

func TestCalcLaborCost(t *testing.T) {
	prices := LaborPriceTable{RoleSeniorDeveloper: 2200000}

	tests := []struct {
		name string
		item LaborItem
		want float64
	}{
		{"senior developer", LaborItem{Role: RoleSeniorDeveloper, Mandays: 5}, 11000000},
		{"unpriced role", LaborItem{Role: RoleDesigner, Mandays: 5}, 0},
		{"unknown role", LaborItem{Role: Role("QC"), Mandays: 5}, 0},
		{"nan mandays", LaborItem{Role: RoleSeniorDeveloper, Mandays: math.NaN()}, 0},
		{"fractional", LaborItem{Role: RoleSeniorDeveloper, Mandays: 0.5}, 1100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalcLaborCost(tt.item, prices); got != tt.want {
				t.Errorf("CalcLaborCost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalcLaborCost_NilTable(t *testing.T) {
	if got := CalcLaborCost(LaborItem{Role: RolePM, Mandays: 3}, nil); got != 0 {
		t.Errorf("CalcLaborCost with nil table = %v, want 0", got)
	}
}

func TestComputeAutoStaffing(t *testing.T) {
	labors := []LaborItem{
		{Role: RoleSeniorDeveloper, Mandays: 5},
		{Role: RoleJuniorDeveloper, Mandays: 4},
		{Role: RolePM, Mandays: 10},
		{Role: RoleTester, Mandays: 7},
	}
	got := ComputeAutoStaffing(labors)
	want := AutoStaffingStats{DevTotalMandays: 9, PMMandays: 3, BAMandays: 3, TesterMandays: 3}
	if got != want {
		t.Errorf("ComputeAutoStaffing() = %+v, want %+v", got, want)
	}
}

func TestComputeAutoStaffing_NoDevelopers(t *testing.T) {
	got := ComputeAutoStaffing([]LaborItem{{Role: RolePM, Mandays: 4}})
	if got != (AutoStaffingStats{}) {
		t.Errorf("ComputeAutoStaffing() = %+v, want zero", got)
	}
	if got := ComputeAutoStaffing(nil); got != (AutoStaffingStats{}) {
		t.Errorf("ComputeAutoStaffing(nil) = %+v, want zero", got)
	}
}

func TestComputeAutoStaffing_DerivedRolesSumToDevTotal(t *testing.T) {
	got := ComputeAutoStaffing([]LaborItem{{Role: RoleSeniorDeveloper, Mandays: 10}})
	sum := got.PMMandays + got.BAMandays + got.TesterMandays
	if math.Abs(sum-got.DevTotalMandays) > 1e-9 {
		t.Errorf("derived sum = %v, want %v", sum, got.DevTotalMandays)
	}
}

func TestPriceAutoStaffing(t *testing.T) {
	stats := AutoStaffingStats{DevTotalMandays: 9, PMMandays: 3, BAMandays: 3, TesterMandays: 3}
	prices := LaborPriceTable{RolePM: 100, RoleBA: 10, RoleTester: 1}
	if got := PriceAutoStaffing(stats, prices); got != 333 {
		t.Errorf("PriceAutoStaffing() = %v, want 333", got)
	}
	if got := PriceAutoStaffing(stats, LaborPriceTable{RolePM: 100}); got != 300 {
		t.Errorf("PriceAutoStaffing() with missing rates = %v, want 300", got)
	}
}

func TestRoleLabel(t *testing.T) {
	if got := RoleLabel(RoleTester); got != "Tester/QA" {
		t.Errorf("RoleLabel(Tester) = %q", got)
	}
	if got := RoleLabel(Role("Intern")); got != "Intern" {
		t.Errorf("RoleLabel(unknown) = %q, want the raw value", got)
	}
}

func TestComputeAutoStaffing_SameRatioForEachRole(t *testing.T) {
	got := ComputeAutoStaffing([]LaborItem{
		{Role: RoleSeniorDeveloper, Mandays: 7},
		{Role: RoleJuniorDeveloper, Mandays: 5},
		{Role: RolePM, Mandays: 40},
	})
	want := 12 * AutoStaffingRatio
	for name, v := range map[string]float64{"PM": got.PMMandays, "BA": got.BAMandays, "Tester": got.TesterMandays} {
		if v != want {
			t.Errorf("%s mandays = %v, want %v", name, v, want)
		}
	}
}
