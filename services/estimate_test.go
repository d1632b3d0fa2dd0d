package services

import (
	"context"
	"fmt"
	"testing"
)

// sampleInput is a small project used by the estimate and export tests.
func sampleInput() ProjectInput {
	return ProjectInput{
		Name: "Customer Portal",
		Infra: []InfrastructureItem{
			{
				Category:          CategoryAppServer,
				DisplayName:       "Web",
				OperatingSystem:   "Ubuntu Linux (64 bit)",
				ConfigurationText: "CPU: 8 core; RAM 16GB; storage: 100GB",
				Quantity:          2,
				StorageTier:       StorageSanAllFlash,
			},
			{
				Category:          CategoryDbServer,
				DisplayName:       "DB",
				OperatingSystem:   "Windows Server 2019",
				ConfigurationText: "CPU: 4 core; RAM 32GB; storage: 1TB",
				Quantity:          1,
				StorageTier:       StorageSanHDD,
			},
		},
		Labor: []LaborItem{
			{TaskName: "Login API", Role: RoleSeniorDeveloper, Mandays: 6},
			{TaskName: "Admin UI", Role: RoleJuniorDeveloper, Mandays: 3},
			{TaskName: "Kick-off", Role: RolePM, Mandays: 1},
		},
		UnitPrices: examplePrices(),
		LaborPrices: LaborPriceTable{
			RolePM:              2000000,
			RoleBA:              1500000,
			RoleSeniorDeveloper: 2200000,
			RoleJuniorDeveloper: 1200000,
			RoleTester:          1000000,
		},
	}
}

func TestEstimateProject(t *testing.T) {
	est := EstimateProject(sampleInput())

	web := 3179400.0 * 2
	db := 4*166000.0 + 32*111000.0 + 1024*300.0 + 450000.0
	if est.InfraByCategory[CategoryAppServer] != web {
		t.Errorf("AppServer subtotal = %v, want %v", est.InfraByCategory[CategoryAppServer], web)
	}
	if est.InfraByCategory[CategoryDbServer] != db {
		t.Errorf("DbServer subtotal = %v, want %v", est.InfraByCategory[CategoryDbServer], db)
	}
	if est.InfraMonthly != web+db {
		t.Errorf("InfraMonthly = %v, want %v", est.InfraMonthly, web+db)
	}

	manual := 6*2200000.0 + 3*1200000.0 + 1*2000000.0
	if est.ManualLabor != manual {
		t.Errorf("ManualLabor = %v, want %v", est.ManualLabor, manual)
	}
	if est.AutoStaffing.DevTotalMandays != 9 {
		t.Errorf("DevTotalMandays = %v, want 9", est.AutoStaffing.DevTotalMandays)
	}
	auto := 3*2000000.0 + 3*1500000.0 + 3*1000000.0
	if est.AutoStaffingCost != auto {
		t.Errorf("AutoStaffingCost = %v, want %v", est.AutoStaffingCost, auto)
	}
	if est.LaborTotal != manual+auto {
		t.Errorf("LaborTotal = %v, want %v", est.LaborTotal, manual+auto)
	}
	if est.GrandTotal != web+db+manual+auto {
		t.Errorf("GrandTotal = %v, want %v", est.GrandTotal, web+db+manual+auto)
	}
	if len(est.InfraLines) != 2 || len(est.LaborLines) != 3 {
		t.Fatalf("got %d infra lines and %d labor lines, want 2 and 3", len(est.InfraLines), len(est.LaborLines))
	}
	if est.LaborLines[0].Rate != 2200000 {
		t.Errorf("first labor line rate = %v, want 2200000", est.LaborLines[0].Rate)
	}
}

func TestEstimateProject_Empty(t *testing.T) {
	est := EstimateProject(ProjectInput{Name: "Empty"})
	if est.GrandTotal != 0 {
		t.Errorf("GrandTotal = %v, want 0", est.GrandTotal)
	}
	if est.InfraByCategory == nil {
		t.Error("InfraByCategory should be non-nil")
	}
}

func TestEstimateProjects_KeepsOrder(t *testing.T) {
	var inputs []ProjectInput
	for i := 0; i < 20; i++ {
		in := sampleInput()
		in.Name = fmt.Sprintf("Project %02d", i)
		in.Infra[0].Quantity = i + 1
		inputs = append(inputs, in)
	}

	for _, limit := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("limit %d", limit), func(t *testing.T) {
			got, err := EstimateProjects(context.Background(), inputs, limit)
			if err != nil {
				t.Fatalf("EstimateProjects() error = %v", err)
			}
			if len(got) != len(inputs) {
				t.Fatalf("got %d estimates, want %d", len(got), len(inputs))
			}
			for i := range inputs {
				want := EstimateProject(inputs[i])
				if got[i].Name != want.Name || got[i].GrandTotal != want.GrandTotal {
					t.Errorf("estimate %d = %s/%v, want %s/%v", i, got[i].Name, got[i].GrandTotal, want.Name, want.GrandTotal)
				}
			}
		})
	}
}

func TestEstimateProjects_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EstimateProjects(ctx, []ProjectInput{sampleInput()}, 1)
	if err == nil {
		t.Error("expected an error for a cancelled context")
	}
}
