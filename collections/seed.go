package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costdashboard/services"
)

// DefaultUnitPrices returns the monthly unit prices (VND) a new project
// starts with.
func DefaultUnitPrices() services.UnitPriceTable {
	return services.UnitPriceTable{
		CPU:                    166000,
		RAM:                    111000,
		DiskSanAllFlash:        754,
		DiskSanHDD:             377,
		ObjectStorage:          500,
		BandwidthInternational: 150000,
		BandwidthInternal:      10000,
		OSWindows:              450000,
		OSLinux:                0,
	}
}

// DefaultLaborPrices returns the daily rates (VND) a new project starts with.
func DefaultLaborPrices() services.LaborPriceTable {
	return services.LaborPriceTable{
		services.RolePM:              2500000,
		services.RoleBA:              2000000,
		services.RoleSeniorDeveloper: 2200000,
		services.RoleJuniorDeveloper: 1200000,
		services.RoleTester:          1000000,
		services.RoleDesigner:        1500000,
	}
}

// Seed creates a demo project with a typical web application estimate. It is
// safe to call on every startup because it returns early if any project
// records already exist.
func Seed(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty, inserting demo project ...")

	infraCol, err := app.FindCollectionByNameOrId("infra_items")
	if err != nil {
		return fmt.Errorf("seed: could not find infra_items collection: %w", err)
	}
	laborCol, err := app.FindCollectionByNameOrId("labor_items")
	if err != nil {
		return fmt.Errorf("seed: could not find labor_items collection: %w", err)
	}

	infra := []services.InfrastructureItem{
		{
			Category: services.CategoryAppServer, DisplayName: "Web", OperatingSystem: "Ubuntu Linux (64 bit)",
			ConfigurationText: "CPU: 8 core; RAM 16GB; storage: 100GB", Quantity: 2,
			StorageTier: services.StorageSanAllFlash, InternationalBandwidthMbps: 20, InternalBandwidthMbps: 100,
			Note: "Behind load balancer",
		},
		{
			Category: services.CategoryDbServer, DisplayName: "Database", OperatingSystem: "Windows Server 2019",
			ConfigurationText: "CPU: 16 core; RAM 64GB; storage: 500GB, 1TB", Quantity: 1,
			StorageTier: services.StorageSanAllFlash, InternalBandwidthMbps: 200,
			Note: "SQL Server Standard",
		},
		{
			Category: services.CategoryOther, DisplayName: "Backup", OperatingSystem: "Ubuntu Linux (64 bit)",
			ConfigurationText: "4 core 8GB storage: 2TB", Quantity: 1,
			StorageTier: services.StorageSanHDD, InternalBandwidthMbps: 50,
		},
	}
	labor := []services.LaborItem{
		{TaskName: "Requirements workshop", Role: services.RoleBA, Mandays: 3, Status: "done", Priority: "high"},
		{TaskName: "Backend API", Role: services.RoleSeniorDeveloper, Mandays: 20, Status: "in_progress", Priority: "high"},
		{TaskName: "Admin screens", Role: services.RoleJuniorDeveloper, Mandays: 10, Status: "todo", Priority: "medium"},
		{TaskName: "UI design", Role: services.RoleDesigner, Mandays: 5, Status: "todo", Priority: "medium"},
	}

	return app.RunInTransaction(func(txApp core.App) error {
		project := core.NewRecord(projectsCol)
		project.Set("name", "Customer Portal (demo)")
		project.Set("client_name", "Acme Vietnam")
		project.Set("reference_number", "QT-2026-001")
		project.Set("status", "draft")
		project.Set("unit_prices", DefaultUnitPrices())
		project.Set("labor_prices", DefaultLaborPrices())
		if err := txApp.Save(project); err != nil {
			return fmt.Errorf("seed: save project: %w", err)
		}

		for i, it := range infra {
			r := core.NewRecord(infraCol)
			r.Set("project", project.Id)
			r.Set("sort_order", i+1)
			ApplyInfra(r, it)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save infra item %q: %w", it.DisplayName, err)
			}
		}

		for i, l := range labor {
			r := core.NewRecord(laborCol)
			r.Set("project", project.Id)
			r.Set("sort_order", i+1)
			ApplyLabor(r, l)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save labor item %q: %w", l.TaskName, err)
			}
		}

		log.Printf("seed: created project %q with %d infra and %d labor items\n", project.GetString("name"), len(infra), len(labor))
		return nil
	})
}
