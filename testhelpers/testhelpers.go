// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costdashboard/collections"
	"costdashboard/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a draft project with the default price tables and
// returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "draft")
	record.Set("unit_prices", collections.DefaultUnitPrices())
	record.Set("labor_prices", collections.DefaultLaborPrices())

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestInfraItem adds an application server with the given configuration
// to a project and returns it.
func CreateTestInfraItem(t *testing.T, app *pocketbase.PocketBase, projectID, configuration string, quantity int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("infra_items")
	if err != nil {
		t.Fatalf("failed to find infra_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("sort_order", collections.NextSortOrder(app, "infra_items", projectID))
	collections.ApplyInfra(record, services.InfrastructureItem{
		Category:          services.CategoryAppServer,
		DisplayName:       "App",
		OperatingSystem:   "Ubuntu Linux",
		ConfigurationText: configuration,
		Quantity:          quantity,
		StorageTier:       services.StorageSanAllFlash,
	})

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test infra item: %v", err)
	}

	return record
}

// CreateTestLaborItem adds a labor task to a project and returns it.
func CreateTestLaborItem(t *testing.T, app *pocketbase.PocketBase, projectID, task string, role services.Role, mandays float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("labor_items")
	if err != nil {
		t.Fatalf("failed to find labor_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("sort_order", collections.NextSortOrder(app, "labor_items", projectID))
	collections.ApplyLabor(record, services.LaborItem{TaskName: task, Role: role, Mandays: mandays})

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test labor item: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
