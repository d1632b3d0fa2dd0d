package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"costdashboard/collections"
	"costdashboard/services"
	"costdashboard/testhelpers"
)

func infraForm() url.Values {
	form := url.Values{}
	form.Set("category", "DbServer")
	form.Set("display_name", "Primary DB")
	form.Set("operating_system", "Windows Server 2019")
	form.Set("configuration", "CPU: 4 core; RAM 32GB; storage: 1TB")
	form.Set("quantity", "2")
	form.Set("storage_tier", "diskSanHdd")
	form.Set("bandwidth_international", "0")
	form.Set("bandwidth_internal", "2,5")
	return form
}

func TestHandleInfraAdd_Valid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Infra Project")
	testhelpers.CreateTestInfraItem(t, app, project.Id, "CPU: 2 core", 1)

	req := newFormRequest(http.MethodPost, "/projects/"+project.Id+"/infra", infraForm(), "id", project.Id)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleInfraAdd(app), req)

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id)

	records, err := collections.FindProjectItems(app, "infra_items", project.Id)
	if err != nil || len(records) != 2 {
		t.Fatalf("expected 2 infra items, got %d (%v)", len(records), err)
	}
	added := records[1]
	if added.GetInt("sort_order") != 2 {
		t.Errorf("sort_order = %d, want 2", added.GetInt("sort_order"))
	}
	item := collections.InfraFromRecord(added)
	if item.Category != services.CategoryDbServer || item.Quantity != 2 || item.StorageTier != services.StorageSanHDD {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.InternalBandwidthMbps != 2.5 {
		t.Errorf("InternalBandwidthMbps = %v, want 2.5", item.InternalBandwidthMbps)
	}
}

func TestHandleInfraAdd_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"blank configuration", "configuration", " ", "cannot be blank"},
		{"fractional quantity", "quantity", "1.5", "must be a whole number"},
		{"quantity over cap", "quantity", "1001", "must be no greater than 1000"},
		{"huge quantity", "quantity", "1e30", "must be no greater than 1000"},
		{"text bandwidth", "bandwidth_international", "lots", "must be a number"},
		{"unknown category", "category", "Mainframe", "must be a valid value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			project := testhelpers.CreateTestProject(t, app, "Infra Project")

			form := infraForm()
			form.Set(tt.field, tt.value)
			req := newFormRequest(http.MethodPost, "/projects/"+project.Id+"/infra", form, "id", project.Id)
			req.Header.Set("HX-Request", "true")
			rec := runHandler(t, app, HandleInfraAdd(app), req)

			if rec.Header().Get("HX-Redirect") != "" {
				t.Error("expected no HX-Redirect for validation error")
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.want)

			records, _ := collections.FindProjectItems(app, "infra_items", project.Id)
			if len(records) != 0 {
				t.Errorf("expected no infra items, got %d", len(records))
			}
		})
	}
}

func TestHandleInfraUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Infra Project")
	item := testhelpers.CreateTestInfraItem(t, app, project.Id, "CPU: 2 core", 1)

	req := newFormRequest(http.MethodPost, "/projects/"+project.Id+"/infra/"+item.Id, infraForm(),
		"id", project.Id, "itemId", item.Id)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleInfraUpdate(app), req)

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id)

	updated, err := app.FindRecordById("infra_items", item.Id)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if got := updated.GetString("display_name"); got != "Primary DB" {
		t.Errorf("display_name = %q, want 'Primary DB'", got)
	}
	if got := updated.GetInt("sort_order"); got != item.GetInt("sort_order") {
		t.Errorf("sort_order changed from %d to %d", item.GetInt("sort_order"), got)
	}
}

func TestHandleInfraUpdate_OtherProjectsItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Mine")
	other := testhelpers.CreateTestProject(t, app, "Theirs")
	theirs := testhelpers.CreateTestInfraItem(t, app, other.Id, "CPU: 2 core", 1)

	rec := runHandler(t, app, HandleInfraUpdate(app),
		newFormRequest(http.MethodPost, "/projects/"+project.Id+"/infra/"+theirs.Id, infraForm(),
			"id", project.Id, "itemId", theirs.Id))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	unchanged, _ := app.FindRecordById("infra_items", theirs.Id)
	if unchanged.GetString("display_name") != "App" {
		t.Error("item of another project should not be modified")
	}
}

func TestHandleInfraDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Infra Project")
	item := testhelpers.CreateTestInfraItem(t, app, project.Id, "CPU: 2 core", 1)

	req := newFormRequest(http.MethodDelete, "/projects/"+project.Id+"/infra/"+item.Id, nil,
		"id", project.Id, "itemId", item.Id)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleInfraDelete(app), req)

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id)
	if _, err := app.FindRecordById("infra_items", item.Id); err == nil {
		t.Error("expected infra item to be deleted")
	}
}

func TestHandleLaborAdd(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Labor Project")

	form := url.Values{}
	form.Set("task_name", "Build login API")
	form.Set("role", "Senior Developer")
	form.Set("mandays", "4,5")
	form.Set("assignee", "Lan")

	req := newFormRequest(http.MethodPost, "/projects/"+project.Id+"/labor", form, "id", project.Id)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleLaborAdd(app), req)

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id)

	records, _ := collections.FindProjectItems(app, "labor_items", project.Id)
	if len(records) != 1 {
		t.Fatalf("expected 1 labor item, got %d", len(records))
	}
	item := collections.LaborFromRecord(records[0])
	if item.Role != services.RoleSeniorDeveloper || item.Mandays != 4.5 || item.Assignee != "Lan" {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestHandleLaborAdd_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		form map[string]string
		want string
	}{
		{"QC role", map[string]string{"task_name": "Regression", "role": "QC", "mandays": "2"}, "QC is not a supported role"},
		{"missing task", map[string]string{"role": "PM", "mandays": "2"}, "cannot be blank"},
		{"negative mandays", map[string]string{"task_name": "Plan", "role": "PM", "mandays": "-1"}, "must be no less than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			project := testhelpers.CreateTestProject(t, app, "Labor Project")

			form := url.Values{}
			for k, v := range tt.form {
				form.Set(k, v)
			}
			req := newFormRequest(http.MethodPost, "/projects/"+project.Id+"/labor", form, "id", project.Id)
			req.Header.Set("HX-Request", "true")
			rec := runHandler(t, app, HandleLaborAdd(app), req)

			if rec.Header().Get("HX-Redirect") != "" {
				t.Error("expected no HX-Redirect for validation error")
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestHandleLaborUpdateAndDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Labor Project")
	item := testhelpers.CreateTestLaborItem(t, app, project.Id, "API", services.RoleJuniorDeveloper, 3)

	form := url.Values{}
	form.Set("task_name", "API v2")
	form.Set("role", "JuniorDeveloper")
	form.Set("mandays", "6")
	req := newFormRequest(http.MethodPost, "/projects/"+project.Id+"/labor/"+item.Id, form,
		"id", project.Id, "itemId", item.Id)
	req.Header.Set("HX-Request", "true")
	runHandler(t, app, HandleLaborUpdate(app), req)

	updated, err := app.FindRecordById("labor_items", item.Id)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if updated.GetString("task_name") != "API v2" || updated.GetFloat("mandays") != 6 {
		t.Errorf("unexpected item after update: %q %v", updated.GetString("task_name"), updated.GetFloat("mandays"))
	}

	req = newFormRequest(http.MethodDelete, "/projects/"+project.Id+"/labor/"+item.Id, nil,
		"id", project.Id, "itemId", item.Id)
	req.Header.Set("HX-Request", "true")
	runHandler(t, app, HandleLaborDelete(app), req)

	if _, err := app.FindRecordById("labor_items", item.Id); err == nil {
		t.Error("expected labor item to be deleted")
	}
}

func TestHandlePricesSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Priced")

	form := url.Values{}
	for _, k := range services.PriceKeys {
		form.Set(string(k), "10")
	}
	form.Set(string(services.PriceCPU), "200000")
	for _, r := range services.Roles {
		form.Set(laborPriceField(r), "1000")
	}
	form.Set(laborPriceField(services.RolePM), "3000000")

	req := newFormRequest(http.MethodPost, "/projects/"+project.Id+"/prices", form, "id", project.Id)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandlePricesSave(app), req)

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id)

	saved, _ := app.FindRecordById("projects", project.Id)
	unit, err := collections.UnitPricesFromRecord(saved)
	if err != nil || unit == nil {
		t.Fatalf("failed to decode unit prices: %v", err)
	}
	if unit.CPU != 200000 || unit.OSWindows != 10 {
		t.Errorf("unexpected unit prices: %+v", unit)
	}
	labor, err := collections.LaborPricesFromRecord(saved)
	if err != nil {
		t.Fatalf("failed to decode labor prices: %v", err)
	}
	if labor.Rate(services.RolePM) != 3000000 || labor.Rate(services.RoleTester) != 1000 {
		t.Errorf("unexpected labor prices: %v", labor)
	}
}

func TestHandlePricesSave_Negative(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Priced")

	form := url.Values{}
	form.Set(string(services.PriceRAM), "-1")

	rec := runHandler(t, app, HandlePricesSave(app),
		newFormRequest(http.MethodPost, "/projects/"+project.Id+"/prices", form, "id", project.Id))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	saved, _ := app.FindRecordById("projects", project.Id)
	unit, _ := collections.UnitPricesFromRecord(saved)
	if unit == nil || unit.RAM != collections.DefaultUnitPrices().RAM {
		t.Errorf("prices should be unchanged, got %+v", unit)
	}
}
