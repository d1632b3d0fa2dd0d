package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"costdashboard/collections"
	"costdashboard/testhelpers"
)

func TestHandleProjectSave_ValidData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{}
	form.Set("name", "Test Project")
	form.Set("client_name", "Test Client")
	form.Set("reference_number", "REF-001")
	form.Set("status", "sent")

	req := newFormRequest(http.MethodPost, "/projects", form)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleProjectSave(app), req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	record, err := app.FindFirstRecordByData("projects", "name", "Test Project")
	if err != nil {
		t.Fatalf("expected project to be created in database: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+record.Id)

	if got := record.GetString("status"); got != "sent" {
		t.Errorf("expected status 'sent', got %q", got)
	}
	prices, err := collections.UnitPricesFromRecord(record)
	if err != nil || prices == nil || prices.CPU != collections.DefaultUnitPrices().CPU {
		t.Errorf("expected default unit prices, got %+v (%v)", prices, err)
	}
	rates, err := collections.LaborPricesFromRecord(record)
	if err != nil || len(rates) != len(collections.DefaultLaborPrices()) {
		t.Errorf("expected default labor prices, got %v (%v)", rates, err)
	}
}

func TestHandleProjectSave_NonHTMXRedirects(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{}
	form.Set("name", "Plain Form")

	rec := runHandler(t, app, HandleProjectSave(app), newFormRequest(http.MethodPost, "/projects", form))

	if rec.Code != http.StatusFound {
		t.Errorf("expected status 302, got %d", rec.Code)
	}
}

func TestHandleProjectSave_InvalidStatusFallsBackToDraft(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{}
	form.Set("name", "Odd Status")
	form.Set("status", "active")

	runHandler(t, app, HandleProjectSave(app), newFormRequest(http.MethodPost, "/projects", form))

	record, err := app.FindFirstRecordByData("projects", "name", "Odd Status")
	if err != nil {
		t.Fatalf("expected project to be created: %v", err)
	}
	if got := record.GetString("status"); got != "draft" {
		t.Errorf("expected status 'draft', got %q", got)
	}
}

func TestHandleProjectSave_MissingName(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{}
	form.Set("name", "  ")

	req := newFormRequest(http.MethodPost, "/projects", form)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleProjectSave(app), req)

	// Should re-render the list with errors, not redirect
	if rec.Header().Get("HX-Redirect") != "" {
		t.Error("expected no HX-Redirect for validation error")
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Project name is required")
}

func TestHandleProjectSave_DuplicateName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "Existing Project")

	form := url.Values{}
	form.Set("name", "Existing Project")

	req := newFormRequest(http.MethodPost, "/projects", form)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleProjectSave(app), req)

	if rec.Header().Get("HX-Redirect") != "" {
		t.Error("expected no HX-Redirect for duplicate name error")
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "A project with this name already exists")

	records, _ := app.FindRecordsByFilter("projects", "name = {:name}", "", 0, 0,
		map[string]any{"name": "Existing Project"})
	if len(records) != 1 {
		t.Errorf("expected 1 project named 'Existing Project', got %d", len(records))
	}
}
